package main

import (
	"context"
	"time"

	"planner_service/internal/repository"
	"planner_service/pkg/kafka"
	"planner_service/pkg/logger"
)

// ReminderWorker periodically scans for submission-bearing objects due soon
// and publishes reminder events for downstream notification delivery.
type ReminderWorker struct {
	objectRepo    *repository.LearningObjectRepository
	kafkaProducer *kafka.Producer
	logger        *logger.Logger
	topic         string
	interval      time.Duration
	window        time.Duration
}

func NewReminderWorker(
	objectRepo *repository.LearningObjectRepository,
	kafkaProducer *kafka.Producer,
	logger *logger.Logger,
	topic string,
	interval, window time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		objectRepo:    objectRepo,
		kafkaProducer: kafkaProducer,
		logger:        logger,
		topic:         topic,
		interval:      interval,
		window:        window,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.processReminders(ctx)
		}
	}
}

func (w *ReminderWorker) processReminders(ctx context.Context) {
	objects, err := w.objectRepo.FindDueSoon(ctx, w.window)
	if err != nil {
		w.logger.Errorf("Failed to get objects due soon: %v", err)
		return
	}

	for _, obj := range objects {
		message := map[string]interface{}{
			"plannable_id":   obj.ID,
			"plannable_type": obj.Type,
			"course_id":      obj.CourseID,
			"title":          obj.Title,
			"due_at":         obj.DueAt,
		}

		if err := w.kafkaProducer.Send(ctx, w.topic, message); err != nil {
			w.logger.Errorf("Failed to send reminder for %s %s: %v", obj.Type, obj.ID, err)
			continue
		}

		w.logger.Infof("Sent reminder for %s %s", obj.Type, obj.ID)
	}
}
