package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"planner_service/internal/domain"
	"planner_service/internal/planner"
	"planner_service/internal/service"
	"planner_service/pkg/ctxdata"
	"planner_service/pkg/logger"
)

// defaultWindow is how far ahead the feed looks when the caller gives no
// explicit date range.
const defaultWindow = 28 * 24 * time.Hour

type Handler struct {
	planner   service.PlannerServiceInterface
	overrides service.OverrideServiceInterface
	cache     Cache
	cacheTTL  time.Duration
	logger    *logger.Logger
}

func NewHandler(
	plannerSvc service.PlannerServiceInterface,
	overrideSvc service.OverrideServiceInterface,
	cache Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *Handler {
	return &Handler{
		planner:   plannerSvc,
		overrides: overrideSvc,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/items", h.ListPlannerItems)
		r.Get("/items/{type}/{id}", h.GetPlannerItem)
		r.Post("/overrides", h.CreateOverride)
		r.Patch("/overrides/{id}", h.UpdateOverride)
		r.Post("/notes", h.CreateNote)
	})
}

// ListPlannerItems serves GET /planner/items. Responses are cached per
// (user, window, options) and invalidated when the user mutates an override
// or creates a note.
func (h *Handler) ListPlannerItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := ctxdata.GetUserID(ctx)

	start, end, opts, err := parseFeedQuery(r)
	if err != nil {
		h.logger.InfoContext(ctx, "bad feed query", zap.Error(err))
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	key := feedCacheKey(userID, start, end, opts)
	if data, ok := h.cache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	items, err := h.planner.PlannerItems(ctx, start, end, opts)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build planner feed", zap.Error(err))
		statusCode := mapErr(err)
		writeErrorJSON(w, statusCode, http.StatusText(statusCode))
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "failed to serialize response")
		return
	}

	h.cache.Set(ctx, key, data, h.cacheTTL)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) GetPlannerItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plannableType := domain.ToPlannableType(chi.URLParam(r, "type"))
	if plannableType == domain.PlannableUnspecified {
		writeErrorJSON(w, http.StatusBadRequest, "unknown plannable type")
		return
	}

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid plannable id")
		return
	}

	_, _, opts, err := parseFeedQuery(r)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.planner.PlannerItem(ctx, plannableType, id, opts)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build planner item", zap.Error(err))
		statusCode := mapErr(err)
		writeErrorJSON(w, statusCode, http.StatusText(statusCode))
		return
	}

	writeJSON(w, http.StatusOK, item)
}

type createOverrideRequest struct {
	PlannableType  string    `json:"plannable_type"`
	PlannableID    uuid.UUID `json:"plannable_id"`
	MarkedComplete bool      `json:"marked_complete"`
	Dismissed      bool      `json:"dismissed"`
}

func (h *Handler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plannableType := domain.ToPlannableType(req.PlannableType)
	if plannableType == domain.PlannableUnspecified {
		writeErrorJSON(w, http.StatusBadRequest, "unknown plannable type")
		return
	}

	override, err := h.overrides.CreateOverride(ctx, &domain.PlannerOverride{
		PlannableType:  plannableType,
		PlannableID:    req.PlannableID,
		MarkedComplete: req.MarkedComplete,
		Dismissed:      req.Dismissed,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create override", zap.Error(err))
		statusCode := mapErr(err)
		writeErrorJSON(w, statusCode, http.StatusText(statusCode))
		return
	}

	h.invalidateFeed(ctx)
	writeJSON(w, http.StatusCreated, override)
}

type updateOverrideRequest struct {
	MarkedComplete *bool `json:"marked_complete"`
	Dismissed      *bool `json:"dismissed"`
}

func (h *Handler) UpdateOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid override id")
		return
	}

	var req updateOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	override, err := h.overrides.UpdateOverride(ctx, id, req.MarkedComplete, req.Dismissed)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update override", zap.Error(err))
		statusCode := mapErr(err)
		writeErrorJSON(w, statusCode, http.StatusText(statusCode))
		return
	}

	h.invalidateFeed(ctx)
	writeJSON(w, http.StatusOK, override)
}

type createNoteRequest struct {
	Title    string     `json:"title"`
	TodoDate *time.Time `json:"todo_date"`
	CourseID *uuid.UUID `json:"course_id"`
}

type noteResponse struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	TodoDate *time.Time `json:"todo_date"`
	CourseID *uuid.UUID `json:"course_id,omitempty"`
	UserID   uuid.UUID  `json:"user_id"`
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note := &domain.LearningObject{
		Type:     domain.PlannablePlannerNote,
		Title:    req.Title,
		TodoDate: req.TodoDate,
	}
	if req.CourseID != nil {
		note.CourseID = *req.CourseID
	}

	created, err := h.planner.CreateNote(ctx, note)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create note", zap.Error(err))
		statusCode := mapErr(err)
		writeErrorJSON(w, statusCode, http.StatusText(statusCode))
		return
	}

	resp := noteResponse{
		ID:       created.ID,
		Title:    created.Title,
		TodoDate: created.TodoDate,
	}
	if created.CourseID != uuid.Nil {
		courseID := created.CourseID
		resp.CourseID = &courseID
	}
	if created.UserID != nil {
		resp.UserID = *created.UserID
	}

	h.invalidateFeed(ctx)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) invalidateFeed(ctx context.Context) {
	if userID, ok := ctxdata.GetUserID(ctx); ok {
		h.cache.DeletePrefix(ctx, feedCachePrefix(userID))
	}
}

func parseFeedQuery(r *http.Request) (start, end time.Time, opts planner.Options, err error) {
	now := time.Now()
	start, end = now, now.Add(defaultWindow)

	if t, perr := parseTimeQuery(r, "start_date"); perr != nil {
		return start, end, opts, perr
	} else if t != nil {
		start = *t
	}

	if t, perr := parseTimeQuery(r, "end_date"); perr != nil {
		return start, end, opts, perr
	} else if t != nil {
		end = *t
	}

	if opts.DueAfter, err = parseTimeQuery(r, "due_after"); err != nil {
		return start, end, opts, err
	}

	if val := r.URL.Query().Get("use_html_comment"); val != "" {
		useHTML, perr := strconv.ParseBool(val)
		if perr != nil {
			return start, end, opts, fmt.Errorf("invalid use_html_comment: %w", perr)
		}
		opts.UseHTMLComment = useHTML
	}

	return start, end, opts, nil
}

func feedCachePrefix(userID uuid.UUID) string {
	return "planner:items:" + userID.String() + ":"
}

func feedCacheKey(userID uuid.UUID, start, end time.Time, opts planner.Options) string {
	dueAfter := int64(0)
	if opts.DueAfter != nil {
		dueAfter = opts.DueAfter.Unix()
	}
	return fmt.Sprintf("%s%d:%d:%d:%t",
		feedCachePrefix(userID), start.Unix(), end.Unix(), dueAfter, opts.UseHTMLComment)
}
