// Package quizstats computes per-answer response counts for quiz questions
// with pre-defined answers (multiple choice, fill-in-multiple-blanks and
// the like). Aggregation is a fold over the responses producing a fresh
// result set; inputs are never mutated, so batches can be processed
// concurrently.
package quizstats

import "github.com/google/uuid"

const (
	// UnknownAnswerID buckets free-form responses that match no
	// pre-defined answer.
	UnknownAnswerID   = "other"
	UnknownAnswerText = "Other"

	// MissingAnswerID buckets empty responses.
	MissingAnswerID   = "none"
	MissingAnswerText = "No Answer"
)

type Answer struct {
	ID   string
	Text string
	// Weight is the grading weight; 100 marks the correct answer.
	Weight int
}

type Question struct {
	ID      uuid.UUID
	Answers []Answer
}

type Response struct {
	UserID   uuid.UUID
	UserName string
	AnswerID string
	Text     string
}

type AnswerStats struct {
	ID        string
	Text      string
	Correct   bool
	Responses int
	UserIDs   []uuid.UUID
	UserNames []string
}

// Aggregate counts how many responses each pre-defined answer received.
// Responses that match no answer land in an aggregate "other" bucket when
// they carry text, otherwise in a "missing" bucket; those buckets are
// appended to the result only when used.
func Aggregate(q Question, responses []Response) []AnswerStats {
	stats := make([]AnswerStats, 0, len(q.Answers)+2)
	for _, a := range q.Answers {
		stats = append(stats, AnswerStats{
			ID:      a.ID,
			Text:    a.Text,
			Correct: a.Weight == 100,
		})
	}

	index := make(map[string]int, len(q.Answers))
	for i, s := range stats {
		index[s.ID] = i
	}

	for _, r := range responses {
		i, ok := index[r.AnswerID]
		if !ok {
			bucketID, bucketText := MissingAnswerID, MissingAnswerText
			if r.Text != "" {
				bucketID, bucketText = UnknownAnswerID, UnknownAnswerText
			}
			if i, ok = index[bucketID]; !ok {
				stats = append(stats, AnswerStats{ID: bucketID, Text: bucketText})
				i = len(stats) - 1
				index[bucketID] = i
			}
		}

		stats[i].Responses++
		stats[i].UserIDs = append(stats[i].UserIDs, r.UserID)
		stats[i].UserNames = append(stats[i].UserNames, r.UserName)
	}

	return stats
}
