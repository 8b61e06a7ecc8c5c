package planner

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner_service/internal/domain"
)

type fakeStore struct {
	submissions map[string]*domain.Submission
	overrides   map[string]*domain.PlannerOverride
	courses     map[uuid.UUID]*domain.Course
	notEnrolled map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		submissions: make(map[string]*domain.Submission),
		overrides:   make(map[string]*domain.PlannerOverride),
		courses:     make(map[uuid.UUID]*domain.Course),
		notEnrolled: make(map[uuid.UUID]bool),
	}
}

func subKey(objectID, userID uuid.UUID) string {
	return objectID.String() + "/" + userID.String()
}

func (s *fakeStore) FindSubmission(_ context.Context, objectID, userID uuid.UUID) (*domain.Submission, error) {
	return s.submissions[subKey(objectID, userID)], nil
}

func (s *fakeStore) FindOverride(
	_ context.Context,
	plannableType domain.PlannableType,
	plannableID, userID uuid.UUID,
) (*domain.PlannerOverride, error) {
	return s.overrides[string(plannableType)+"/"+subKey(plannableID, userID)], nil
}

func (s *fakeStore) GetCourse(_ context.Context, id uuid.UUID) (*domain.Course, error) {
	return s.courses[id], nil
}

func (s *fakeStore) EnrollmentExists(_ context.Context, courseID, _ uuid.UUID) (bool, error) {
	return !s.notEnrolled[courseID], nil
}

func timePtr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func newTestAggregator(store *fakeStore) *Aggregator {
	return New(store, NewRoutes(""))
}

func TestToPlannerItemAssignment(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	courseID := uuid.New()
	store.courses[courseID] = &domain.Course{
		ID:       courseID,
		Name:     "Intro to Biology",
		ImageURL: strPtr("https://img.example/bio.png"),
	}

	due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	obj := &domain.LearningObject{
		ID:             uuid.New(),
		Type:           domain.PlannableAssignment,
		CourseID:       courseID,
		Title:          "Lab Report",
		DueAt:          timePtr(due),
		PointsPossible: f64Ptr(20),
	}

	item, err := newTestAggregator(store).ToPlannerItem(
		context.Background(), obj, userID, domain.FeatureFlags{}, Options{Now: due.Add(-24 * time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, obj.ID, item.PlannableID)
	assert.Equal(t, domain.PlannableAssignment, item.PlannableType)
	require.NotNil(t, item.PlannableDate)
	assert.Equal(t, due, *item.PlannableDate)

	assert.Equal(t, obj.ID, item.Plannable["id"])
	assert.Equal(t, "Lab Report", item.Plannable["title"])
	assert.Equal(t, timePtr(due), item.Plannable["due_at"])
	assert.Equal(t, f64Ptr(20), item.Plannable["points_possible"])

	assert.Equal(t, "Intro to Biology", item.ContextName)
	require.NotNil(t, item.ContextImage)
	assert.Equal(t, "https://img.example/bio.png", *item.ContextImage)

	assert.Equal(t, "/courses/"+courseID.String()+"/assignments/"+obj.ID.String(), item.HTMLURL)

	require.NotNil(t, item.Submissions)
	assert.Equal(t, SubmissionStatus{}, *item.Submissions)
	assert.False(t, item.NewActivity)
	assert.Nil(t, item.PlannerOverride)
	assert.Nil(t, item.Details)
}

func TestToPlannerItemAnnouncementOmitsTodoDate(t *testing.T) {
	store := newFakeStore()
	posted := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	obj := &domain.LearningObject{
		ID:       uuid.New(),
		Type:     domain.PlannableAnnouncement,
		CourseID: uuid.New(),
		Title:    "Welcome",
		PostedAt: timePtr(posted),
	}

	item, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, uuid.New(), domain.FeatureFlags{}, Options{})
	require.NoError(t, err)

	_, hasTodoDate := item.Plannable["todo_date"]
	assert.False(t, hasTodoDate)
	assert.Contains(t, item.Plannable, "created_at")
	require.NotNil(t, item.PlannableDate)
	assert.Equal(t, posted, *item.PlannableDate)
	assert.Nil(t, item.Submissions)
}

func TestToPlannerItemAnnouncementFallsBackToCreatedAt(t *testing.T) {
	store := newFakeStore()
	created := time.Date(2026, 1, 20, 9, 30, 0, 0, time.UTC)
	obj := &domain.LearningObject{
		ID:        uuid.New(),
		Type:      domain.PlannableAnnouncement,
		CourseID:  uuid.New(),
		Title:     "No posted date",
		CreatedAt: created,
	}

	item, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, uuid.New(), domain.FeatureFlags{}, Options{})
	require.NoError(t, err)
	require.NotNil(t, item.PlannableDate)
	assert.Equal(t, created, *item.PlannableDate)
}

func TestToPlannerItemDiscussionDateFallback(t *testing.T) {
	store := newFakeStore()
	due := time.Date(2026, 4, 1, 23, 59, 0, 0, time.UTC)
	obj := &domain.LearningObject{
		ID:        uuid.New(),
		Type:      domain.PlannableDiscussionTopic,
		CourseID:  uuid.New(),
		Title:     "Graded discussion",
		DueAt:     timePtr(due),
		ReadState: domain.ReadStateRead,
	}

	item, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, uuid.New(), domain.FeatureFlags{}, Options{})
	require.NoError(t, err)

	require.NotNil(t, item.PlannableDate)
	assert.Equal(t, due, *item.PlannableDate)
	assert.Contains(t, item.Plannable, "read_state")
	assert.Contains(t, item.Plannable, "unread_count")
}

func TestToPlannerItemCheckpoint(t *testing.T) {
	store := newFakeStore()
	parentID := uuid.New()
	due := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	obj := &domain.LearningObject{
		ID:                        uuid.New(),
		Type:                      domain.PlannableSubAssignment,
		CourseID:                  uuid.New(),
		Title:                     "Reply to entries",
		DueAt:                     timePtr(due),
		PointsPossible:            f64Ptr(5),
		ParentAssignmentID:        &parentID,
		SubAssignmentTag:          domain.SubAssignmentReplyToEntry,
		ReplyToEntryRequiredCount: 3,
		ReadState:                 domain.ReadStateRead,
	}

	item, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, uuid.New(), domain.FeatureFlags{DiscussionCheckpoints: true}, Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.SubAssignmentReplyToEntry, item.Plannable["sub_assignment_tag"])
	require.NotNil(t, item.Details)
	assert.Equal(t, 3, item.Details["reply_to_entry_required_count"])
	require.NotNil(t, item.Submissions)
}

func TestToPlannerItemPlannerNote(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	todo := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	t.Run("without course", func(t *testing.T) {
		obj := &domain.LearningObject{
			ID:       uuid.New(),
			Type:     domain.PlannablePlannerNote,
			Title:    "Buy a calculator",
			TodoDate: timePtr(todo),
			UserID:   &userID,
		}

		item, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, userID, domain.FeatureFlags{}, Options{})
		require.NoError(t, err)

		_, hasCourse := item.Plannable["course_id"]
		assert.False(t, hasCourse)
		assert.Empty(t, item.HTMLURL)
		assert.Nil(t, item.Submissions)
		assert.False(t, item.NewActivity)
	})

	t.Run("with course", func(t *testing.T) {
		courseID := uuid.New()
		store.courses[courseID] = &domain.Course{ID: courseID, Name: "Algebra"}
		obj := &domain.LearningObject{
			ID:       uuid.New(),
			Type:     domain.PlannablePlannerNote,
			CourseID: courseID,
			Title:    "Review chapter 4",
			TodoDate: timePtr(todo),
			UserID:   &userID,
		}

		item, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, userID, domain.FeatureFlags{}, Options{})
		require.NoError(t, err)

		assert.Equal(t, courseID, item.Plannable["course_id"])
		assert.Equal(t, "Algebra", item.ContextName)
	})
}

func TestToPlannerItemCalendarEvent(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC)
	obj := &domain.LearningObject{
		ID:          uuid.New(),
		Type:        domain.PlannableCalendarEvent,
		CourseID:    uuid.New(),
		Title:       "Office hours",
		StartAt:     timePtr(start),
		EndAt:       timePtr(start.Add(time.Hour)),
		Description: strPtr(`Join at <a href="https://example.zoom.us/j/123456789">zoom</a>`),
	}

	item, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, uuid.New(), domain.FeatureFlags{}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "https://example.zoom.us/j/123456789", item.Plannable["online_meeting_url"])
	assert.Equal(t, "/calendar?event_id="+obj.ID.String(), item.HTMLURL)
	require.NotNil(t, item.PlannableDate)
	assert.Equal(t, start, *item.PlannableDate)
	assert.Nil(t, item.Submissions)
}

func TestToPlannerItemAttachesOverride(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	obj := &domain.LearningObject{
		ID:       uuid.New(),
		Type:     domain.PlannableWikiPage,
		CourseID: uuid.New(),
		Title:    "Syllabus",
		TodoDate: timePtr(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)),
	}
	override := &domain.PlannerOverride{
		ID:             uuid.New(),
		PlannableType:  domain.PlannableWikiPage,
		PlannableID:    obj.ID,
		UserID:         userID,
		MarkedComplete: true,
	}
	store.overrides[string(obj.Type)+"/"+subKey(obj.ID, userID)] = override

	item, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, userID, domain.FeatureFlags{}, Options{})
	require.NoError(t, err)

	require.NotNil(t, item.PlannerOverride)
	assert.Equal(t, override.ID, item.PlannerOverride.ID)
	assert.True(t, item.PlannerOverride.MarkedComplete)
}

func TestToPlannerItemSubmittedLinksToSubmission(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	courseID := uuid.New()
	obj := &domain.LearningObject{
		ID:       uuid.New(),
		Type:     domain.PlannableQuiz,
		CourseID: courseID,
		Title:    "Midterm quiz",
		DueAt:    timePtr(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	store.submissions[subKey(obj.ID, userID)] = &domain.Submission{
		ID:          uuid.New(),
		ObjectID:    obj.ID,
		UserID:      userID,
		SubmittedAt: timePtr(time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)),
	}

	item, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, userID, domain.FeatureFlags{}, Options{})
	require.NoError(t, err)

	want := "/courses/" + courseID.String() + "/assignments/" + obj.ID.String() + "/submissions/" + userID.String()
	assert.Equal(t, want, item.HTMLURL)
	assert.True(t, item.Submissions.Submitted)
}

func TestToPlannerItemUnsupportedType(t *testing.T) {
	store := newFakeStore()
	obj := &domain.LearningObject{ID: uuid.New(), Type: "bookmark"}

	_, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, uuid.New(), domain.FeatureFlags{}, Options{})
	require.ErrorIs(t, err, ErrUnsupportedPlannableType)
}

func TestToPlannerItemRequiresEnrollment(t *testing.T) {
	store := newFakeStore()
	courseID := uuid.New()
	store.notEnrolled[courseID] = true
	obj := &domain.LearningObject{
		ID:       uuid.New(),
		Type:     domain.PlannableAssignment,
		CourseID: courseID,
		Title:    "Essay",
	}

	_, err := newTestAggregator(store).ToPlannerItem(context.Background(), obj, uuid.New(), domain.FeatureFlags{}, Options{})
	require.ErrorIs(t, err, ErrMissingSubmissionContext)
}

func TestToPlannerItemsPreservesOrder(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	objs := []*domain.LearningObject{
		{ID: uuid.New(), Type: domain.PlannableWikiPage, Title: "c", TodoDate: timePtr(time.Now())},
		{ID: uuid.New(), Type: domain.PlannableAssignment, Title: "a"},
		{ID: uuid.New(), Type: domain.PlannablePlannerNote, Title: "b", UserID: &userID},
	}

	items, err := newTestAggregator(store).ToPlannerItems(context.Background(), objs, userID, domain.FeatureFlags{}, Options{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i := range objs {
		assert.Equal(t, objs[i].ID, items[i].PlannableID)
		assert.Equal(t, objs[i].Type, items[i].PlannableType)
	}
}

func TestPeerReviewURLs(t *testing.T) {
	userID := uuid.New()
	revieweeID := uuid.New()
	courseID := uuid.New()
	assignmentID := uuid.New()

	newRequest := func() *domain.LearningObject {
		return &domain.LearningObject{
			ID:             uuid.New(),
			Type:           domain.PlannableAssessmentRequest,
			CourseID:       courseID,
			Title:          "Peer review: Essay",
			TodoDate:       timePtr(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)),
			AssignmentID:   &assignmentID,
			RevieweeUserID: &revieweeID,
		}
	}

	assignmentURL := "/courses/" + courseID.String() + "/assignments/" + assignmentID.String()

	t.Run("assessor has not submitted", func(t *testing.T) {
		store := newFakeStore()
		item, err := newTestAggregator(store).ToPlannerItem(context.Background(), newRequest(), userID, domain.FeatureFlags{}, Options{})
		require.NoError(t, err)
		assert.Equal(t, assignmentURL, item.HTMLURL)
	})

	submittedStore := func() *fakeStore {
		store := newFakeStore()
		store.submissions[subKey(assignmentID, userID)] = &domain.Submission{
			SubmittedAt: timePtr(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
		}
		store.submissions[subKey(assignmentID, revieweeID)] = &domain.Submission{
			SubmittedAt: timePtr(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)),
			AnonymousID: "zx9Yab",
		}
		return store
	}

	t.Run("default links to reviewee submission", func(t *testing.T) {
		item, err := newTestAggregator(submittedStore()).ToPlannerItem(context.Background(), newRequest(), userID, domain.FeatureFlags{}, Options{})
		require.NoError(t, err)
		assert.Equal(t, assignmentURL+"/submissions/"+revieweeID.String(), item.HTMLURL)
	})

	t.Run("anonymous review hides the reviewee", func(t *testing.T) {
		obj := newRequest()
		obj.AnonymousPeerReviews = true
		item, err := newTestAggregator(submittedStore()).ToPlannerItem(context.Background(), obj, userID, domain.FeatureFlags{}, Options{})
		require.NoError(t, err)
		assert.Equal(t, assignmentURL+"/anonymous_submissions/zx9Yab", item.HTMLURL)
	})

	t.Run("enhanced review ui wins", func(t *testing.T) {
		obj := newRequest()
		obj.AnonymousPeerReviews = true
		item, err := newTestAggregator(submittedStore()).ToPlannerItem(
			context.Background(), obj, userID, domain.FeatureFlags{EnhancedReviewUI: true}, Options{})
		require.NoError(t, err)
		assert.Equal(t, assignmentURL+"/review/zx9Yab", item.HTMLURL)
	})
}
