package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"planner_service/internal/domain"
	"planner_service/internal/planner"
	"planner_service/internal/server/httpapi"
	"planner_service/internal/service"
	"planner_service/pkg/logger"
)

type mockPlannerService struct {
	mock.Mock
}

func (m *mockPlannerService) PlannerItems(ctx context.Context, start, end time.Time, opts planner.Options) ([]*planner.PlannerItem, error) {
	args := m.Called(ctx, start, end, opts)
	if items := args.Get(0); items != nil {
		return items.([]*planner.PlannerItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlannerService) PlannerItem(ctx context.Context, plannableType domain.PlannableType, id uuid.UUID, opts planner.Options) (*planner.PlannerItem, error) {
	args := m.Called(ctx, plannableType, id, opts)
	if item := args.Get(0); item != nil {
		return item.(*planner.PlannerItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlannerService) CreateNote(ctx context.Context, note *domain.LearningObject) (*domain.LearningObject, error) {
	args := m.Called(ctx, note)
	if created := args.Get(0); created != nil {
		return created.(*domain.LearningObject), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockOverrideService struct {
	mock.Mock
}

func (m *mockOverrideService) CreateOverride(ctx context.Context, override *domain.PlannerOverride) (*domain.PlannerOverride, error) {
	args := m.Called(ctx, override)
	if created := args.Get(0); created != nil {
		return created.(*domain.PlannerOverride), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOverrideService) UpdateOverride(ctx context.Context, id uuid.UUID, markedComplete, dismissed *bool) (*domain.PlannerOverride, error) {
	args := m.Called(ctx, id, markedComplete, dismissed)
	if updated := args.Get(0); updated != nil {
		return updated.(*domain.PlannerOverride), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	data, ok := c.data[key]
	return data, ok
}

func (c *fakeCache) Set(_ context.Context, key string, data []byte, _ time.Duration) {
	c.data[key] = data
}

func (c *fakeCache) DeletePrefix(_ context.Context, prefix string) {
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

type fixture struct {
	planner   *mockPlannerService
	overrides *mockOverrideService
	cache     *fakeCache
	router    *chi.Mux
}

func newFixture() *fixture {
	f := &fixture{
		planner:   new(mockPlannerService),
		overrides: new(mockOverrideService),
		cache:     newFakeCache(),
	}

	log := logger.New()
	h := httpapi.NewHandler(f.planner, f.overrides, f.cache, time.Minute, log)

	f.router = chi.NewRouter()
	f.router.Route("/planner", func(r chi.Router) {
		h.RegisterRoutes(r, httpapi.NewAuthMiddleware(log))
	})
	return f
}

func (f *fixture) do(t *testing.T, method, target, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	f := newFixture()

	t.Run("missing user header", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/planner/items", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed user header", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/planner/items", "not-a-uuid", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListPlannerItems(t *testing.T) {
	userID := uuid.New()
	window := "?start_date=2026-03-01T00:00:00Z&end_date=2026-03-15T00:00:00Z"

	t.Run("serves the feed and caches it", func(t *testing.T) {
		f := newFixture()
		items := []*planner.PlannerItem{
			{PlannableID: uuid.New(), PlannableType: domain.PlannableAssignment, Plannable: planner.Plannable{"title": "Essay"}},
		}
		f.planner.On("PlannerItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(items, nil).Once()

		first := f.do(t, http.MethodGet, "/planner/items"+window, userID.String(), "")
		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "application/json", first.Header().Get("Content-Type"))

		var decoded []map[string]interface{}
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &decoded))
		require.Len(t, decoded, 1)

		// Second identical request is served from the cache; the single
		// expected service call would fail the mock otherwise.
		second := f.do(t, http.MethodGet, "/planner/items"+window, userID.String(), "")
		require.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())

		f.planner.AssertExpectations(t)
	})

	t.Run("bad dates are rejected", func(t *testing.T) {
		f := newFixture()
		rec := f.do(t, http.MethodGet, "/planner/items?start_date=tomorrow", userID.String(), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service errors map to status codes", func(t *testing.T) {
		f := newFixture()
		f.planner.On("PlannerItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, service.ErrPermissionDenied)

		rec := f.do(t, http.MethodGet, "/planner/items"+window, userID.String(), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestGetPlannerItem(t *testing.T) {
	userID := uuid.New()

	t.Run("unknown type", func(t *testing.T) {
		f := newFixture()
		rec := f.do(t, http.MethodGet, "/planner/items/bookmark/"+uuid.NewString(), userID.String(), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.planner.On("PlannerItem", mock.Anything, domain.PlannableAssignment, id, mock.Anything).
			Return(nil, service.ErrPlannableNotFound)

		rec := f.do(t, http.MethodGet, "/planner/items/assignment/"+id.String(), userID.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.planner.On("PlannerItem", mock.Anything, domain.PlannableQuiz, id, mock.Anything).
			Return(&planner.PlannerItem{PlannableID: id, PlannableType: domain.PlannableQuiz}, nil)

		rec := f.do(t, http.MethodGet, "/planner/items/quiz/"+id.String(), userID.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
		assert.Equal(t, id.String(), decoded["plannable_id"])
	})
}

func TestCreateOverride(t *testing.T) {
	userID := uuid.New()
	plannableID := uuid.New()

	t.Run("creates and invalidates the cached feed", func(t *testing.T) {
		f := newFixture()
		cachedKey := "planner:items:" + userID.String() + ":stale"
		f.cache.data[cachedKey] = []byte("[]")

		f.overrides.On("CreateOverride", mock.Anything, mock.AnythingOfType("*domain.PlannerOverride")).
			Return(&domain.PlannerOverride{
				ID:             uuid.New(),
				PlannableType:  domain.PlannableAssignment,
				PlannableID:    plannableID,
				UserID:         userID,
				MarkedComplete: true,
			}, nil)

		body := `{"plannable_type":"assignment","plannable_id":"` + plannableID.String() + `","marked_complete":true}`
		rec := f.do(t, http.MethodPost, "/planner/overrides", userID.String(), body)
		require.Equal(t, http.StatusCreated, rec.Code)

		_, stillCached := f.cache.data[cachedKey]
		assert.False(t, stillCached)
	})

	t.Run("unknown plannable type", func(t *testing.T) {
		f := newFixture()
		body := `{"plannable_type":"bookmark","plannable_id":"` + plannableID.String() + `"}`
		rec := f.do(t, http.MethodPost, "/planner/overrides", userID.String(), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("garbage body", func(t *testing.T) {
		f := newFixture()
		rec := f.do(t, http.MethodPost, "/planner/overrides", userID.String(), "{nope")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateOverride(t *testing.T) {
	userID := uuid.New()
	overrideID := uuid.New()

	t.Run("forbidden for non owners", func(t *testing.T) {
		f := newFixture()
		f.overrides.On("UpdateOverride", mock.Anything, overrideID, mock.Anything, mock.Anything).
			Return(nil, service.ErrPermissionDenied)

		rec := f.do(t, http.MethodPatch, "/planner/overrides/"+overrideID.String(), userID.String(), `{"dismissed":true}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		f.overrides.On("UpdateOverride", mock.Anything, overrideID, mock.Anything, mock.Anything).
			Return(&domain.PlannerOverride{ID: overrideID, UserID: userID, Dismissed: true}, nil)

		rec := f.do(t, http.MethodPatch, "/planner/overrides/"+overrideID.String(), userID.String(), `{"dismissed":true}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
		assert.Equal(t, true, decoded["dismissed"])
	})

	t.Run("bad id", func(t *testing.T) {
		f := newFixture()
		rec := f.do(t, http.MethodPatch, "/planner/overrides/nope", userID.String(), `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateNote(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		noteID := uuid.New()
		todo := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

		f.planner.On("CreateNote", mock.Anything, mock.AnythingOfType("*domain.LearningObject")).
			Return(&domain.LearningObject{
				ID:       noteID,
				Type:     domain.PlannablePlannerNote,
				Title:    "Buy a protractor",
				TodoDate: &todo,
				UserID:   &userID,
			}, nil)

		body := `{"title":"Buy a protractor","todo_date":"2026-04-01T09:00:00Z"}`
		rec := f.do(t, http.MethodPost, "/planner/notes", userID.String(), body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
		assert.Equal(t, noteID.String(), decoded["id"])
		assert.Equal(t, userID.String(), decoded["user_id"])
		_, hasCourse := decoded["course_id"]
		assert.False(t, hasCourse)
	})

	t.Run("missing title", func(t *testing.T) {
		f := newFixture()
		f.planner.On("CreateNote", mock.Anything, mock.Anything).
			Return(nil, service.ErrInvalidArgument)

		rec := f.do(t, http.MethodPost, "/planner/notes", userID.String(), `{"todo_date":"2026-04-01T09:00:00Z"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
