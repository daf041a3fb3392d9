package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	projects "github.com/pulseboard/go-board-backend/internal/projects/domain"
	"github.com/pulseboard/go-board-backend/internal/projects/repository/memory"
	statshttp "github.com/pulseboard/go-board-backend/internal/stats/http"
	"github.com/pulseboard/go-board-backend/internal/stats/service"
)

func newTestRouter(store *memory.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := statshttp.New(service.NewStatsService(store, nil, nil))
	r := gin.New()
	handler.Register(r.Group("/api/v1/projects"))
	return r
}

func seedProject(t *testing.T) (*memory.Store, string) {
	t.Helper()
	store := memory.New()
	now := time.Now()
	start := now.Add(-90 * time.Minute)
	end := start.Add(45 * time.Minute)
	duration := 45
	p := &projects.Project{
		ID:          primitive.NewObjectID(),
		Title:       "Sprint 1",
		Description: "board",
		Status:      projects.StatusActive,
		Tasks: []projects.Task{
			{
				ID:       primitive.NewObjectID(),
				Title:    "Done task",
				Stage:    projects.StageDone,
				Priority: projects.PriorityHigh,
				TimeEntries: []projects.TimeEntry{{
					ID:        primitive.NewObjectID(),
					StartTime: start,
					EndTime:   &end,
					Duration:  &duration,
				}},
				TotalTimeSpent: duration,
			},
			{
				ID:       primitive.NewObjectID(),
				Title:    "Open task",
				Stage:    projects.StageInProgress,
				Priority: projects.PriorityLow,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Insert(context.Background(), p))
	return store, p.ID.Hex()
}

func get(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestProjectStatsEndpoint(t *testing.T) {
	store, pid := seedProject(t)
	r := newTestRouter(store)

	w, body := get(t, r, "/api/v1/projects/"+pid+"/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["totalTasks"])
	assert.Equal(t, float64(50), body["completionPercentage"])

	counts := body["statusCounts"].(map[string]any)
	assert.Equal(t, float64(1), counts["Done"])
	assert.Equal(t, float64(0), counts["Requested"])
}

func TestProjectStatsNotFound(t *testing.T) {
	r := newTestRouter(memory.New())

	w, _ := get(t, r, "/api/v1/projects/ffffffffffffffffffffffff/stats")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body := get(t, r, "/api/v1/projects/bogus/stats")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["ok"])
}

func TestTimeReportEndpoint(t *testing.T) {
	store, pid := seedProject(t)
	r := newTestRouter(store)

	w, body := get(t, r, "/api/v1/projects/"+pid+"/time-report")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(45), body["totalTimeSpent"])
	assert.Equal(t, float64(1), body["totalEntries"])

	tasks := body["taskBreakdown"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Done task", tasks[0].(map[string]any)["taskTitle"])
}

func TestTimeReportRangeQuery(t *testing.T) {
	store, pid := seedProject(t)
	r := newTestRouter(store)

	// A window in the distant past contains nothing.
	w, body := get(t, r, "/api/v1/projects/"+pid+"/time-report?start=2020-01-01&end=2020-01-31")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["totalTimeSpent"])

	w, body = get(t, r, "/api/v1/projects/"+pid+"/time-report?start=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["ok"])
}
