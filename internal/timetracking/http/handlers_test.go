package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	projecthttp "github.com/pulseboard/go-board-backend/internal/projects/http"
	"github.com/pulseboard/go-board-backend/internal/projects/repository/memory"
	projectservice "github.com/pulseboard/go-board-backend/internal/projects/service"
	trackinghttp "github.com/pulseboard/go-board-backend/internal/timetracking/http"
	"github.com/pulseboard/go-board-backend/internal/timetracking/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := memory.New()

	projectHandler := projecthttp.New(
		projectservice.NewProjectService(store, nil, nil),
		projectservice.NewTaskService(store, nil, nil),
	)
	trackingHandler := trackinghttp.New(service.NewTimeTrackingService(store, nil, nil))

	r := gin.New()
	group := r.Group("/api/v1/projects")
	projectHandler.Register(group)
	trackingHandler.Register(group)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func seedTaskPath(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, body := doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"title":       "Sprint 1",
		"description": "board",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	pid := body["project"].(map[string]any)["id"].(string)

	w, body = doJSON(t, r, http.MethodPost, "/api/v1/projects/"+pid+"/tasks", gin.H{
		"title":       "Track me",
		"description": "desc",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	tid := body["task"].(map[string]any)["id"].(string)
	return "/api/v1/projects/" + pid + "/tasks/" + tid
}

func TestTimeTrackingEndpoints(t *testing.T) {
	r := newTestRouter()
	base := seedTaskPath(t, r)

	// Start accepts an empty body.
	w, body := doJSON(t, r, http.MethodPost, base+"/time/start", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	entry := body["time_entry"].(map[string]any)
	eid := entry["id"].(string)
	assert.Nil(t, entry["end_time"])

	// Starting again while an entry is open conflicts.
	w, body = doJSON(t, r, http.MethodPost, base+"/time/start", gin.H{"description": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["ok"])

	w, body = doJSON(t, r, http.MethodPut, base+"/time/"+eid+"/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stopped := body["time_entry"].(map[string]any)
	assert.NotNil(t, stopped["end_time"])
	assert.NotNil(t, body["total_time_spent"])

	// A closed entry cannot be stopped a second time.
	w, _ = doJSON(t, r, http.MethodPut, base+"/time/"+eid+"/stop", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = doJSON(t, r, http.MethodGet, base+"/time", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := body["time_entries"].([]any)
	assert.Len(t, entries, 1)

	w, body = doJSON(t, r, http.MethodDelete, base+"/time/"+eid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["total_time_spent"])

	w, _ = doJSON(t, r, http.MethodDelete, base+"/time/"+eid, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimeTrackingBadIDs(t *testing.T) {
	r := newTestRouter()

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/projects/nope/tasks/nah/time/start", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["ok"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/projects/ffffffffffffffffffffffff/tasks/ffffffffffffffffffffffff/time", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
