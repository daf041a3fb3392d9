package http_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	httpapi "github.com/pulseboard/go-board-backend/internal/api/http"
	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"invalid id wrapped", fmt.Errorf("%w: %q", domain.ErrInvalidID, "nope"), http.StatusBadRequest},
		{"project not found", domain.ErrProjectNotFound, http.StatusNotFound},
		{"entry not found", domain.ErrTimeEntryNotFound, http.StatusNotFound},
		{"duplicate title", domain.ErrDuplicateTitle, http.StatusConflict},
		{"version conflict", domain.ErrVersionConflict, http.StatusConflict},
		{"tracking active", domain.ErrTrackingActive, http.StatusConflict},
		{"entry closed", domain.ErrEntryClosed, http.StatusConflict},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, httpapi.StatusFor(tc.err))
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	httpapi.Error(c, domain.ErrVersionConflict)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"ok": false, "error": "project was modified concurrently"}`, w.Body.String())
}
