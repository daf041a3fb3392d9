package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

// Error writes the uniform error envelope with the status mapped from
// the domain error kind: bad input 400, absence 404, conflicts 409,
// anything else 500.
func Error(c *gin.Context, err error) {
	c.JSON(StatusFor(err), gin.H{"ok": false, "error": err.Error()})
}

// StatusFor maps a core error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case domain.IsBadInput(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
