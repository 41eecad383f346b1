// Package handler contains the HTTP handlers.  Handlers own request
// parsing, authorization context and transaction boundaries; domain
// rules live in the sched and booking packages and data access in the
// repositories.
package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler returns a HealthHandler over the given database.
func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{db: db} }

// Check responds 200 when the database answers a ping, 503 otherwise.
func (h *HealthHandler) Check(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
