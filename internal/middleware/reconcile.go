package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/flytau/airline-reservation/internal/sched"
)

// Reconcile runs the status reconciler before every request so that
// reads and writes always observe statuses consistent with the clock.
// Each pass is idempotent, so running it both here and on the
// background ticker is safe.  A reconcile failure is logged but does
// not fail the request; handlers still operate correctly on slightly
// stale statuses because all state transitions are re-checked at write
// time.
func Reconcile(rec *sched.Reconciler, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() != "/healthz" {
				if err := rec.Run(c.Request().Context(), time.Now()); err != nil {
					logger.Warn("reconcile before request failed", zap.Error(err))
				}
			}
			return next(c)
		}
	}
}
