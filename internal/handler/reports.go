package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flytau/airline-reservation/internal/repository"
)

// ReportHandler serves the management reports.
type ReportHandler struct {
	reports *repository.ReportRepo
}

// NewReportHandler wires the handler's dependencies.
func NewReportHandler(reports *repository.ReportRepo) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// AircraftUtilization returns per-aircraft monthly activity and
// utilization against a 30-day month, newest month first.
func (h *ReportHandler) AircraftUtilization(c echo.Context) error {
	rows, err := h.reports.AircraftUtilization(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not build report"})
	}
	return c.JSON(http.StatusOK, echo.Map{"months": rows})
}

// CancellationRate returns the monthly share of cancelled bookings.
func (h *ReportHandler) CancellationRate(c echo.Context) error {
	rows, err := h.reports.BookingCancellationRate(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not build report"})
	}
	return c.JSON(http.StatusOK, echo.Map{"months": rows})
}

// RevenueBySeatClass returns revenue grouped by aircraft size,
// manufacturer and cabin class.
func (h *ReportHandler) RevenueBySeatClass(c echo.Context) error {
	rows, err := h.reports.RevenueBySeatClass(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not build report"})
	}
	return c.JSON(http.StatusOK, echo.Map{"revenue": rows})
}

// AverageOccupancy returns the mean occupancy of performed flights, or
// null when nothing has been performed yet.
func (h *ReportHandler) AverageOccupancy(c echo.Context) error {
	avg, err := h.reports.AverageOccupancy(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not build report"})
	}
	return c.JSON(http.StatusOK, echo.Map{"average_occupancy_pct": avg})
}
