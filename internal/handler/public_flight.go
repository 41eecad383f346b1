package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flytau/airline-reservation/internal/model"
	"github.com/flytau/airline-reservation/internal/repository"
	"github.com/flytau/airline-reservation/internal/sched"
)

// PublicFlightHandler serves the unauthenticated catalog: flight search,
// seat maps, routes and the airport lists that feed search filters.
type PublicFlightHandler struct {
	flights  *repository.FlightRepo
	routes   *repository.RouteRepo
	aircraft *repository.AircraftRepo
}

// NewPublicFlightHandler wires the handler's dependencies.
func NewPublicFlightHandler(flights *repository.FlightRepo, routes *repository.RouteRepo,
	aircraft *repository.AircraftRepo) *PublicFlightHandler {
	return &PublicFlightHandler{flights: flights, routes: routes, aircraft: aircraft}
}

// SearchFlights lists bookable flights: Active, departing in the future,
// with at least one free seat.  Optional query parameters origin,
// destination and date (YYYY-MM-DD) narrow the result.
func (h *PublicFlightHandler) SearchFlights(c echo.Context) error {
	q := repository.FlightSearchQuery{
		Origin:      c.QueryParam("origin"),
		Destination: c.QueryParam("destination"),
	}
	if d := c.QueryParam("date"); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		q.DateFrom = &t
	}
	rows, err := h.flights.Search(c.Request().Context(), q, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": rows})
}

// Airports returns the distinct origin and destination airports, for
// populating search dropdowns.
func (h *PublicFlightHandler) Airports(c echo.Context) error {
	origins, destinations, err := h.routes.Airports(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load airports"})
	}
	return c.JSON(http.StatusOK, echo.Map{"origins": origins, "destinations": destinations})
}

// ListRoutes returns the route catalog.
func (h *PublicFlightHandler) ListRoutes(c echo.Context) error {
	routes, err := h.routes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load routes"})
	}
	return c.JSON(http.StatusOK, echo.Map{"routes": routes})
}

// seatMapEntry is one seat in the flight's seat map.
type seatMapEntry struct {
	Row      uint32          `json:"row"`
	Col      string          `json:"col"`
	Class    model.SeatClass `json:"class"`
	Reserved bool            `json:"reserved"`
}

// SeatMap returns the full seat layout of a flight's aircraft with each
// seat's class, price and reservation state.  Only Active and Full
// flights have a meaningful seat map; terminal flights are rejected.
func (h *PublicFlightHandler) SeatMap(c echo.Context) error {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}

	ctx := c.Request().Context()
	detail, err := h.flights.GetDetail(ctx, flightID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load flight"})
	}
	if detail.Flight.Status.Terminal() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "flight is no longer bookable"})
	}

	seats, err := h.aircraft.Seats(ctx, detail.Flight.AircraftID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load seats"})
	}
	reserved, err := h.flights.ReservedPositions(ctx, flightID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load reservations"})
	}
	taken := make(map[[2]any]bool, len(reserved))
	for _, rs := range reserved {
		taken[[2]any{rs.RowNum, rs.ColLetter}] = true
	}

	out := make([]seatMapEntry, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatMapEntry{
			Row:      s.RowNum,
			Col:      s.ColLetter,
			Class:    s.Class,
			Reserved: taken[[2]any{s.RowNum, s.ColLetter}],
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"flight_id":            detail.Flight.ID,
		"aircraft_id":          detail.Flight.AircraftID,
		"price_economy_cents":  detail.Flight.PriceEconomyCents,
		"price_business_cents": detail.Flight.PriceBusinessCents,
		"occupancy":            sched.OccupancyStatus(len(reserved), len(seats)),
		"seats":                out,
	})
}
