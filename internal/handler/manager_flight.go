package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/flytau/airline-reservation/internal/booking"
	"github.com/flytau/airline-reservation/internal/model"
	"github.com/flytau/airline-reservation/internal/queue"
	"github.com/flytau/airline-reservation/internal/repository"
	"github.com/flytau/airline-reservation/internal/sched"
	queuepublisher "github.com/flytau/airline-reservation/internal/service"
)

// ManagerFlightHandler serves flight scheduling: the manager's flight
// dashboard, resource availability for a proposed flight, creation with
// full server-side eligibility validation, and cascading cancellation.
type ManagerFlightHandler struct {
	flights  *repository.FlightRepo
	routes   *repository.RouteRepo
	aircraft *repository.AircraftRepo
	bookings *repository.BookingRepo
	sched    *repository.SchedStore
	resolver *sched.Resolver
	homeBase string
	logger   *zap.Logger
}

// NewManagerFlightHandler wires the handler's dependencies.  The
// resolver passed here must be built over the same SchedStore so that
// WithTx views stay interchangeable.
func NewManagerFlightHandler(flights *repository.FlightRepo, routes *repository.RouteRepo,
	aircraft *repository.AircraftRepo, bookings *repository.BookingRepo,
	schedStore *repository.SchedStore, resolver *sched.Resolver,
	homeBase string, logger *zap.Logger) *ManagerFlightHandler {
	return &ManagerFlightHandler{
		flights:  flights,
		routes:   routes,
		aircraft: aircraft,
		bookings: bookings,
		sched:    schedStore,
		resolver: resolver,
		homeBase: homeBase,
		logger:   logger,
	}
}

// SearchFlights is the manager view: every status, optionally filtered,
// newest schedule first.
func (h *ManagerFlightHandler) SearchFlights(c echo.Context) error {
	q := repository.FlightSearchQuery{
		Origin:      c.QueryParam("origin"),
		Destination: c.QueryParam("destination"),
		ManagerView: true,
	}
	if s := c.QueryParam("status"); s != "" {
		st := model.FlightStatus(s)
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown flight status"})
		}
		q.Status = st
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

// proposedFlight parses the route + departure pair shared by the
// availability endpoints.
func (h *ManagerFlightHandler) proposedFlight(c echo.Context) (*model.Route, time.Time, error) {
	routeID, err := strconv.ParseUint(c.QueryParam("route_id"), 10, 64)
	if err != nil {
		return nil, time.Time{}, errors.New("route_id is required")
	}
	departsAt, err := time.Parse(time.RFC3339, c.QueryParam("departs_at"))
	if err != nil {
		return nil, time.Time{}, errors.New("departs_at must be RFC3339")
	}
	route, err := h.routes.GetByID(c.Request().Context(), routeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, time.Time{}, errors.New("route not found")
		}
		return nil, time.Time{}, err
	}
	return route, departsAt, nil
}

// AvailableAircraft lists the aircraft assignable to a proposed flight:
// right size for the route length, free of overlapping flights and
// location-continuous with their schedule.
func (h *ManagerFlightHandler) AvailableAircraft(c echo.Context) error {
	route, departsAt, err := h.proposedFlight(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	candidates, err := h.resolver.AssignableAircraft(c.Request().Context(), *route, departsAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not resolve aircraft"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"long_flight": route.IsLong(),
		"aircraft":    candidates,
	})
}

// AvailableCrew lists the pilots and attendants assignable to a proposed
// flight with the chosen aircraft.  When the candidate pool cannot cover
// the required headcount the response says so, but that is a warning for
// the manager, not an error.
func (h *ManagerFlightHandler) AvailableCrew(c echo.Context) error {
	route, departsAt, err := h.proposedFlight(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	aircraftID := c.QueryParam("aircraft_id")
	if aircraftID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "aircraft_id is required"})
	}
	ctx := c.Request().Context()
	ac, err := h.aircraft.GetByID(ctx, aircraftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load aircraft"})
	}

	cc, err := h.resolver.AssignableCrew(ctx, *route, *ac, departsAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not resolve crew"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"required_pilots":     cc.RequiredPilots,
		"required_attendants": cc.RequiredAttendants,
		"pilots":              cc.Pilots,
		"attendants":          cc.Attendants,
		"sufficient":          cc.Sufficient(),
	})
}

type createFlightRequest struct {
	RouteID            uint64   `json:"route_id"`
	AircraftID         string   `json:"aircraft_id"`
	DepartsAt          string   `json:"departs_at"` // RFC3339
	PriceEconomyCents  uint32   `json:"price_economy_cents"`
	PriceBusinessCents uint32   `json:"price_business_cents"`
	PilotIDs           []string `json:"pilot_ids"`
	AttendantIDs       []string `json:"attendant_ids"`
}

// CreateFlight schedules a new flight.  The submitted aircraft and crew
// selection is re-validated from scratch inside the creating transaction;
// candidate lists shown earlier carry no authority.  On success the
// flight starts Active with its crew assignment rows written in the same
// transaction.
func (h *ManagerFlightHandler) CreateFlight(c echo.Context) error {
	var req createFlightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	departsAt, err := time.Parse(time.RFC3339, req.DepartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departs_at must be RFC3339"})
	}
	if !departsAt.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure must be in the future"})
	}
	if req.PriceEconomyCents == 0 || req.PriceBusinessCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "both seat prices are required"})
	}

	ctx := c.Request().Context()
	route, err := h.routes.GetByID(ctx, req.RouteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load route"})
	}
	ac, err := h.aircraft.GetByID(ctx, req.AircraftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load aircraft"})
	}

	tx, err := h.flights.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start scheduling"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Validation and the flight insert share the transaction so no
	// concurrent creation can slip between them.
	txStore := h.sched.WithTx(tx)
	txResolver := sched.NewResolver(txStore, sched.NewContinuityChecker(txStore, h.homeBase))
	assignment := sched.Assignment{
		Route:        *route,
		Aircraft:     *ac,
		DepartsAt:    departsAt,
		PilotIDs:     req.PilotIDs,
		AttendantIDs: req.AttendantIDs,
	}
	if err := txResolver.ValidateAssignment(ctx, assignment); err != nil {
		if isEligibilityError(err) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not validate assignment"})
	}

	arrivesAt := departsAt.Add(route.Duration())
	f := &model.Flight{
		RouteID:            route.ID,
		AircraftID:         ac.ID,
		DepartsAt:          departsAt,
		ArrivesAt:          &arrivesAt,
		PriceEconomyCents:  req.PriceEconomyCents,
		PriceBusinessCents: req.PriceBusinessCents,
	}
	if err := h.flights.CreateWithCrewTx(ctx, tx, f, req.PilotIDs, req.AttendantIDs); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "crew assignment conflict"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create flight"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not finalize flight"})
	}
	committed = true

	h.logger.Info("flight scheduled",
		zap.Uint64("flight_id", f.ID),
		zap.String("route", route.Origin+"-"+route.Destination),
		zap.String("aircraft_id", ac.ID),
		zap.Time("departs_at", departsAt))

	return c.JSON(http.StatusCreated, echo.Map{
		"id":         f.ID,
		"status":     f.Status,
		"departs_at": f.DepartsAt,
		"arrives_at": arrivesAt,
	})
}

// CancelFlight cancels a flight no later than 72 hours before departure.
// Every Active booking on it becomes Cancelled by System with a full
// refund (price reset to zero) and all its seats are released.
func (h *ManagerFlightHandler) CancelFlight(c echo.Context) error {
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
		return c.JSON(http.StatusConflict, echo.Map{"error": "flight is already finalized"})
	}
	if !booking.FlightCancelAllowed(detail.Flight.DepartsAt, time.Now()) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": booking.ErrFlightCancelWindowClosed.Error()})
	}

	// Snapshot the refunded bookings before the cascade wipes their
	// amounts, so each passenger event carries the refunded total.
	affected, err := h.bookings.ListByFlight(ctx, flightID, model.BookingActive)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load bookings"})
	}

	tx, err := h.flights.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start cancellation"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.flights.CancelCascadeTx(ctx, tx, flightID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel flight"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not finalize cancellation"})
	}
	committed = true

	now := time.Now().UTC().Format(time.RFC3339)
	for _, b := range affected {
		ev := queue.FlightCancelledEvent{
			FlightID:      flightID,
			BookingRef:    b.Ref,
			CustomerEmail: b.Email,
			Origin:        detail.Route.Origin,
			Destination:   detail.Route.Destination,
			DepartsAt:     detail.Flight.DepartsAt.UTC().Format(time.RFC3339),
			RefundCents:   uint64(b.TotalPriceCents),
			CancelledAt:   now,
		}
		if err := queuepublisher.PublishFlightCancelled(ctx, ev); err != nil {
			h.logger.Warn("flight cancelled event not published",
				zap.Uint64("flight_id", flightID), zap.String("ref", b.Ref), zap.Error(err))
		}
	}

	h.logger.Info("flight cancelled",
		zap.Uint64("flight_id", flightID),
		zap.Int("bookings_refunded", len(affected)))

	return c.JSON(http.StatusOK, echo.Map{
		"id":                flightID,
		"status":            model.FlightCancelled,
		"bookings_refunded": len(affected),
	})
}

// isEligibilityError reports whether err is one of the assignment
// validation failures that map to a 422 response.
func isEligibilityError(err error) bool {
	for _, e := range []error{
		sched.ErrAircraftTooSmall,
		sched.ErrWrongHeadcount,
		sched.ErrDuplicateCrew,
		sched.ErrUnknownCrew,
		sched.ErrCrewNotQualified,
		sched.ErrResourceBusy,
		sched.ErrBrokenContinuity,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
