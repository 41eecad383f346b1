package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/flytau/airline-reservation/internal/booking"
	"github.com/flytau/airline-reservation/internal/middleware"
	"github.com/flytau/airline-reservation/internal/model"
	"github.com/flytau/airline-reservation/internal/queue"
	"github.com/flytau/airline-reservation/internal/repository"
	queuepublisher "github.com/flytau/airline-reservation/internal/service"
)

// BookingHandler serves the booking lifecycle for customers and guests.
// Guests identify themselves with email in the request body; logged-in
// customers are identified by their token and may omit it.
type BookingHandler struct {
	bookings  *repository.BookingRepo
	flights   *repository.FlightRepo
	aircraft  *repository.AircraftRepo
	customers *repository.CustomerRepo
	logger    *zap.Logger
}

// NewBookingHandler wires the handler's dependencies.
func NewBookingHandler(bookings *repository.BookingRepo, flights *repository.FlightRepo,
	aircraft *repository.AircraftRepo, customers *repository.CustomerRepo, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookings:  bookings,
		flights:   flights,
		aircraft:  aircraft,
		customers: customers,
		logger:    logger,
	}
}

// callerEmail resolves the acting customer's email: the token subject
// when authenticated, otherwise the email supplied in the request body.
func callerEmail(c echo.Context, bodyEmail string) string {
	if sub, ok := c.Get(middleware.CtxSubject).(string); ok && sub != "" {
		if role, _ := c.Get(middleware.CtxRole).(string); role == middleware.RoleCustomer {
			return sub
		}
	}
	return strings.TrimSpace(strings.ToLower(bodyEmail))
}

type seatPick struct {
	Row uint32 `json:"row"`
	Col string `json:"col"`
}

type createBookingRequest struct {
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Seats     []seatPick `json:"seats"`
}

// Create books seats on the flight named in the path.  Seat classes and
// prices are resolved server-side inside the transaction that claims the
// seats; a concurrent claim on any requested seat loses the race on the
// unique seat key and the whole booking rolls back.
func (h *BookingHandler) Create(c echo.Context) error {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := callerEmail(c, req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
	}
	if len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one seat is required"})
	}
	seen := make(map[seatPick]bool, len(req.Seats))
	for _, s := range req.Seats {
		if s.Row == 0 || s.Col == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each seat needs a row and column"})
		}
		if seen[s] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate seat in selection"})
		}
		seen[s] = true
	}

	ctx := c.Request().Context()
	detail, err := h.flights.GetDetail(ctx, flightID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load flight"})
	}
	if detail.Flight.Status != model.FlightActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "flight is not open for booking"})
	}
	if !detail.Flight.DepartsAt.After(time.Now()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "flight has already departed"})
	}

	if err := h.customers.EnsureCustomer(ctx, &model.Customer{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record customer"})
	}

	positions := make([]model.ReservedSeat, len(req.Seats))
	for i, s := range req.Seats {
		positions[i] = model.ReservedSeat{
			FlightID:   flightID,
			AircraftID: detail.Flight.AircraftID,
			RowNum:     s.Row,
			ColLetter:  strings.ToUpper(s.Col),
		}
	}

	tx, err := h.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start booking"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	classes, err := h.aircraft.SeatClassesTx(ctx, tx, detail.Flight.AircraftID, positions)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat does not exist on this aircraft"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not resolve seats"})
	}
	total := booking.TotalPrice(classes, detail.Flight.PriceEconomyCents, detail.Flight.PriceBusinessCents)

	b := &model.Booking{
		Email:           email,
		FlightID:        flightID,
		TotalPriceCents: total,
	}
	if err := h.bookings.CreateWithSeatsTx(ctx, tx, b, positions); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "one or more selected seats are already taken"})
		}
		if errors.Is(err, repository.ErrRefExhausted) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not allocate a booking reference"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not finalize booking"})
	}
	committed = true

	seatLabels := make([]string, len(positions))
	for i, p := range positions {
		seatLabels[i] = labelOf(p.RowNum, p.ColLetter)
	}
	ev := queue.BookingConfirmedEvent{
		BookingRef:      b.Ref,
		CustomerEmail:   email,
		FlightID:        detail.Flight.ID,
		Origin:          detail.Route.Origin,
		Destination:     detail.Route.Destination,
		DepartsAt:       detail.Flight.DepartsAt.UTC().Format(time.RFC3339),
		Seats:           seatLabels,
		TotalPriceCents: uint64(total),
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := queuepublisher.PublishBookingConfirmed(ctx, ev); err != nil {
		h.logger.Warn("booking confirmed event not published", zap.String("ref", b.Ref), zap.Error(err))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"ref":               b.Ref,
		"flight_id":         b.FlightID,
		"total_price_cents": total,
		"seats":             seatLabels,
	})
}

// ListMine returns the authenticated customer's bookings, newest first.
// An optional status query parameter filters by booking status.
func (h *BookingHandler) ListMine(c echo.Context) error {
	email, _ := c.Get(middleware.CtxSubject).(string)
	status := model.BookingStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown booking status"})
	}
	details, err := h.bookings.ListByEmail(c.Request().Context(), email, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// GuestLookup finds a guest's Active booking by reference and email,
// both passed as query parameters.
func (h *BookingHandler) GuestLookup(c echo.Context) error {
	ref := strings.ToUpper(strings.TrimSpace(c.QueryParam("ref")))
	email := strings.TrimSpace(strings.ToLower(c.QueryParam("email")))
	if len(ref) != booking.RefLength || email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reference and email are required"})
	}
	d, err := h.bookings.GetActiveByRefAndEmail(c.Request().Context(), ref, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active booking matches"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, d)
}

type cancelBookingRequest struct {
	Email string `json:"email"`
}

// Cancel cancels an Active booking no later than 36 hours before
// departure.  The customer is charged a 5% cancellation fee, which
// replaces the booking's total price, and the seats are released.
func (h *BookingHandler) Cancel(c echo.Context) error {
	ref := strings.ToUpper(strings.TrimSpace(c.Param("ref")))
	var req cancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := callerEmail(c, req.Email)
	if len(ref) != booking.RefLength || email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reference and email are required"})
	}

	ctx := c.Request().Context()
	d, err := h.bookings.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load booking"})
	}
	if d.Email != email {
		// No hint that the reference exists for someone else.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if d.Status != model.BookingActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not active"})
	}
	if !booking.CustomerCancelAllowed(d.DepartsAt, time.Now()) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": booking.ErrCancelWindowClosed.Error()})
	}

	fee := booking.CancellationFee(d.TotalPriceCents)
	tx, err := h.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start cancellation"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.bookings.CancelByCustomerTx(ctx, tx, ref, fee); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not active"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not finalize cancellation"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"ref":       ref,
		"status":    model.BookingCancelledByCustomer,
		"fee_cents": fee,
	})
}

// labelOf renders a seat position as a human label like "C12".
func labelOf(row uint32, col string) string {
	return strings.ToUpper(col) + strconv.FormatUint(uint64(row), 10)
}
