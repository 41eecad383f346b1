package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flytau/airline-reservation/internal/model"
	"github.com/flytau/airline-reservation/internal/repository"
	"github.com/flytau/airline-reservation/internal/utils"
)

// FleetHandler serves fleet and staff administration: aircraft
// registration with seat layout generation, employee onboarding and the
// route catalog.
type FleetHandler struct {
	aircraft   *repository.AircraftRepo
	crew       *repository.CrewRepo
	routes     *repository.RouteRepo
	bcryptCost int
}

// NewFleetHandler wires the handler's dependencies.
func NewFleetHandler(aircraft *repository.AircraftRepo, crew *repository.CrewRepo,
	routes *repository.RouteRepo, bcryptCost int) *FleetHandler {
	return &FleetHandler{aircraft: aircraft, crew: crew, routes: routes, bcryptCost: bcryptCost}
}

type registerAircraftRequest struct {
	ID           string `json:"id"`
	Manufacturer string `json:"manufacturer"`
	Size         string `json:"size"`
	PurchaseDate string `json:"purchase_date"` // YYYY-MM-DD
	BusinessRows uint32 `json:"business_rows"`
	BusinessCols uint32 `json:"business_cols"`
	EconomyRows  uint32 `json:"economy_rows"`
	EconomyCols  uint32 `json:"economy_cols"`
}

// RegisterAircraft adds an airframe to the fleet and generates its seat
// layout in the same transaction.  Small aircraft carry economy seats
// only; business layout parameters are rejected for them rather than
// silently dropped.
func (h *FleetHandler) RegisterAircraft(c echo.Context) error {
	var req registerAircraftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.ID = strings.ToUpper(strings.TrimSpace(req.ID))
	if req.ID == "" || req.Manufacturer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tail number and manufacturer are required"})
	}
	size := model.AircraftSize(req.Size)
	if !size.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "size must be Small or Big"})
	}
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "purchase_date must be YYYY-MM-DD"})
	}
	if req.EconomyRows == 0 || req.EconomyCols == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "economy layout is required"})
	}
	switch size {
	case model.AircraftBig:
		if req.BusinessRows == 0 || req.BusinessCols == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Big aircraft need a business layout"})
		}
	case model.AircraftSmall:
		if req.BusinessRows != 0 || req.BusinessCols != 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Small aircraft have no business cabin"})
		}
	}

	a := &model.Aircraft{
		ID:           req.ID,
		Manufacturer: req.Manufacturer,
		Size:         size,
		PurchaseDate: purchaseDate,
	}
	err = h.aircraft.Register(c.Request().Context(), a,
		req.BusinessRows, req.BusinessCols, req.EconomyRows, req.EconomyCols)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tail number already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not register aircraft"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": a.ID, "size": a.Size})
}

// ListAircraft returns the fleet.
func (h *FleetHandler) ListAircraft(c echo.Context) error {
	fleet, err := h.aircraft.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load fleet"})
	}
	return c.JSON(http.StatusOK, echo.Map{"aircraft": fleet})
}

type addEmployeeRequest struct {
	EmployeeID  string `json:"employee_id"`
	Role        string `json:"role"` // manager, pilot or attendant
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNum    string `json:"house_num"`
	IsQualified bool   `json:"is_qualified"`
	Password    string `json:"password"` // managers only
}

// AddEmployee onboards a manager, pilot or attendant.  Employee ids are
// unique across all three tables; managers additionally get a login
// password.
func (h *FleetHandler) AddEmployee(c echo.Context) error {
	var req addEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" || req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee id and name are required"})
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	taken, err := h.crew.EmployeeIDTaken(ctx, req.EmployeeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not check employee id"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "employee id already in use"})
	}

	switch req.Role {
	case "manager":
		if len(req.Password) < 8 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "managers need a password of at least 8 characters"})
		}
		hash, err := utils.HashPassword(req.Password, h.bcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
		}
		m := &model.Manager{
			EmployeeID:   req.EmployeeID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			StartDate:    startDate,
			City:         req.City,
			Street:       req.Street,
			HouseNum:     req.HouseNum,
			PasswordHash: hash,
		}
		if err := h.crew.CreateManager(ctx, m); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "employee id already in use"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create manager"})
		}
	case string(model.RolePilot), string(model.RoleAttendant):
		m := &model.CrewMember{
			EmployeeID:  req.EmployeeID,
			Role:        model.CrewRole(req.Role),
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Phone:       req.Phone,
			StartDate:   startDate,
			City:        req.City,
			Street:      req.Street,
			HouseNum:    req.HouseNum,
			IsQualified: req.IsQualified,
		}
		if err := h.crew.CreateCrewMember(ctx, m); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "employee id already in use"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create crew member"})
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be manager, pilot or attendant"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"employee_id": req.EmployeeID, "role": req.Role})
}

// ListCrew returns all pilots or attendants depending on the role query
// parameter.
func (h *FleetHandler) ListCrew(c echo.Context) error {
	role := model.CrewRole(c.QueryParam("role"))
	if role != model.RolePilot && role != model.RoleAttendant {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be pilot or attendant"})
	}
	members, err := h.crew.ListCrew(c.Request().Context(), role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load crew"})
	}
	return c.JSON(http.StatusOK, echo.Map{"crew": members})
}

type createRouteRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DurationMin uint32 `json:"duration_min"`
}

// CreateRoute adds a route to the catalog.
func (h *FleetHandler) CreateRoute(c echo.Context) error {
	var req createRouteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	if req.Origin == "" || req.Destination == "" || req.Origin == req.Destination {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "distinct origin and destination are required"})
	}
	if req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min is required"})
	}
	rt := &model.Route{Origin: req.Origin, Destination: req.Destination, DurationMin: req.DurationMin}
	if err := h.routes.Create(c.Request().Context(), rt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "route already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create route"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": rt.ID, "long_flight": rt.IsLong()})
}
