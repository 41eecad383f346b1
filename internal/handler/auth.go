package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flytau/airline-reservation/internal/middleware"
	"github.com/flytau/airline-reservation/internal/model"
	"github.com/flytau/airline-reservation/internal/repository"
	"github.com/flytau/airline-reservation/internal/utils"
)

// AuthHandler serves registration and login.  Login is dual-mode over a
// single endpoint: an identifier containing '@' is treated as a customer
// email, anything else as a manager employee id.
type AuthHandler struct {
	customers  *repository.CustomerRepo
	crew       *repository.CrewRepo
	jwtSecret  string
	accessTTL  time.Duration
	bcryptCost int
}

// NewAuthHandler wires the handler's dependencies.
func NewAuthHandler(customers *repository.CustomerRepo, crew *repository.CrewRepo,
	jwtSecret string, accessTTL time.Duration, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		customers:  customers,
		crew:       crew,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		bcryptCost: bcryptCost,
	}
}

type registerRequest struct {
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Password    string   `json:"password"`
	PassportNum string   `json:"passport_num"`
	BirthDate   string   `json:"birth_date"` // YYYY-MM-DD
	Phones      []string `json:"phones"`
}

// Register creates a customer account.  The base customer row may
// already exist from a guest booking; only the registered account must
// be new.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
	}
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first and last name are required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "birth_date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	if err := h.customers.EnsureCustomer(ctx, &model.Customer{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create customer"})
	}

	hash, err := utils.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
	}
	rc := &model.RegisteredCustomer{
		Email:        req.Email,
		PassportNum:  req.PassportNum,
		BirthDate:    birthDate,
		PasswordHash: hash,
		RegisterDate: time.Now(),
	}
	if err := h.customers.CreateRegistered(ctx, rc); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create account"})
	}
	if err := h.customers.AddPhones(ctx, req.Email, req.Phones); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store phone numbers"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"email": req.Email})
}

type loginRequest struct {
	// Identifier is a customer email or a manager employee id.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// Login authenticates a registered customer or a manager and issues an
// access token.  The two failure modes (unknown identity, wrong
// password) are indistinguishable in the response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier and password are required"})
	}

	ctx := c.Request().Context()
	var (
		hash    string
		subject string
		role    string
	)
	if strings.Contains(req.Identifier, "@") {
		rc, err := h.customers.GetRegistered(ctx, strings.ToLower(req.Identifier))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
		}
		hash, subject, role = rc.PasswordHash, rc.Email, middleware.RoleCustomer
	} else {
		m, err := h.crew.GetManager(ctx, req.Identifier)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
		}
		hash, subject, role = m.PasswordHash, m.EmployeeID, middleware.RoleManager
	}

	if !utils.CheckPassword(hash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	token, err := utils.NewAccessToken(h.jwtSecret, subject, role, h.accessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, loginResponse{AccessToken: token, Role: role})
}
