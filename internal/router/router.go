// Package router maps the HTTP surface onto the handlers and wires the
// per-group middleware chain.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/flytau/airline-reservation/internal/config"
	"github.com/flytau/airline-reservation/internal/handler"
	"github.com/flytau/airline-reservation/internal/middleware"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Public  *handler.PublicFlightHandler
	Booking *handler.BookingHandler
	Flights *handler.ManagerFlightHandler
	Fleet   *handler.FleetHandler
	Reports *handler.ReportHandler
}

// RegisterRoutes attaches all routes to the Echo instance.  The public
// group carries the Redis response cache on its GET endpoints; customer
// and manager groups sit behind JWT auth with role enforcement.
func (h Handlers) RegisterRoutes(e *echo.Echo, jwtSecret string, rdb *redis.Client,
	cacheCfg config.CacheConfig) {

	e.GET("/healthz", h.Health.Check)

	v1 := e.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	cached := middleware.NewRedisCache(cacheCfg, rdb)
	v1.GET("/flights", h.Public.SearchFlights, cached)
	v1.GET("/flights/:id/seats", h.Public.SeatMap, cached)
	v1.GET("/routes", h.Public.ListRoutes, cached)
	v1.GET("/airports", h.Public.Airports, cached)

	// Booking endpoints serve guests and logged-in customers alike:
	// optional auth fills in the customer identity when a token is sent,
	// guests supply their email in the request instead.
	optionalAuth := middleware.OptionalJWTAuth(jwtSecret)
	v1.POST("/flights/:id/bookings", h.Booking.Create, optionalAuth)
	v1.GET("/bookings/lookup", h.Booking.GuestLookup)
	v1.POST("/bookings/:ref/cancel", h.Booking.Cancel, optionalAuth)
	v1.GET("/bookings", h.Booking.ListMine,
		middleware.JWTAuth(jwtSecret), middleware.RequireRole(middleware.RoleCustomer))

	manager := v1.Group("/manager",
		middleware.JWTAuth(jwtSecret), middleware.RequireRole(middleware.RoleManager))
	manager.GET("/flights", h.Flights.SearchFlights)
	manager.POST("/flights", h.Flights.CreateFlight)
	manager.POST("/flights/:id/cancel", h.Flights.CancelFlight)
	manager.GET("/availability/aircraft", h.Flights.AvailableAircraft)
	manager.GET("/availability/crew", h.Flights.AvailableCrew)
	manager.POST("/aircraft", h.Fleet.RegisterAircraft)
	manager.GET("/aircraft", h.Fleet.ListAircraft)
	manager.POST("/employees", h.Fleet.AddEmployee)
	manager.GET("/crew", h.Fleet.ListCrew)
	manager.POST("/routes", h.Fleet.CreateRoute)
	manager.GET("/reports/aircraft-utilization", h.Reports.AircraftUtilization)
	manager.GET("/reports/cancellation-rate", h.Reports.CancellationRate)
	manager.GET("/reports/revenue-by-class", h.Reports.RevenueBySeatClass)
	manager.GET("/reports/average-occupancy", h.Reports.AverageOccupancy)
}
