package api

import (
	"net/http"

	"rentfleet/internal/auth"
	"rentfleet/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	Users    *service.UserService
	Vehicles *service.VehicleService
	Bookings *service.BookingService
	Auth     *auth.Middleware
	Log      zerolog.Logger

	// AuthRateRPS/AuthRateBurst throttle the login and register endpoints
	// per client IP. Zero RPS disables the limiter.
	AuthRateRPS   float64
	AuthRateBurst int
}

// NewRouter wires every route of the service.
func NewRouter(deps RouterDeps) *mux.Router {
	authHandler := NewAuthHandler(deps.Users)
	vehicleHandler := NewVehicleHandler(deps.Vehicles)
	bookingHandler := NewBookingHandler(deps.Bookings)

	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(requestIDMiddleware))
	r.Use(loggingMiddleware(deps.Log))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Public auth endpoints, rate limited per IP.
	var limit func(http.Handler) http.Handler = func(next http.Handler) http.Handler { return next }
	if deps.AuthRateRPS > 0 {
		limit = newRateLimiter(deps.AuthRateRPS, deps.AuthRateBurst).Wrap
	}
	r.Handle("/api/auth/register", limit(http.HandlerFunc(authHandler.Register))).Methods(http.MethodPost)
	r.Handle("/api/auth/login", limit(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/check-username", authHandler.CheckUsername).Methods(http.MethodGet)

	// Authenticated profile endpoints.
	account := r.PathPrefix("/api/auth").Subrouter()
	account.Use(mux.MiddlewareFunc(deps.Auth.Authenticate))
	account.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)
	account.HandleFunc("/profile", authHandler.UpdateProfile).Methods(http.MethodPut)
	account.HandleFunc("/change-password", authHandler.ChangePassword).Methods(http.MethodPut)

	// Vehicle catalog is public; quote included so the booking form can
	// price a window before login.
	r.HandleFunc("/api/vehicles", vehicleHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/api/vehicles/search", vehicleHandler.Search).Methods(http.MethodGet)
	r.HandleFunc("/api/vehicles/{id:[0-9]+}", vehicleHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/vehicles/{id:[0-9]+}/quote", vehicleHandler.Quote).Methods(http.MethodGet)

	// Fleet management is operator only.
	fleet := r.PathPrefix("/api/vehicles").Subrouter()
	fleet.Use(mux.MiddlewareFunc(deps.Auth.Authenticate), mux.MiddlewareFunc(deps.Auth.RequireOperator))
	fleet.HandleFunc("", vehicleHandler.Create).Methods(http.MethodPost)
	fleet.HandleFunc("/{id:[0-9]+}", vehicleHandler.Update).Methods(http.MethodPut)
	fleet.HandleFunc("/{id:[0-9]+}", vehicleHandler.Delete).Methods(http.MethodDelete)

	// Bookings: renters see their own, operators see everything. The
	// service layer enforces per-action authorization.
	bookings := r.PathPrefix("/api/bookings").Subrouter()
	bookings.Use(mux.MiddlewareFunc(deps.Auth.Authenticate))
	bookings.HandleFunc("", bookingHandler.Create).Methods(http.MethodPost)
	bookings.HandleFunc("", bookingHandler.List).Methods(http.MethodGet)
	bookings.HandleFunc("/me", bookingHandler.ListMine).Methods(http.MethodGet)
	bookings.HandleFunc("/{id:[0-9]+}", bookingHandler.Get).Methods(http.MethodGet)
	bookings.HandleFunc("/{id:[0-9]+}/confirm", bookingHandler.Confirm).Methods(http.MethodPost)
	bookings.HandleFunc("/{id:[0-9]+}/activate", bookingHandler.Activate).Methods(http.MethodPost)
	bookings.HandleFunc("/{id:[0-9]+}/complete", bookingHandler.Complete).Methods(http.MethodPost)
	bookings.HandleFunc("/{id:[0-9]+}/cancel", bookingHandler.Cancel).Methods(http.MethodPost)
	bookings.HandleFunc("/{id:[0-9]+}/refund", bookingHandler.Refund).Methods(http.MethodPost)

	return r
}
