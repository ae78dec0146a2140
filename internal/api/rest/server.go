package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/security"
	"bloodlink-backend/internal/service"
)

// Server holds the HTTP handler dependencies and builds the route table.
type Server struct {
	auth          service.AuthService
	requests      service.RequestService
	donors        service.DonorService
	pledges       service.PledgeService
	notifications service.NotificationService
	verifier      security.Verifier
	broker        *events.Broker
}

func NewServer(
	auth service.AuthService,
	requests service.RequestService,
	donors service.DonorService,
	pledges service.PledgeService,
	notifications service.NotificationService,
	verifier security.Verifier,
	broker *events.Broker,
) *Server {
	return &Server{
		auth:          auth,
		requests:      requests,
		donors:        donors,
		pledges:       pledges,
		notifications: notifications,
		verifier:      verifier,
		broker:        broker,
	}
}

// Router assembles the API route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Auth
	api.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.requireAuth(s.handleMe)).Methods(http.MethodGet)

	// Blood requests
	api.HandleFunc("/requests", s.handleListRequests).Methods(http.MethodGet)
	api.HandleFunc("/requests", s.requireRole(domain.RoleHospital, s.handleCreateRequest)).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}", s.handleGetRequest).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}/cancel", s.requireRole(domain.RoleHospital, s.handleCancelRequest)).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/pledges", s.optionalAuth(s.handleSubmitPledge)).Methods(http.MethodPost)
	api.HandleFunc("/hospital/dashboard", s.requireRole(domain.RoleHospital, s.handleDashboard)).Methods(http.MethodGet)

	// Pledges
	api.HandleFunc("/pledges", s.requireAuth(s.handleListPledges)).Methods(http.MethodGet)
	api.HandleFunc("/pledges/{id}/status", s.requireRole(domain.RoleHospital, s.handleUpdatePledgeStatus)).Methods(http.MethodPost)

	// Donors
	api.HandleFunc("/donors", s.handleDonorDirectory).Methods(http.MethodGet)
	api.HandleFunc("/donors", s.optionalAuth(s.handleRegisterDonor)).Methods(http.MethodPost)
	api.HandleFunc("/donors/{id}", s.handleGetDonor).Methods(http.MethodGet)

	// Hospitals
	api.HandleFunc("/hospitals", s.handleListHospitals).Methods(http.MethodGet)

	// Notifications
	api.HandleFunc("/notifications", s.requireAuth(s.handleListNotifications)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", s.requireAuth(s.handleMarkNotificationRead)).Methods(http.MethodPost)

	// Live change feed
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
