package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/fulfillment"
	"bloodlink-backend/internal/service"
)

type registerDonorRequest struct {
	Name        string `json:"name"`
	BloodGroup  string `json:"blood_group"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	LastDonated string `json:"last_donated"`
}

func (s *Server) handleRegisterDonor(w http.ResponseWriter, r *http.Request) {
	var req registerDonorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var userID string
	if profile, ok := profileFromContext(r.Context()); ok {
		userID = profile.UserID
	}

	donor, err := s.donors.RegisterDonor(r.Context(), userID, service.RegisterDonorInput{
		Name:        req.Name,
		BloodGroup:  domain.BloodGroup(req.BloodGroup),
		City:        req.City,
		Phone:       req.Phone,
		Email:       req.Email,
		LastDonated: req.LastDonated,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, donor)
}

// handleDonorDirectory supports ?blood_group=, ?city= and ?search= filters.
func (s *Server) handleDonorDirectory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	views, err := s.donors.Directory(r.Context(), fulfillment.DonorFilter{
		BloodGroup: q.Get("blood_group"),
		City:       q.Get("city"),
		Search:     q.Get("search"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetDonor(w http.ResponseWriter, r *http.Request) {
	view, err := s.donors.GetDonor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
