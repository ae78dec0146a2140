package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
	"bloodlink-backend/internal/service"
)

type createRequestRequest struct {
	BloodGroup    string `json:"blood_group"`
	City          string `json:"city"`
	UnitsRequired int32  `json:"units_required"`
	Urgency       string `json:"urgency"`
	Description   string `json:"description"`
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	profile, _ := profileFromContext(r.Context())
	view, err := s.requests.CreateRequest(r.Context(), profile, service.CreateRequestInput{
		BloodGroup:    domain.BloodGroup(req.BloodGroup),
		City:          req.City,
		UnitsRequired: req.UnitsRequired,
		Urgency:       domain.Urgency(req.Urgency),
		Description:   req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	detail, err := s.requests.GetRequest(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleListRequests supports ?blood_group=, ?city=, ?hospital_id= and
// ?status= query filters. Values of "all" behave like an absent filter.
func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.RequestListFilter{
		BloodGroup: queryFilter(q.Get("blood_group")),
		City:       queryFilter(q.Get("city")),
		HospitalID: q.Get("hospital_id"),
	}

	views, err := s.requests.ListRequests(r.Context(), filter, q.Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())
	if err := s.requests.CancelRequest(r.Context(), mux.Vars(r)["id"], profile.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())
	stats, err := s.requests.Dashboard(r.Context(), profile.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListHospitals(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.requests.ListHospitals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// queryFilter normalizes "all" to an empty (inactive) SQL filter value.
func queryFilter(v string) string {
	if v == "all" {
		return ""
	}
	return v
}
