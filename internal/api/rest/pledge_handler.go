package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/fulfillment"
)

type submitPledgeRequest struct {
	DonorName  string `json:"donor_name"`
	DonorPhone string `json:"donor_phone"`
	Units      string `json:"units"`
	Notes      string `json:"notes"`
}

type updatePledgeStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleSubmitPledge(w http.ResponseWriter, r *http.Request) {
	var req submitPledgeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	in := fulfillment.PledgeInput{
		DonorName:  req.DonorName,
		DonorPhone: req.DonorPhone,
		Units:      req.Units,
		Notes:      req.Notes,
	}

	// Signed-in donors get their directory details filled in automatically.
	var donorUserID string
	if profile, ok := profileFromContext(r.Context()); ok {
		donorUserID = profile.UserID
		if in.DonorName == "" {
			in.DonorName = profile.Name
		}
		if in.DonorPhone == "" && profile.Phone != nil {
			in.DonorPhone = *profile.Phone
		}
	}

	pledge, err := s.pledges.SubmitPledge(r.Context(), mux.Vars(r)["id"], donorUserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pledge)
}

// handleListPledges supports ?status= and ?search= filters.
func (s *Server) handleListPledges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := s.pledges.ListPledges(r.Context(), fulfillment.PledgeFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleUpdatePledgeStatus(w http.ResponseWriter, r *http.Request) {
	var req updatePledgeStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.pledges.UpdatePledgeStatus(r.Context(), mux.Vars(r)["id"], domain.PledgeStatus(req.Status)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
