package rest

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bloodlink-backend/internal/domain"
)

type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	TotalCount    int32                 `json:"total_count"`
	Page          int32                 `json:"page"`
	PageSize      int32                 `json:"page_size"`
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	notes, total, err := s.notifications.GetNotifications(r.Context(), profile.UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notificationsResponse{
		Notifications: notes,
		TotalCount:    total,
		Page:          page,
		PageSize:      pageSize,
	})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid notification id"})
		return
	}

	if err := s.notifications.MarkAsRead(r.Context(), profile.UserID, int32(id)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func queryInt32(r *http.Request, key string, fallback int32) int32 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n < 1 {
		return fallback
	}
	return int32(n)
}
