package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/service"
)

type contextKey string

const profileContextKey contextKey = "profile"

// profileFromContext returns the authenticated caller's profile, set by
// requireAuth.
func profileFromContext(ctx context.Context) (*domain.Profile, bool) {
	p, ok := ctx.Value(profileContextKey).(*domain.Profile)
	return p, ok
}

// requireAuth verifies the bearer token and loads the caller's profile into
// the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		identity, err := s.verifier.Verify(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		profile, err := s.auth.GetProfile(r.Context(), identity.UserID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unknown account"})
				return
			}
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		next(w, r.WithContext(ctx))
	}
}

// requireRole wraps requireAuth and additionally checks the caller's role.
func (s *Server) requireRole(role domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		profile, ok := profileFromContext(r.Context())
		if !ok || profile.Role != role {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "insufficient permissions"})
			return
		}
		next(w, r)
	})
}

// optionalAuth loads the caller's profile when a valid token is present but
// lets anonymous requests through. Pledge submission uses it: walk-in pledges
// carry inline donor details instead of an account.
func (s *Server) optionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next(w, r)
			return
		}

		identity, err := s.verifier.Verify(r.Context(), token)
		if err != nil {
			next(w, r)
			return
		}
		profile, err := s.auth.GetProfile(r.Context(), identity.UserID)
		if err != nil {
			next(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// logRequests is the access log middleware.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
