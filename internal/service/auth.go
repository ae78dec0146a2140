package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
	"bloodlink-backend/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidSignup      = errors.New("invalid signup details")
)

type authService struct {
	profiles repository.ProfileRepository
	donors   repository.DonorRepository
	tokens   security.TokenManager
	now      func() time.Time

	// Refresh token JTIs invalidated by logout, keyed to the token's own
	// expiry so entries can be swept once revocation is moot anyway.
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewAuthService(profiles repository.ProfileRepository, donors repository.DonorRepository, tokens security.TokenManager) AuthService {
	return &authService{
		profiles: profiles,
		donors:   donors,
		tokens:   tokens,
		now:      time.Now,
		revoked:  make(map[string]time.Time),
	}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*domain.Profile, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	city := strings.TrimSpace(in.City)

	if email == "" || len(in.Password) < 8 || name == "" || city == "" {
		return nil, "", "", ErrInvalidSignup
	}
	if !in.Role.Valid() {
		return nil, "", "", ErrInvalidSignup
	}
	if in.Role == domain.RoleDonor && !in.BloodGroup.Valid() {
		return nil, "", "", ErrInvalidSignup
	}
	if in.Role == domain.RoleHospital && strings.TrimSpace(in.HospitalName) == "" {
		return nil, "", "", ErrInvalidSignup
	}

	if existing, err := s.profiles.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", "", ErrEmailTaken
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", "", fmt.Errorf("failed to check existing profile: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &domain.Profile{
		ID:           uuid.NewString(),
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         in.Role,
		City:         city,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		profile.Phone = &phone
	}
	if in.Role == domain.RoleHospital {
		hospitalName := strings.TrimSpace(in.HospitalName)
		profile.HospitalName = &hospitalName
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", "", fmt.Errorf("failed to create profile: %w", err)
	}

	// Donors appear in the directory immediately after signup.
	if in.Role == domain.RoleDonor {
		donor := &domain.Donor{
			ID:         uuid.NewString(),
			UserID:     profile.UserID,
			Name:       name,
			BloodGroup: in.BloodGroup,
			City:       city,
			Phone:      strings.TrimSpace(in.Phone),
		}
		donor.Email = &profile.Email
		if err := s.donors.Create(ctx, donor); err != nil {
			logger.Error("Failed to create donor entry during signup", "user_id", profile.UserID, "error", err)
		}
	}

	access, refresh, err := s.issueTokenPair(profile)
	if err != nil {
		return nil, "", "", err
	}

	logger.Info("Profile created", "user_id", profile.UserID, "role", profile.Role)
	return profile, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Profile, string, string, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", fmt.Errorf("failed to look up profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.issueTokenPair(profile)
	if err != nil {
		return nil, "", "", err
	}
	return profile, access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return "", "", security.ErrInvalidToken
	}

	profile, err := s.profiles.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", security.ErrInvalidToken
		}
		return "", "", fmt.Errorf("failed to look up profile: %w", err)
	}

	return s.issueTokenPair(profile)
}

func (s *authService) Logout(ctx context.Context, refresh string) error {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		// An already-invalid token needs no revocation.
		return nil
	}
	if claims.Type != security.TokenTypeRefresh {
		return security.ErrWrongTokenType
	}

	expiry := s.now()
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	// A revocation is only needed until the token would have expired on its
	// own; drop the ones that already have.
	for jti, exp := range s.revoked {
		if s.now().After(exp) {
			delete(s.revoked, jti)
		}
	}
	s.revoked[claims.ID] = expiry
	s.mu.Unlock()

	logger.Info("Refresh token revoked", "user_id", claims.UserID)
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	return profile, nil
}

func (s *authService) issueTokenPair(profile *domain.Profile) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(profile.UserID, profile.Email, string(profile.Role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(profile.UserID, profile.Email)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return access, refresh, nil
}
