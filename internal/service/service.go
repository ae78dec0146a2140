package service

import (
	"context"
	"errors"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/fulfillment"
	"bloodlink-backend/internal/repository"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// SignupInput carries the registration form. Donor signups also create a
// donor directory entry; hospital signups carry the hospital display name.
type SignupInput struct {
	Email        string
	Password     string
	Name         string
	Role         domain.Role
	Phone        string
	City         string
	BloodGroup   domain.BloodGroup
	HospitalName string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.Profile, string, string, error)
	Login(ctx context.Context, email, password string) (*domain.Profile, string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
	Logout(ctx context.Context, refresh string) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

// CreateRequestInput carries the new-request form.
type CreateRequestInput struct {
	BloodGroup    domain.BloodGroup
	City          string
	UnitsRequired int32
	Urgency       domain.Urgency
	Description   string
}

// RequestView decorates a request with its derived fulfillment state.
type RequestView struct {
	domain.BloodRequest
	Status          domain.RequestStatus `json:"status"`
	UnitsRemaining  int32                `json:"units_remaining"`
	PercentComplete float64              `json:"percent_complete"`
}

// RequestDetail is a request view together with its pledges.
type RequestDetail struct {
	RequestView
	Pledges []domain.Pledge `json:"pledges"`
}

type RequestService interface {
	CreateRequest(ctx context.Context, hospital *domain.Profile, in CreateRequestInput) (*RequestView, error)
	GetRequest(ctx context.Context, id string) (*RequestDetail, error)
	ListRequests(ctx context.Context, filter repository.RequestListFilter, status string) ([]RequestView, error)
	CancelRequest(ctx context.Context, id, hospitalID string) error
	Dashboard(ctx context.Context, hospitalID string) (*domain.DashboardStats, error)
	ListHospitals(ctx context.Context) ([]domain.HospitalSummary, error)
}

// RegisterDonorInput carries the donor registration form.
type RegisterDonorInput struct {
	Name        string
	BloodGroup  domain.BloodGroup
	City        string
	Phone       string
	Email       string
	LastDonated string
}

// DonorView decorates a donor with derived availability.
type DonorView struct {
	domain.Donor
	IsAvailable bool `json:"is_available"`
}

type DonorService interface {
	RegisterDonor(ctx context.Context, userID string, in RegisterDonorInput) (*domain.Donor, error)
	Directory(ctx context.Context, filter fulfillment.DonorFilter) ([]DonorView, error)
	GetDonor(ctx context.Context, id string) (*DonorView, error)
}

type PledgeService interface {
	SubmitPledge(ctx context.Context, requestID, donorUserID string, in fulfillment.PledgeInput) (*domain.Pledge, error)
	ListPledges(ctx context.Context, filter fulfillment.PledgeFilter) ([]domain.PledgeWithRequest, error)
	UpdatePledgeStatus(ctx context.Context, pledgeID string, status domain.PledgeStatus) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, profileUserID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, profileUserID string, notificationID int32) error
}

type EmailService interface {
	SendPledgeReceivedNotification(ctx context.Context, hospitalEmail, hospitalName, donorName string, units int32, bloodGroup domain.BloodGroup) error
	SendPledgeThanksNotification(ctx context.Context, donorEmail, donorName string, units int32, hospitalName string) error
	SendUrgentRequestDigest(ctx context.Context, hospitalEmail, hospitalName string, lines []string) error
}
