package repository

import (
	"context"

	"bloodlink-backend/internal/domain"
)

// RequestListFilter narrows the request listing at the SQL level. Empty
// fields mean no constraint; status filtering stays in the service layer
// because status is derived.
type RequestListFilter struct {
	BloodGroup string
	City       string
	HospitalID string
}

type RequestRepository interface {
	Create(ctx context.Context, req *domain.BloodRequest) error
	GetByID(ctx context.Context, id string) (*domain.BloodRequest, error)
	List(ctx context.Context, filter RequestListFilter) ([]domain.BloodRequest, error)
	Cancel(ctx context.Context, id, hospitalID string) error
	HospitalSummaries(ctx context.Context) ([]domain.HospitalSummary, error)
	CancelStale(ctx context.Context, olderThanDays int) ([]string, error)
}

type DonorRepository interface {
	Create(ctx context.Context, donor *domain.Donor) error
	GetByID(ctx context.Context, id string) (*domain.Donor, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Donor, error)
	List(ctx context.Context) ([]domain.Donor, error)
	RecordDonation(ctx context.Context, id string, donatedOn string) error
}

type PledgeRepository interface {
	Create(ctx context.Context, pledge *domain.Pledge) error
	GetByID(ctx context.Context, id string) (*domain.Pledge, error)
	ListByRequest(ctx context.Context, requestID string) ([]domain.Pledge, error)
	ListWithRequests(ctx context.Context) ([]domain.PledgeWithRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.PledgeStatus) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, profileID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id int32, profileID string) error
}
