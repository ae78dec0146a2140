package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type mockRequestRepo struct{ mock.Mock }

func (m *mockRequestRepo) Create(ctx context.Context, req *domain.BloodRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}

func (m *mockRequestRepo) List(ctx context.Context, filter repository.RequestListFilter) ([]domain.BloodRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodRequest), args.Error(1)
}

func (m *mockRequestRepo) Cancel(ctx context.Context, id, hospitalID string) error {
	return m.Called(ctx, id, hospitalID).Error(0)
}

func (m *mockRequestRepo) HospitalSummaries(ctx context.Context) ([]domain.HospitalSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HospitalSummary), args.Error(1)
}

func (m *mockRequestRepo) CancelStale(ctx context.Context, olderThanDays int) ([]string, error) {
	args := m.Called(ctx, olderThanDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockPledgeRepo struct{ mock.Mock }

func (m *mockPledgeRepo) Create(ctx context.Context, pledge *domain.Pledge) error {
	return m.Called(ctx, pledge).Error(0)
}

func (m *mockPledgeRepo) GetByID(ctx context.Context, id string) (*domain.Pledge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pledge), args.Error(1)
}

func (m *mockPledgeRepo) ListByRequest(ctx context.Context, requestID string) ([]domain.Pledge, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pledge), args.Error(1)
}

func (m *mockPledgeRepo) ListWithRequests(ctx context.Context) ([]domain.PledgeWithRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PledgeWithRequest), args.Error(1)
}

func (m *mockPledgeRepo) UpdateStatus(ctx context.Context, id string, status domain.PledgeStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockDonorRepo struct{ mock.Mock }

func (m *mockDonorRepo) Create(ctx context.Context, donor *domain.Donor) error {
	return m.Called(ctx, donor).Error(0)
}

func (m *mockDonorRepo) GetByID(ctx context.Context, id string) (*domain.Donor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *mockDonorRepo) GetByUserID(ctx context.Context, userID string) (*domain.Donor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *mockDonorRepo) List(ctx context.Context) ([]domain.Donor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donor), args.Error(1)
}

func (m *mockDonorRepo) RecordDonation(ctx context.Context, id string, donatedOn string) error {
	return m.Called(ctx, id, donatedOn).Error(0)
}

type mockProfileRepo struct{ mock.Mock }

func (m *mockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockNotificationRepo) List(ctx context.Context, profileID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, profileID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, id int32, profileID string) error {
	return m.Called(ctx, id, profileID).Error(0)
}

type mockEmailService struct{ mock.Mock }

func (m *mockEmailService) SendPledgeReceivedNotification(ctx context.Context, hospitalEmail, hospitalName, donorName string, units int32, bloodGroup domain.BloodGroup) error {
	return m.Called(ctx, hospitalEmail, hospitalName, donorName, units, bloodGroup).Error(0)
}

func (m *mockEmailService) SendPledgeThanksNotification(ctx context.Context, donorEmail, donorName string, units int32, hospitalName string) error {
	return m.Called(ctx, donorEmail, donorName, units, hospitalName).Error(0)
}

func (m *mockEmailService) SendUrgentRequestDigest(ctx context.Context, hospitalEmail, hospitalName string, lines []string) error {
	return m.Called(ctx, hospitalEmail, hospitalName, lines).Error(0)
}
