package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/repository"
)

func newRequestServiceForTest() (RequestService, *mockRequestRepo, *mockPledgeRepo) {
	requests := &mockRequestRepo{}
	pledges := &mockPledgeRepo{}
	return NewRequestService(requests, pledges, events.NewBroker()), requests, pledges
}

func hospitalProfile() *domain.Profile {
	name := "City General"
	return &domain.Profile{
		ID:           "p-1",
		UserID:       "hosp-1",
		Email:        "ops@citygeneral.example",
		Name:         "Ops Team",
		Role:         domain.RoleHospital,
		City:         "Pune",
		HospitalName: &name,
	}
}

func TestRequestService_CreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a request with the hospital display name", func(t *testing.T) {
		svc, requests, _ := newRequestServiceForTest()
		requests.On("Create", ctx, mock.AnythingOfType("*domain.BloodRequest")).Return(nil)

		view, err := svc.CreateRequest(ctx, hospitalProfile(), CreateRequestInput{
			BloodGroup:    domain.BloodGroupOPos,
			City:          "Pune",
			UnitsRequired: 10,
			Urgency:       domain.UrgencyCritical,
		})

		require.NoError(t, err)
		assert.Equal(t, "City General", view.HospitalName)
		assert.Equal(t, domain.RequestStatusOpen, view.Status)
		assert.Equal(t, int32(10), view.UnitsRemaining)
		assert.Equal(t, float64(0), view.PercentComplete)
	})

	t.Run("Rejects zero units required", func(t *testing.T) {
		svc, _, _ := newRequestServiceForTest()
		_, err := svc.CreateRequest(ctx, hospitalProfile(), CreateRequestInput{
			BloodGroup:    domain.BloodGroupOPos,
			City:          "Pune",
			UnitsRequired: 0,
			Urgency:       domain.UrgencyLow,
		})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("Rejects unknown urgency", func(t *testing.T) {
		svc, _, _ := newRequestServiceForTest()
		_, err := svc.CreateRequest(ctx, hospitalProfile(), CreateRequestInput{
			BloodGroup:    domain.BloodGroupOPos,
			City:          "Pune",
			UnitsRequired: 5,
			Urgency:       domain.Urgency("asap"),
		})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("Rejects donor-role callers", func(t *testing.T) {
		svc, _, _ := newRequestServiceForTest()
		donor := hospitalProfile()
		donor.Role = domain.RoleDonor

		_, err := svc.CreateRequest(ctx, donor, CreateRequestInput{
			BloodGroup:    domain.BloodGroupOPos,
			City:          "Pune",
			UnitsRequired: 5,
			Urgency:       domain.UrgencyLow,
		})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestRequestService_GetRequest(t *testing.T) {
	ctx := context.Background()
	svc, requests, pledges := newRequestServiceForTest()

	requests.On("GetByID", ctx, "req-1").Return(&domain.BloodRequest{
		ID:             "req-1",
		UnitsRequired:  10,
		UnitsFulfilled: 6,
	}, nil)
	pledges.On("ListByRequest", ctx, "req-1").Return([]domain.Pledge{
		{ID: "pl-1", UnitsPledged: 6},
	}, nil)

	detail, err := svc.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusOpen, detail.Status)
	assert.Equal(t, int32(4), detail.UnitsRemaining)
	assert.InDelta(t, 60.0, detail.PercentComplete, 0.001)
	require.Len(t, detail.Pledges, 1)
}

func TestRequestService_ListRequests(t *testing.T) {
	ctx := context.Background()
	svc, requests, _ := newRequestServiceForTest()

	cancelled := "2026-08-20"
	requests.On("List", ctx, repository.RequestListFilter{}).Return([]domain.BloodRequest{
		{ID: "req-open", UnitsRequired: 10, UnitsFulfilled: 4},
		{ID: "req-full", UnitsRequired: 5, UnitsFulfilled: 5},
		{ID: "req-gone", UnitsRequired: 5, UnitsFulfilled: 0, CancelledAt: &cancelled},
	}, nil)

	t.Run("Status filter keeps only matching derived statuses", func(t *testing.T) {
		views, err := svc.ListRequests(ctx, repository.RequestListFilter{}, "open")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "req-open", views[0].ID)
	})

	t.Run("All statuses pass through without a filter", func(t *testing.T) {
		views, err := svc.ListRequests(ctx, repository.RequestListFilter{}, "all")
		require.NoError(t, err)
		assert.Len(t, views, 3)
	})

	t.Run("Cancellation wins over the fulfilled counter", func(t *testing.T) {
		views, err := svc.ListRequests(ctx, repository.RequestListFilter{}, "cancelled")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "req-gone", views[0].ID)
	})
}

func TestRequestService_CancelRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancel propagates ownership misses as not found", func(t *testing.T) {
		svc, requests, _ := newRequestServiceForTest()
		requests.On("Cancel", ctx, "req-1", "hosp-2").Return(sql.ErrNoRows)

		err := svc.CancelRequest(ctx, "req-1", "hosp-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Owner cancel succeeds", func(t *testing.T) {
		svc, requests, _ := newRequestServiceForTest()
		requests.On("Cancel", ctx, "req-1", "hosp-1").Return(nil)

		assert.NoError(t, svc.CancelRequest(ctx, "req-1", "hosp-1"))
	})
}

func TestRequestService_Dashboard(t *testing.T) {
	ctx := context.Background()
	svc, requests, _ := newRequestServiceForTest()

	cancelled := "2026-08-20"
	requests.On("List", ctx, repository.RequestListFilter{HospitalID: "hosp-1"}).Return([]domain.BloodRequest{
		{ID: "r1", UnitsRequired: 10, UnitsFulfilled: 4},
		{ID: "r2", UnitsRequired: 5, UnitsFulfilled: 5},
		{ID: "r3", UnitsRequired: 3, UnitsFulfilled: 0, CancelledAt: &cancelled},
	}, nil)

	stats, err := svc.Dashboard(ctx, "hosp-1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), stats.TotalRequests)
	assert.Equal(t, int32(1), stats.OpenRequests)
	assert.Equal(t, int32(1), stats.FulfilledRequests)
	assert.Equal(t, int32(1), stats.CancelledRequests)
	assert.Equal(t, int32(6), stats.TotalUnitsNeeded)
	assert.Equal(t, int32(9), stats.UnitsPledged)
}
