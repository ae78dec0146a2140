package fulfillment

import (
	"testing"
	"time"

	"bloodlink-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	t.Run("Partially fulfilled request is open", func(t *testing.T) {
		p, err := Compute(10, 6)
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusOpen, p.Status)
		assert.Equal(t, int32(4), p.Remaining)
		assert.InDelta(t, 60.0, p.PercentComplete, 0.0001)
	})

	t.Run("Exactly met request is fulfilled", func(t *testing.T) {
		p, err := Compute(5, 5)
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusFulfilled, p.Status)
		assert.Equal(t, int32(0), p.Remaining)
		assert.InDelta(t, 100.0, p.PercentComplete, 0.0001)
	})

	t.Run("Over-fulfilled request clamps remaining and percentage", func(t *testing.T) {
		p, err := Compute(5, 8)
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusFulfilled, p.Status)
		assert.Equal(t, int32(0), p.Remaining)
		assert.InDelta(t, 100.0, p.PercentComplete, 0.0001)
	})

	t.Run("Untouched request", func(t *testing.T) {
		p, err := Compute(3, 0)
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusOpen, p.Status)
		assert.Equal(t, int32(3), p.Remaining)
		assert.InDelta(t, 0.0, p.PercentComplete, 0.0001)
	})

	t.Run("Zero required units is rejected", func(t *testing.T) {
		_, err := Compute(0, 0)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "units required must be positive")
	})

	t.Run("Negative fulfilled units is rejected", func(t *testing.T) {
		_, err := Compute(5, -1)
		assert.Error(t, err)
	})

	t.Run("Status boundary", func(t *testing.T) {
		tests := []struct {
			required  int32
			fulfilled int32
			expected  domain.RequestStatus
		}{
			{10, 0, domain.RequestStatusOpen},
			{10, 9, domain.RequestStatusOpen},
			{10, 10, domain.RequestStatusFulfilled},
			{10, 11, domain.RequestStatusFulfilled},
			{1, 1, domain.RequestStatusFulfilled},
		}
		for _, tt := range tests {
			p, err := Compute(tt.required, tt.fulfilled)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, p.Status)
		}
	})
}

func TestStatus(t *testing.T) {
	t.Run("Cancellation wins over counters", func(t *testing.T) {
		cancelled := "2024-08-15"
		req := &domain.BloodRequest{UnitsRequired: 5, UnitsFulfilled: 5, CancelledAt: &cancelled}
		status, err := Status(req)
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusCancelled, status)
	})

	t.Run("Open request", func(t *testing.T) {
		req := &domain.BloodRequest{UnitsRequired: 8, UnitsFulfilled: 2}
		status, err := Status(req)
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusOpen, status)
	})

	t.Run("Corrupt counters surface an error", func(t *testing.T) {
		req := &domain.BloodRequest{UnitsRequired: 0, UnitsFulfilled: 0}
		_, err := Status(req)
		assert.Error(t, err)
	})
}

func TestAvailable(t *testing.T) {
	now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Never donated", func(t *testing.T) {
		assert.True(t, Available(nil, now))
		empty := ""
		assert.True(t, Available(&empty, now))
	})

	t.Run("Donated long ago", func(t *testing.T) {
		last := "2024-01-15"
		assert.True(t, Available(&last, now))
	})

	t.Run("Donated recently", func(t *testing.T) {
		last := "2024-08-20"
		assert.False(t, Available(&last, now))
	})

	t.Run("Exactly at the interval boundary", func(t *testing.T) {
		// 56 days before Sep 1 is Jul 7; eligible again on that day.
		last := "2024-07-07"
		assert.True(t, Available(&last, now))

		last = "2024-07-08"
		assert.False(t, Available(&last, now))
	})

	t.Run("Unparseable date is treated as unavailable", func(t *testing.T) {
		bad := "15/01/2024"
		assert.False(t, Available(&bad, now))
	})
}
