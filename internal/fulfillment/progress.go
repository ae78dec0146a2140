package fulfillment

import (
	"fmt"
	"time"

	"bloodlink-backend/internal/domain"
)

// Progress is the derived view of a request's fulfillment state.
type Progress struct {
	Status          domain.RequestStatus
	Remaining       int32
	PercentComplete float64
}

// Compute derives status, remaining units and completion percentage from the
// stored counters. unitsRequired must be positive; a request with zero
// required units is a data error, not a fulfilled request.
func Compute(unitsRequired, unitsFulfilled int32) (Progress, error) {
	if unitsRequired <= 0 {
		return Progress{}, fmt.Errorf("units required must be positive, got %d", unitsRequired)
	}
	if unitsFulfilled < 0 {
		return Progress{}, fmt.Errorf("units fulfilled must not be negative, got %d", unitsFulfilled)
	}

	status := domain.RequestStatusOpen
	if unitsFulfilled >= unitsRequired {
		status = domain.RequestStatusFulfilled
	}

	remaining := unitsRequired - unitsFulfilled
	if remaining < 0 {
		remaining = 0
	}

	percent := float64(unitsFulfilled) / float64(unitsRequired)
	if percent > 1.0 {
		percent = 1.0
	}

	return Progress{
		Status:          status,
		Remaining:       remaining,
		PercentComplete: percent * 100,
	}, nil
}

// Status derives the display status of a request. Cancellation wins over the
// counter-derived state.
func Status(req *domain.BloodRequest) (domain.RequestStatus, error) {
	if req.CancelledAt != nil {
		return domain.RequestStatusCancelled, nil
	}
	p, err := Compute(req.UnitsRequired, req.UnitsFulfilled)
	if err != nil {
		return "", err
	}
	return p.Status, nil
}

// Available reports whether a donor may donate as of now. A donor with no
// recorded donation is available; otherwise the last donation must be at
// least the whole-blood interval ago. lastDonated is a yyyy-mm-dd string.
func Available(lastDonated *string, now time.Time) bool {
	if lastDonated == nil || *lastDonated == "" {
		return true
	}
	last, err := time.Parse("2006-01-02", *lastDonated)
	if err != nil {
		return false
	}
	return !now.Before(last.AddDate(0, 0, domain.DonationIntervalDays))
}
