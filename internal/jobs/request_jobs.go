package jobs

import (
	"context"
	"fmt"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/fulfillment"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

// SendUrgentRequestReminders emails each hospital a digest of its urgent
// requests that are still open, and drops a matching in-app notification.
func (r *JobRunner) SendUrgentRequestReminders(ctx context.Context) error {
	reqs, err := r.store.RequestRepository.List(ctx, repository.RequestListFilter{})
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}

	// Group open high/critical requests by hospital.
	byHospital := make(map[string][]string)
	for i := range reqs {
		req := &reqs[i]
		if req.Urgency != domain.UrgencyHigh && req.Urgency != domain.UrgencyCritical {
			continue
		}
		status, err := fulfillment.Status(req)
		if err != nil || status != domain.RequestStatusOpen {
			continue
		}
		remaining := req.UnitsRequired - req.UnitsFulfilled
		line := fmt.Sprintf("- %s in %s: %d unit(s) still needed (%s)",
			req.BloodGroup, req.City, remaining, req.Urgency)
		byHospital[req.HospitalID] = append(byHospital[req.HospitalID], line)
	}

	var sent int
	for hospitalID, lines := range byHospital {
		profile, err := r.store.ProfileRepository.GetByUserID(ctx, hospitalID)
		if err != nil {
			logger.Warn("Skipping reminder for unknown hospital", "hospital_id", hospitalID, "error", err)
			continue
		}

		hospitalName := profile.Name
		if profile.HospitalName != nil && *profile.HospitalName != "" {
			hospitalName = *profile.HospitalName
		}

		if err := r.email.SendUrgentRequestDigest(ctx, profile.Email, hospitalName, lines); err != nil {
			logger.Error("Failed to send urgent request digest", "hospital_id", hospitalID, "error", err)
			continue
		}

		note := &domain.Notification{
			ProfileID: hospitalID,
			Subject:   "Urgent requests still open",
			Message:   fmt.Sprintf("%d urgent request(s) are still waiting for pledges.", len(lines)),
		}
		if err := r.store.NotificationRepository.Create(ctx, note); err != nil {
			logger.Error("Failed to create reminder notification", "hospital_id", hospitalID, "error", err)
		}
		sent++
	}

	logger.Info("Urgent request reminders processed", "hospitals", len(byHospital), "sent", sent)
	return nil
}

// CancelStaleRequests cancels open requests older than the configured age
// that never attracted a pledge. A zero threshold disables the sweep.
func (r *JobRunner) CancelStaleRequests(ctx context.Context) error {
	days := r.cfg.Requests.StaleAfterDays
	if days <= 0 {
		logger.Info("Stale request sweep disabled")
		return nil
	}

	ids, err := r.store.RequestRepository.CancelStale(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to cancel stale requests: %w", err)
	}

	for _, id := range ids {
		r.broker.Publish(events.Change{Table: events.TableRequests, Type: events.EventUpdate, ID: id})
	}

	logger.Info("Stale requests cancelled", "count", len(ids), "older_than_days", days)
	return nil
}
