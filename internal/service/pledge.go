package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/fulfillment"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

var (
	ErrRequestClosed      = errors.New("this request is no longer accepting pledges")
	ErrInvalidPledgeState = errors.New("invalid pledge status")
)

type pledgeService struct {
	pledges  repository.PledgeRepository
	requests repository.RequestRepository
	donors   repository.DonorRepository
	profiles repository.ProfileRepository
	notes    repository.NotificationRepository
	email    EmailService
	broker   *events.Broker
	now      func() time.Time
}

func NewPledgeService(
	pledges repository.PledgeRepository,
	requests repository.RequestRepository,
	donors repository.DonorRepository,
	profiles repository.ProfileRepository,
	notes repository.NotificationRepository,
	email EmailService,
	broker *events.Broker,
) PledgeService {
	return &pledgeService{
		pledges:  pledges,
		requests: requests,
		donors:   donors,
		profiles: profiles,
		notes:    notes,
		email:    email,
		broker:   broker,
		now:      time.Now,
	}
}

// SubmitPledge validates a pledge against the request's live remaining count
// and records it. The form values are revalidated here even when the client
// already checked them; the request may have moved since the form rendered.
func (s *pledgeService) SubmitPledge(ctx context.Context, requestID, donorUserID string, in fulfillment.PledgeInput) (*domain.Pledge, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load blood request: %w", err)
	}

	status, err := fulfillment.Status(req)
	if err != nil {
		return nil, fmt.Errorf("failed to derive request status: %w", err)
	}
	if status != domain.RequestStatusOpen {
		return nil, ErrRequestClosed
	}

	progress, err := fulfillment.Compute(req.UnitsRequired, req.UnitsFulfilled)
	if err != nil {
		return nil, fmt.Errorf("failed to compute request progress: %w", err)
	}

	pledge, err := fulfillment.ValidatePledge(in, progress.Remaining)
	if err != nil {
		return nil, err
	}
	pledge.ID = uuid.NewString()
	pledge.RequestID = requestID

	// Pledges from signed-in donors link back to their directory entry.
	var donor *domain.Donor
	if donorUserID != "" {
		donor, err = s.donors.GetByUserID(ctx, donorUserID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to look up donor: %w", err)
		}
		if donor != nil {
			pledge.DonorID = &donor.ID
		}
	}

	if err := s.pledges.Create(ctx, pledge); err != nil {
		return nil, fmt.Errorf("failed to create pledge: %w", err)
	}

	s.broker.Publish(events.Change{Table: events.TablePledges, Type: events.EventInsert, ID: pledge.ID})
	s.broker.Publish(events.Change{Table: events.TableRequests, Type: events.EventUpdate, ID: requestID})
	logger.Info("Pledge recorded",
		"pledge_id", pledge.ID,
		"request_id", requestID,
		"units", pledge.UnitsPledged,
		"remaining_before", progress.Remaining)

	s.notifyPledge(ctx, req, pledge, donor)
	return pledge, nil
}

func (s *pledgeService) ListPledges(ctx context.Context, filter fulfillment.PledgeFilter) ([]domain.PledgeWithRequest, error) {
	rows, err := s.pledges.ListWithRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pledges: %w", err)
	}
	return fulfillment.FilterPledges(rows, filter), nil
}

// canTransition defines the pledge lifecycle: pledged may be confirmed,
// completed or cancelled; confirmed may be completed or cancelled; completed
// and cancelled are terminal.
func canTransition(from, to domain.PledgeStatus) bool {
	switch from {
	case domain.PledgeStatusPledged:
		return to == domain.PledgeStatusConfirmed || to == domain.PledgeStatusCompleted || to == domain.PledgeStatusCancelled
	case domain.PledgeStatusConfirmed:
		return to == domain.PledgeStatusCompleted || to == domain.PledgeStatusCancelled
	}
	return false
}

// UpdatePledgeStatus moves a pledge through its lifecycle. Completing a
// pledge also stamps the donor's last donation date, which drives the
// derived availability in the directory. Terminal states stay terminal, so
// a donation is recorded exactly once per pledge and a cancelled pledge can
// never re-enter the request's fulfilled aggregate.
func (s *pledgeService) UpdatePledgeStatus(ctx context.Context, pledgeID string, status domain.PledgeStatus) error {
	if !status.Valid() {
		return ErrInvalidPledgeState
	}

	pledge, err := s.pledges.GetByID(ctx, pledgeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load pledge: %w", err)
	}

	if !canTransition(pledge.Status, status) {
		return ErrInvalidPledgeState
	}

	if err := s.pledges.UpdateStatus(ctx, pledgeID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update pledge status: %w", err)
	}

	if status == domain.PledgeStatusCompleted && pledge.DonorID != nil {
		donatedOn := s.now().UTC().Format("2006-01-02")
		if err := s.donors.RecordDonation(ctx, *pledge.DonorID, donatedOn); err != nil {
			logger.Error("Failed to record donation for completed pledge",
				"pledge_id", pledgeID, "donor_id", *pledge.DonorID, "error", err)
		} else {
			s.broker.Publish(events.Change{Table: events.TableDonors, Type: events.EventUpdate, ID: *pledge.DonorID})
		}
	}

	s.broker.Publish(events.Change{Table: events.TablePledges, Type: events.EventUpdate, ID: pledgeID})
	// Cancelled pledges lower the request's fulfilled aggregate.
	s.broker.Publish(events.Change{Table: events.TableRequests, Type: events.EventUpdate, ID: pledge.RequestID})
	return nil
}

// notifyPledge fans out the side effects of a new pledge: an in-app
// notification and an email for the hospital, and a thank-you email for the
// donor. Failures are logged and swallowed; the pledge is already committed.
func (s *pledgeService) notifyPledge(ctx context.Context, req *domain.BloodRequest, pledge *domain.Pledge, donor *domain.Donor) {
	note := &domain.Notification{
		ProfileID: req.HospitalID,
		Subject:   "New pledge received",
		Message: fmt.Sprintf("%s pledged %d unit(s) of %s for your request in %s.",
			pledge.DonorName, pledge.UnitsPledged, req.BloodGroup, req.City),
	}
	if err := s.notes.Create(ctx, note); err != nil {
		logger.Error("Failed to create pledge notification", "request_id", req.ID, "error", err)
	}

	if hospital, err := s.profiles.GetByUserID(ctx, req.HospitalID); err != nil {
		logger.Error("Failed to look up hospital for pledge email", "hospital_id", req.HospitalID, "error", err)
	} else if err := s.email.SendPledgeReceivedNotification(ctx, hospital.Email, req.HospitalName,
		pledge.DonorName, pledge.UnitsPledged, req.BloodGroup); err != nil {
		logger.Error("Failed to send pledge received email", "request_id", req.ID, "error", err)
	}

	if donor != nil && donor.Email != nil && *donor.Email != "" {
		if err := s.email.SendPledgeThanksNotification(ctx, *donor.Email, pledge.DonorName, pledge.UnitsPledged, req.HospitalName); err != nil {
			logger.Error("Failed to send pledge thank-you email", "pledge_id", pledge.ID, "error", err)
		}
	}
}
