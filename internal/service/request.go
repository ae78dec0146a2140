package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/fulfillment"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

var ErrInvalidRequest = errors.New("invalid request details")

type requestService struct {
	requests repository.RequestRepository
	pledges  repository.PledgeRepository
	broker   *events.Broker
}

func NewRequestService(requests repository.RequestRepository, pledges repository.PledgeRepository, broker *events.Broker) RequestService {
	return &requestService{requests: requests, pledges: pledges, broker: broker}
}

func (s *requestService) CreateRequest(ctx context.Context, hospital *domain.Profile, in CreateRequestInput) (*RequestView, error) {
	if hospital.Role != domain.RoleHospital {
		return nil, ErrInvalidRequest
	}
	if !in.BloodGroup.Valid() || !in.Urgency.Valid() {
		return nil, ErrInvalidRequest
	}
	if in.UnitsRequired < 1 {
		return nil, ErrInvalidRequest
	}
	city := strings.TrimSpace(in.City)
	if city == "" {
		return nil, ErrInvalidRequest
	}

	hospitalName := hospital.Name
	if hospital.HospitalName != nil && *hospital.HospitalName != "" {
		hospitalName = *hospital.HospitalName
	}

	req := &domain.BloodRequest{
		ID:            uuid.NewString(),
		HospitalID:    hospital.UserID,
		HospitalName:  hospitalName,
		BloodGroup:    in.BloodGroup,
		City:          city,
		UnitsRequired: in.UnitsRequired,
		Urgency:       in.Urgency,
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		req.Description = &desc
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create blood request: %w", err)
	}

	s.broker.Publish(events.Change{Table: events.TableRequests, Type: events.EventInsert, ID: req.ID})
	logger.Info("Blood request created", "request_id", req.ID, "hospital_id", req.HospitalID, "urgency", req.Urgency)

	return s.view(req)
}

func (s *requestService) GetRequest(ctx context.Context, id string) (*RequestDetail, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load blood request: %w", err)
	}

	view, err := s.view(req)
	if err != nil {
		return nil, err
	}

	pledges, err := s.pledges.ListByRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load pledges for request: %w", err)
	}

	return &RequestDetail{RequestView: *view, Pledges: pledges}, nil
}

// ListRequests returns requests matching the SQL-level filter, then applies
// the derived-status filter in memory. status may be a RequestStatus value or
// "all".
func (s *requestService) ListRequests(ctx context.Context, filter repository.RequestListFilter, status string) ([]RequestView, error) {
	reqs, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list blood requests: %w", err)
	}

	views := make([]RequestView, 0, len(reqs))
	for i := range reqs {
		view, err := s.view(&reqs[i])
		if err != nil {
			logger.Warn("Skipping request with inconsistent counters", "request_id", reqs[i].ID, "error", err)
			continue
		}
		if status != "" && status != fulfillment.FilterAll && string(view.Status) != status {
			continue
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *requestService) CancelRequest(ctx context.Context, id, hospitalID string) error {
	if err := s.requests.Cancel(ctx, id, hospitalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to cancel blood request: %w", err)
	}

	s.broker.Publish(events.Change{Table: events.TableRequests, Type: events.EventUpdate, ID: id})
	logger.Info("Blood request cancelled", "request_id", id, "hospital_id", hospitalID)
	return nil
}

func (s *requestService) Dashboard(ctx context.Context, hospitalID string) (*domain.DashboardStats, error) {
	reqs, err := s.requests.List(ctx, repository.RequestListFilter{HospitalID: hospitalID})
	if err != nil {
		return nil, fmt.Errorf("failed to list hospital requests: %w", err)
	}

	stats := &domain.DashboardStats{}
	for i := range reqs {
		req := &reqs[i]
		status, err := fulfillment.Status(req)
		if err != nil {
			continue
		}
		stats.TotalRequests++
		switch status {
		case domain.RequestStatusOpen:
			stats.OpenRequests++
			stats.TotalUnitsNeeded += req.UnitsRequired - req.UnitsFulfilled
		case domain.RequestStatusFulfilled:
			stats.FulfilledRequests++
		case domain.RequestStatusCancelled:
			stats.CancelledRequests++
		}
		stats.UnitsPledged += req.UnitsFulfilled
	}
	return stats, nil
}

func (s *requestService) ListHospitals(ctx context.Context) ([]domain.HospitalSummary, error) {
	summaries, err := s.requests.HospitalSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return summaries, nil
}

func (s *requestService) view(req *domain.BloodRequest) (*RequestView, error) {
	progress, err := fulfillment.Compute(req.UnitsRequired, req.UnitsFulfilled)
	if err != nil {
		return nil, err
	}

	status := progress.Status
	if req.CancelledAt != nil {
		status = domain.RequestStatusCancelled
	}

	return &RequestView{
		BloodRequest:    *req,
		Status:          status,
		UnitsRemaining:  progress.Remaining,
		PercentComplete: progress.PercentComplete,
	}, nil
}
