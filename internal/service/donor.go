package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/fulfillment"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

var ErrInvalidDonor = errors.New("invalid donor details")

type donorService struct {
	donors repository.DonorRepository
	broker *events.Broker
	now    func() time.Time
}

func NewDonorService(donors repository.DonorRepository, broker *events.Broker) DonorService {
	return &donorService{donors: donors, broker: broker, now: time.Now}
}

func (s *donorService) RegisterDonor(ctx context.Context, userID string, in RegisterDonorInput) (*domain.Donor, error) {
	name := strings.TrimSpace(in.Name)
	city := strings.TrimSpace(in.City)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || city == "" || phone == "" || !in.BloodGroup.Valid() {
		return nil, ErrInvalidDonor
	}

	// One directory entry per account.
	if userID != "" {
		if existing, err := s.donors.GetByUserID(ctx, userID); err == nil && existing != nil {
			return nil, ErrInvalidDonor
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to check existing donor: %w", err)
		}
	}

	donor := &domain.Donor{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		BloodGroup: in.BloodGroup,
		City:       city,
		Phone:      phone,
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		donor.Email = &email
	}
	if last := strings.TrimSpace(in.LastDonated); last != "" {
		if _, err := time.Parse("2006-01-02", last); err != nil {
			return nil, ErrInvalidDonor
		}
		donor.LastDonated = &last
	}

	if err := s.donors.Create(ctx, donor); err != nil {
		return nil, fmt.Errorf("failed to register donor: %w", err)
	}

	s.broker.Publish(events.Change{Table: events.TableDonors, Type: events.EventInsert, ID: donor.ID})
	logger.Info("Donor registered", "donor_id", donor.ID, "blood_group", donor.BloodGroup, "city", donor.City)
	return donor, nil
}

func (s *donorService) Directory(ctx context.Context, filter fulfillment.DonorFilter) ([]DonorView, error) {
	donors, err := s.donors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list donors: %w", err)
	}

	matched := fulfillment.FilterDonors(donors, filter)
	now := s.now()

	views := make([]DonorView, 0, len(matched))
	for _, d := range matched {
		views = append(views, DonorView{
			Donor:       d,
			IsAvailable: fulfillment.Available(d.LastDonated, now),
		})
	}
	return views, nil
}

func (s *donorService) GetDonor(ctx context.Context, id string) (*DonorView, error) {
	donor, err := s.donors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load donor: %w", err)
	}
	return &DonorView{
		Donor:       *donor,
		IsAvailable: fulfillment.Available(donor.LastDonated, s.now()),
	}, nil
}
