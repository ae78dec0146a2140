package postgres

import (
	"database/sql"

	"bloodlink-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RequestRepository
	repository.DonorRepository
	repository.PledgeRepository
	repository.ProfileRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		RequestRepository:      NewRequestRepository(db),
		DonorRepository:        NewDonorRepository(db),
		PledgeRepository:       NewPledgeRepository(db),
		ProfileRepository:      NewProfileRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
