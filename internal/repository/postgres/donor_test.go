package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

func newDonorRepoMock(t *testing.T) (repository.DonorRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewDonorRepository(db), mock, func() { db.Close() }
}

func donorRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "blood_group", "city", "phone",
		"email", "last_donated", "donation_count", "created_on", "updated_on",
	})
}

func TestDonorRepository_Create(t *testing.T) {
	repo, mock, closeFn := newDonorRepoMock(t)
	defer closeFn()

	t.Run("Walk-in donor stores null user id", func(t *testing.T) {
		d := &domain.Donor{
			ID:         "don-1",
			Name:       "Asha Patel",
			BloodGroup: domain.BloodGroupAPos,
			City:       "Pune",
			Phone:      "+91 98200 00000",
		}

		mock.ExpectExec("INSERT INTO donors").
			WithArgs(d.ID, nil, d.Name, d.BloodGroup, d.City, d.Phone,
				nil, nil, d.DonationCount, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), d)
		assert.NoError(t, err)
	})

	t.Run("Registered donor stores account link", func(t *testing.T) {
		email := "ravi@example.com"
		last := "2026-06-01"
		d := &domain.Donor{
			ID:          "don-2",
			UserID:      "user-2",
			Name:        "Ravi Kumar",
			BloodGroup:  domain.BloodGroupONeg,
			City:        "Mumbai",
			Phone:       "+91 98200 11111",
			Email:       &email,
			LastDonated: &last,
		}

		mock.ExpectExec("INSERT INTO donors").
			WithArgs(d.ID, d.UserID, d.Name, d.BloodGroup, d.City, d.Phone,
				email, last, d.DonationCount, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), d)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorRepository_List(t *testing.T) {
	repo, mock, closeFn := newDonorRepoMock(t)
	defer closeFn()

	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := donorRows().
		AddRow("don-1", nil, "Asha Patel", "A+", "Pune", "+91 98200 00000",
			nil, nil, int32(0), created, created).
		AddRow("don-2", "user-2", "Ravi Kumar", "O-", "Mumbai", "+91 98200 11111",
			"ravi@example.com", last, int32(3), created, created)

	mock.ExpectQuery("SELECT (.+) FROM donors ORDER BY").
		WillReturnRows(rows)

	donors, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, donors, 2)
	assert.Empty(t, donors[0].UserID)
	assert.Nil(t, donors[0].LastDonated)
	require.NotNil(t, donors[1].LastDonated)
	assert.Equal(t, "2026-06-01", *donors[1].LastDonated)
	assert.Equal(t, int32(3), donors[1].DonationCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorRepository_RecordDonation(t *testing.T) {
	repo, mock, closeFn := newDonorRepoMock(t)
	defer closeFn()

	t.Run("Stamps date and bumps count", func(t *testing.T) {
		mock.ExpectExec("UPDATE donors SET last_donated").
			WithArgs("2026-08-30", sqlmock.AnyArg(), "don-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RecordDonation(context.Background(), "don-1", "2026-08-30")
		assert.NoError(t, err)
	})

	t.Run("Unknown donor returns ErrNoRows", func(t *testing.T) {
		mock.ExpectExec("UPDATE donors SET last_donated").
			WithArgs("2026-08-30", sqlmock.AnyArg(), "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RecordDonation(context.Background(), "missing", "2026-08-30")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
