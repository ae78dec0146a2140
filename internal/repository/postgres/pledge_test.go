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

func newPledgeRepoMock(t *testing.T) (repository.PledgeRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPledgeRepository(db), mock, func() { db.Close() }
}

func pledgeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "request_id", "donor_id", "donor_name", "donor_phone",
		"units_pledged", "status", "notes", "created_on", "updated_on",
	})
}

func TestPledgeRepository_Create(t *testing.T) {
	repo, mock, closeFn := newPledgeRepoMock(t)
	defer closeFn()

	t.Run("Walk-in pledge stores null donor id", func(t *testing.T) {
		p := &domain.Pledge{
			ID:           "pl-1",
			RequestID:    "req-1",
			DonorName:    "Asha Patel",
			DonorPhone:   "+91 98200 00000",
			UnitsPledged: 2,
			Status:       domain.PledgeStatusPledged,
		}

		mock.ExpectExec("INSERT INTO pledges").
			WithArgs(p.ID, p.RequestID, nil, p.DonorName, p.DonorPhone,
				p.UnitsPledged, p.Status, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), p)
		assert.NoError(t, err)
	})

	t.Run("Linked pledge stores donor id and notes", func(t *testing.T) {
		donorID := "don-1"
		notes := "available weekends"
		p := &domain.Pledge{
			ID:           "pl-2",
			RequestID:    "req-1",
			DonorID:      &donorID,
			DonorName:    "Ravi Kumar",
			DonorPhone:   "+91 98200 11111",
			UnitsPledged: 1,
			Status:       domain.PledgeStatusPledged,
			Notes:        &notes,
		}

		mock.ExpectExec("INSERT INTO pledges").
			WithArgs(p.ID, p.RequestID, donorID, p.DonorName, p.DonorPhone,
				p.UnitsPledged, p.Status, notes, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), p)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPledgeRepository_ListByRequest(t *testing.T) {
	repo, mock, closeFn := newPledgeRepoMock(t)
	defer closeFn()

	created := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	rows := pledgeRows().
		AddRow("pl-1", "req-1", nil, "Asha Patel", "+91 98200 00000",
			int32(2), "pledged", nil, created, created).
		AddRow("pl-2", "req-1", "don-1", "Ravi Kumar", "+91 98200 11111",
			int32(1), "completed", "notes", created, created)

	mock.ExpectQuery("SELECT (.+) FROM pledges WHERE request_id").
		WithArgs("req-1").
		WillReturnRows(rows)

	pledges, err := repo.ListByRequest(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, pledges, 2)
	assert.Nil(t, pledges[0].DonorID)
	require.NotNil(t, pledges[1].DonorID)
	assert.Equal(t, "don-1", *pledges[1].DonorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPledgeRepository_ListWithRequests(t *testing.T) {
	repo, mock, closeFn := newPledgeRepoMock(t)
	defer closeFn()

	created := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "donor_id", "donor_name", "donor_phone",
		"units_pledged", "status", "notes", "created_on", "updated_on",
		"blood_group", "hospital_name", "city",
	}).AddRow("pl-1", "req-1", nil, "Asha Patel", "+91 98200 00000",
		int32(2), "pledged", nil, created, created, "O+", "City General", "Pune")

	mock.ExpectQuery("SELECT (.+) FROM pledges p").
		WillReturnRows(rows)

	pledges, err := repo.ListWithRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, pledges, 1)
	assert.Equal(t, domain.BloodGroupOPos, pledges[0].RequestBloodGroup)
	assert.Equal(t, "City General", pledges[0].RequestHospitalName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPledgeRepository_UpdateStatus(t *testing.T) {
	repo, mock, closeFn := newPledgeRepoMock(t)
	defer closeFn()

	t.Run("Updates an existing pledge", func(t *testing.T) {
		mock.ExpectExec("UPDATE pledges SET status").
			WithArgs(domain.PledgeStatusCompleted, sqlmock.AnyArg(), "pl-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), "pl-1", domain.PledgeStatusCompleted)
		assert.NoError(t, err)
	})

	t.Run("Unknown pledge returns ErrNoRows", func(t *testing.T) {
		mock.ExpectExec("UPDATE pledges SET status").
			WithArgs(domain.PledgeStatusCancelled, sqlmock.AnyArg(), "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), "missing", domain.PledgeStatusCancelled)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
