package postgres

import (
	"context"
	"database/sql"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type donorRepository struct {
	db *sql.DB
}

func NewDonorRepository(db *sql.DB) repository.DonorRepository {
	return &donorRepository{db: db}
}

func (r *donorRepository) Create(ctx context.Context, d *domain.Donor) error {
	query := `INSERT INTO donors (id, user_id, name, blood_group, city, phone, email, last_donated, donation_count, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	now := time.Now().Format("2006-01-02")
	d.CreatedOn = now
	d.UpdatedOn = now

	// Walk-in donors have no account; user_id stays NULL for them.
	var userID, email, lastDonated interface{}
	if d.UserID != "" {
		userID = d.UserID
	}
	if d.Email != nil {
		email = *d.Email
	}
	if d.LastDonated != nil {
		lastDonated = *d.LastDonated
	}

	_, err := r.db.ExecContext(ctx, query, d.ID, userID, d.Name, d.BloodGroup, d.City, d.Phone,
		email, lastDonated, d.DonationCount, d.CreatedOn, d.UpdatedOn)
	return err
}

func (r *donorRepository) GetByID(ctx context.Context, id string) (*domain.Donor, error) {
	query := donorSelect + ` WHERE id = $1`
	return scanDonor(r.db.QueryRowContext(ctx, query, id))
}

func (r *donorRepository) GetByUserID(ctx context.Context, userID string) (*domain.Donor, error) {
	query := donorSelect + ` WHERE user_id = $1`
	return scanDonor(r.db.QueryRowContext(ctx, query, userID))
}

func (r *donorRepository) List(ctx context.Context) ([]domain.Donor, error) {
	query := donorSelect + ` ORDER BY created_on DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donors []domain.Donor
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		donors = append(donors, *d)
	}
	return donors, rows.Err()
}

func (r *donorRepository) RecordDonation(ctx context.Context, id string, donatedOn string) error {
	query := `UPDATE donors SET last_donated = $1, donation_count = donation_count + 1, updated_on = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, donatedOn, time.Now().Format("2006-01-02"), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const donorSelect = `SELECT id, user_id, name, blood_group, city, phone, email, last_donated, donation_count, created_on, updated_on FROM donors`

func scanDonor(row rowScanner) (*domain.Donor, error) {
	d := &domain.Donor{}
	var userID, email sql.NullString
	var lastDonated sql.NullTime
	var createdOn, updatedOn time.Time

	err := row.Scan(&d.ID, &userID, &d.Name, &d.BloodGroup, &d.City, &d.Phone,
		&email, &lastDonated, &d.DonationCount, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}

	d.UserID = userID.String
	if email.Valid {
		d.Email = &email.String
	}
	if lastDonated.Valid {
		dateStr := lastDonated.Time.Format("2006-01-02")
		d.LastDonated = &dateStr
	}
	d.CreatedOn = createdOn.Format("2006-01-02")
	d.UpdatedOn = updatedOn.Format("2006-01-02")
	return d, nil
}
