package postgres

import (
	"context"
	"database/sql"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

type pledgeRepository struct {
	db *sql.DB
}

func NewPledgeRepository(db *sql.DB) repository.PledgeRepository {
	return &pledgeRepository{db: db}
}

func (r *pledgeRepository) Create(ctx context.Context, p *domain.Pledge) error {
	query := `INSERT INTO pledges (id, request_id, donor_id, donor_name, donor_phone, units_pledged, status, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	now := time.Now().Format("2006-01-02")
	p.CreatedOn = now
	p.UpdatedOn = now

	var donorID, notes interface{}
	if p.DonorID != nil {
		donorID = *p.DonorID
	}
	if p.Notes != nil {
		notes = *p.Notes
	}

	logger.DatabaseCall("INSERT", "pledges", "requestID", p.RequestID, "units", p.UnitsPledged)
	_, err := r.db.ExecContext(ctx, query, p.ID, p.RequestID, donorID, p.DonorName, p.DonorPhone,
		p.UnitsPledged, p.Status, notes, p.CreatedOn, p.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "pledgeID", p.ID)
	return err
}

func (r *pledgeRepository) GetByID(ctx context.Context, id string) (*domain.Pledge, error) {
	query := pledgeSelect + ` WHERE id = $1`
	return scanPledge(r.db.QueryRowContext(ctx, query, id))
}

func (r *pledgeRepository) ListByRequest(ctx context.Context, requestID string) ([]domain.Pledge, error) {
	query := pledgeSelect + ` WHERE request_id = $1 ORDER BY created_on DESC, id`
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []domain.Pledge
	for rows.Next() {
		p, err := scanPledge(rows)
		if err != nil {
			return nil, err
		}
		pledges = append(pledges, *p)
	}
	return pledges, rows.Err()
}

func (r *pledgeRepository) ListWithRequests(ctx context.Context) ([]domain.PledgeWithRequest, error) {
	query := `SELECT p.id, p.request_id, p.donor_id, p.donor_name, p.donor_phone, p.units_pledged, p.status, p.notes, p.created_on, p.updated_on,
	                 r.blood_group, r.hospital_name, r.city
	          FROM pledges p
	          JOIN requests r ON p.request_id = r.id
	          ORDER BY p.created_on DESC, p.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pledges []domain.PledgeWithRequest
	for rows.Next() {
		var pw domain.PledgeWithRequest
		var donorID, notes sql.NullString
		var createdOn, updatedOn time.Time

		err := rows.Scan(&pw.ID, &pw.RequestID, &donorID, &pw.DonorName, &pw.DonorPhone,
			&pw.UnitsPledged, &pw.Status, &notes, &createdOn, &updatedOn,
			&pw.RequestBloodGroup, &pw.RequestHospitalName, &pw.RequestCity)
		if err != nil {
			return nil, err
		}

		if donorID.Valid {
			pw.DonorID = &donorID.String
		}
		if notes.Valid {
			pw.Notes = &notes.String
		}
		pw.CreatedOn = createdOn.Format("2006-01-02")
		pw.UpdatedOn = updatedOn.Format("2006-01-02")
		pledges = append(pledges, pw)
	}
	return pledges, rows.Err()
}

func (r *pledgeRepository) UpdateStatus(ctx context.Context, id string, status domain.PledgeStatus) error {
	query := `UPDATE pledges SET status = $1, updated_on = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().Format("2006-01-02"), id)
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

const pledgeSelect = `SELECT id, request_id, donor_id, donor_name, donor_phone, units_pledged, status, notes, created_on, updated_on FROM pledges`

func scanPledge(row rowScanner) (*domain.Pledge, error) {
	p := &domain.Pledge{}
	var donorID, notes sql.NullString
	var createdOn, updatedOn time.Time

	err := row.Scan(&p.ID, &p.RequestID, &donorID, &p.DonorName, &p.DonorPhone,
		&p.UnitsPledged, &p.Status, &notes, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}

	if donorID.Valid {
		p.DonorID = &donorID.String
	}
	if notes.Valid {
		p.Notes = &notes.String
	}
	p.CreatedOn = createdOn.Format("2006-01-02")
	p.UpdatedOn = updatedOn.Format("2006-01-02")
	return p, nil
}
