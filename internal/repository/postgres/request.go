package postgres

import (
	"context"
	"database/sql"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

// requestColumns selects request rows with the fulfilled-units aggregate.
// units_fulfilled is never stored; it is the sum of non-cancelled pledge
// units for the request.
const requestColumns = `r.id, r.hospital_id, r.hospital_name, r.blood_group, r.city, r.units_required,
	       COALESCE(SUM(p.units_pledged) FILTER (WHERE p.status != 'cancelled'), 0) AS units_fulfilled,
	       r.urgency, r.description, r.cancelled_at, r.created_on, r.updated_on`

func (r *requestRepository) Create(ctx context.Context, req *domain.BloodRequest) error {
	query := `INSERT INTO requests (id, hospital_id, hospital_name, blood_group, city, units_required, urgency, description, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	now := time.Now().Format("2006-01-02")
	req.CreatedOn = now
	req.UpdatedOn = now

	var description interface{}
	if req.Description != nil {
		description = *req.Description
	}

	logger.DatabaseCall("INSERT", "requests", "requestID", req.ID)
	_, err := r.db.ExecContext(ctx, query, req.ID, req.HospitalID, req.HospitalName, req.BloodGroup, req.City,
		req.UnitsRequired, req.Urgency, description, req.CreatedOn, req.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "requestID", req.ID)
	return err
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	query := `SELECT ` + requestColumns + `
	          FROM requests r
	          LEFT JOIN pledges p ON p.request_id = r.id
	          WHERE r.id = $1
	          GROUP BY r.id`
	row := r.db.QueryRowContext(ctx, query, id)
	req, err := scanRequest(row)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) List(ctx context.Context, filter repository.RequestListFilter) ([]domain.BloodRequest, error) {
	query := `SELECT ` + requestColumns + `
	          FROM requests r
	          LEFT JOIN pledges p ON p.request_id = r.id
	          WHERE ($1 = '' OR r.blood_group = $1)
	            AND ($2 = '' OR r.city = $2)
	            AND ($3 = '' OR r.hospital_id = $3)
	          GROUP BY r.id
	          ORDER BY r.created_on DESC, r.id`
	rows, err := r.db.QueryContext(ctx, query, filter.BloodGroup, filter.City, filter.HospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.BloodRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *requestRepository) Cancel(ctx context.Context, id, hospitalID string) error {
	query := `UPDATE requests SET cancelled_at = $1, updated_on = $1 WHERE id = $2 AND hospital_id = $3 AND cancelled_at IS NULL`
	now := time.Now().Format("2006-01-02")
	result, err := r.db.ExecContext(ctx, query, now, id, hospitalID)
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

func (r *requestRepository) HospitalSummaries(ctx context.Context) ([]domain.HospitalSummary, error) {
	query := `SELECT hospital_id, hospital_name, city,
	                 COUNT(*) AS open_requests,
	                 COALESCE(SUM(units_required - units_fulfilled), 0) AS units_needed
	          FROM (
	              SELECT r.id, r.hospital_id, r.hospital_name, r.city, r.units_required,
	                     COALESCE(SUM(p.units_pledged) FILTER (WHERE p.status != 'cancelled'), 0) AS units_fulfilled
	              FROM requests r
	              LEFT JOIN pledges p ON p.request_id = r.id
	              WHERE r.cancelled_at IS NULL
	              GROUP BY r.id
	          ) open_demand
	          WHERE units_fulfilled < units_required
	          GROUP BY hospital_id, hospital_name, city
	          ORDER BY hospital_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.HospitalSummary
	for rows.Next() {
		var s domain.HospitalSummary
		if err := rows.Scan(&s.HospitalID, &s.HospitalName, &s.City, &s.OpenRequests, &s.UnitsNeeded); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *requestRepository) CancelStale(ctx context.Context, olderThanDays int) ([]string, error) {
	query := `UPDATE requests SET cancelled_at = $1, updated_on = $1
	          WHERE cancelled_at IS NULL
	            AND created_on < $2
	            AND NOT EXISTS (SELECT 1 FROM pledges p WHERE p.request_id = requests.id)
	          RETURNING id`
	now := time.Now()
	cutoff := now.AddDate(0, 0, -olderThanDays).Format("2006-01-02")
	logger.DatabaseCall("UPDATE", "requests", "cutoff", cutoff)

	rows, err := r.db.QueryContext(ctx, query, now.Format("2006-01-02"), cutoff)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	logger.DatabaseResult("UPDATE", int64(len(ids)), rows.Err())
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.BloodRequest, error) {
	req := &domain.BloodRequest{}
	var description sql.NullString
	var cancelledAt sql.NullTime
	var createdOn, updatedOn time.Time

	err := row.Scan(&req.ID, &req.HospitalID, &req.HospitalName, &req.BloodGroup, &req.City,
		&req.UnitsRequired, &req.UnitsFulfilled, &req.Urgency, &description, &cancelledAt,
		&createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		req.Description = &description.String
	}
	if cancelledAt.Valid {
		dateStr := cancelledAt.Time.Format("2006-01-02")
		req.CancelledAt = &dateStr
	}
	req.CreatedOn = createdOn.Format("2006-01-02")
	req.UpdatedOn = updatedOn.Format("2006-01-02")
	return req, nil
}
