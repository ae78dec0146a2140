package postgres

import (
	"context"
	"database/sql"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (id, user_id, email, password_hash, name, role, phone, city, hospital_name, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	now := time.Now().Format("2006-01-02")
	p.CreatedOn = now
	p.UpdatedOn = now

	var phone, hospitalName interface{}
	if p.Phone != nil {
		phone = *p.Phone
	}
	if p.HospitalName != nil {
		hospitalName = *p.HospitalName
	}

	_, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Email, p.PasswordHash, p.Name, p.Role,
		phone, p.City, hospitalName, p.CreatedOn, p.UpdatedOn)
	return err
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := profileSelect + ` WHERE LOWER(email) = LOWER($1)`
	return scanProfile(r.db.QueryRowContext(ctx, query, email))
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := profileSelect + ` WHERE user_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

const profileSelect = `SELECT id, user_id, email, password_hash, name, role, phone, city, hospital_name, created_on, updated_on FROM profiles`

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	var phone, hospitalName sql.NullString
	var createdOn, updatedOn time.Time

	err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.PasswordHash, &p.Name, &p.Role,
		&phone, &p.City, &hospitalName, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		p.Phone = &phone.String
	}
	if hospitalName.Valid {
		p.HospitalName = &hospitalName.String
	}
	p.CreatedOn = createdOn.Format("2006-01-02")
	p.UpdatedOn = updatedOn.Format("2006-01-02")
	return p, nil
}
