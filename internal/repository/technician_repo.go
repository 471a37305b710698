package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

// TechnicianRepository defines methods for accessing technician rows.
type TechnicianRepository interface {
	ListTechnicians(ctx context.Context, userID string) ([]model.Technician, error)
	GetTechnician(ctx context.Context, userID, id string) (*model.Technician, error)
	CreateTechnician(ctx context.Context, t *model.Technician) error
	UpdateTechnician(ctx context.Context, t *model.Technician) error
	DeleteTechnician(ctx context.Context, userID, id string) error
	CountTechnicians(ctx context.Context, userID string) (int, error)
	CountActiveTechnicians(ctx context.Context, userID string) (int, error)
	DeleteTechniciansForUser(ctx context.Context, userID string) (int64, error)
}

type technicianRepo struct {
	db *sql.DB
}

// NewTechnicianRepo creates a new TechnicianRepository.
func NewTechnicianRepo(db *sql.DB) TechnicianRepository {
	return &technicianRepo{db: db}
}

const technicianColumns = `id, user_id, name, email, phone, status, created_at, updated_at`

func (r *technicianRepo) ListTechnicians(ctx context.Context, userID string) ([]model.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list technicians for user %s: %w", userID, err)
	}
	defer rows.Close()

	var techs []model.Technician
	for rows.Next() {
		var t model.Technician
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Email, &t.Phone, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		techs = append(techs, t)
	}
	return techs, rows.Err()
}

func (r *technicianRepo) GetTechnician(ctx context.Context, userID, id string) (*model.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE user_id = $1 AND id = $2`
	var t model.Technician
	err := r.db.QueryRowContext(ctx, query, userID, id).
		Scan(&t.ID, &t.UserID, &t.Name, &t.Email, &t.Phone, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *technicianRepo) CreateTechnician(ctx context.Context, t *model.Technician) error {
	query := `INSERT INTO technicians (user_id, name, email, phone, status)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, t.UserID, t.Name, t.Email, t.Phone, t.Status).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create technician for user %s: %w", t.UserID, err)
	}
	return nil
}

func (r *technicianRepo) UpdateTechnician(ctx context.Context, t *model.Technician) error {
	query := `UPDATE technicians SET name = $3, email = $4, phone = $5, status = $6, updated_at = NOW()
              WHERE user_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, t.UserID, t.ID, t.Name, t.Email, t.Phone, t.Status)
	if err != nil {
		return fmt.Errorf("update technician %s: %w", t.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *technicianRepo) DeleteTechnician(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM technicians WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete technician %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *technicianRepo) CountTechnicians(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM technicians WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count technicians for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *technicianRepo) CountActiveTechnicians(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM technicians WHERE user_id = $1 AND status = 'active'`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active technicians for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *technicianRepo) DeleteTechniciansForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM technicians WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete technicians for user %s: %w", userID, err)
	}
	return res.RowsAffected()
}
