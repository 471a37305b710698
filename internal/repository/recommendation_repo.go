package repository

import (
	"context"
	"database/sql"
	"fmt"

	"app/internal/model"
)

// RecommendationRepository defines methods for accessing insight rows.
type RecommendationRepository interface {
	ListRecommendations(ctx context.Context, userID string) ([]model.Recommendation, error)
	CreateRecommendation(ctx context.Context, rec *model.Recommendation) error
	UpdateRecommendation(ctx context.Context, rec *model.Recommendation) error
	// SetDismissed flips only the dismissed flag, leaving the stored text
	// untouched.
	SetDismissed(ctx context.Context, userID, id string, dismissed bool) error
	DeleteRecommendation(ctx context.Context, userID, id string) error
	DeleteRecommendationsForUser(ctx context.Context, userID string) (int64, error)
}

type recommendationRepo struct {
	db *sql.DB
}

// NewRecommendationRepo creates a new RecommendationRepository.
func NewRecommendationRepo(db *sql.DB) RecommendationRepository {
	return &recommendationRepo{db: db}
}

func (r *recommendationRepo) ListRecommendations(ctx context.Context, userID string) ([]model.Recommendation, error) {
	query := `SELECT id, user_id, title, body, category, dismissed, created_at, updated_at
              FROM recommendations WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations for user %s: %w", userID, err)
	}
	defer rows.Close()

	var recs []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Body, &rec.Category,
			&rec.Dismissed, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *recommendationRepo) CreateRecommendation(ctx context.Context, rec *model.Recommendation) error {
	query := `INSERT INTO recommendations (user_id, title, body, category)
              VALUES ($1, $2, $3, $4)
              RETURNING id, dismissed, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, rec.UserID, rec.Title, rec.Body, rec.Category).
		Scan(&rec.ID, &rec.Dismissed, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create recommendation for user %s: %w", rec.UserID, err)
	}
	return nil
}

func (r *recommendationRepo) UpdateRecommendation(ctx context.Context, rec *model.Recommendation) error {
	query := `UPDATE recommendations SET title = $3, body = $4, category = $5, dismissed = $6, updated_at = NOW()
              WHERE user_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, rec.UserID, rec.ID, rec.Title, rec.Body, rec.Category, rec.Dismissed)
	if err != nil {
		return fmt.Errorf("update recommendation %s: %w", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *recommendationRepo) SetDismissed(ctx context.Context, userID, id string, dismissed bool) error {
	query := `UPDATE recommendations SET dismissed = $3, updated_at = NOW()
              WHERE user_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, id, dismissed)
	if err != nil {
		return fmt.Errorf("set dismissed on recommendation %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *recommendationRepo) DeleteRecommendation(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recommendations WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete recommendation %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *recommendationRepo) DeleteRecommendationsForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recommendations WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete recommendations for user %s: %w", userID, err)
	}
	return res.RowsAffected()
}
