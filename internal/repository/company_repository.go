package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taprate/backend/internal/model"
)

// ErrCompanyNotFound is returned when a company id does not match a row
// with the expected reward mode.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepository handles company data operations
type CompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// FindDueLottery returns every lottery-mode company that has never been
// scheduled or whose next drawing time has passed.
func (r *CompanyRepository) FindDueLottery(ctx context.Context, now time.Time) ([]model.Company, error) {
	query := `
		SELECT id, name, reward_mode, drawing_frequency, drawing_day,
		       next_drawing_at, last_drawing_at, created_at, updated_at
		FROM companies
		WHERE reward_mode = $1
		  AND (next_drawing_at IS NULL OR next_drawing_at <= $2)
		ORDER BY name ASC
	`

	var companies []model.Company
	if err := r.db.SelectContext(ctx, &companies, query, model.RewardModeLottery, now); err != nil {
		return nil, fmt.Errorf("failed to query due lottery companies: %w", err)
	}

	return companies, nil
}

// FindLotteryByID returns the company with the given id if it is
// configured for lottery rewards.
func (r *CompanyRepository) FindLotteryByID(ctx context.Context, id string) (*model.Company, error) {
	query := `
		SELECT id, name, reward_mode, drawing_frequency, drawing_day,
		       next_drawing_at, last_drawing_at, created_at, updated_at
		FROM companies
		WHERE id = $1 AND reward_mode = $2
	`

	var company model.Company
	if err := r.db.GetContext(ctx, &company, query, id, model.RewardModeLottery); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// FindByID returns any company regardless of reward mode.
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*model.Company, error) {
	query := `
		SELECT id, name, reward_mode, drawing_frequency, drawing_day,
		       next_drawing_at, last_drawing_at, created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	var company model.Company
	if err := r.db.GetContext(ctx, &company, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// UpdateSchedule persists a company's drawing schedule. lastDrawingAt is
// only written when non-nil so a failed draw keeps the previous value.
func (r *CompanyRepository) UpdateSchedule(ctx context.Context, id string, nextDrawingAt time.Time, lastDrawingAt *time.Time) error {
	query := `
		UPDATE companies
		SET next_drawing_at = $2,
		    last_drawing_at = COALESCE($3, last_drawing_at),
		    updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, nextDrawingAt, lastDrawingAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update drawing schedule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCompanyNotFound
	}

	return nil
}
