package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taprate/backend/internal/model"
)

// ErrEntryAlreadyWon is returned when the winner flip matched no row,
// meaning a concurrent invocation already marked the entry.
var ErrEntryAlreadyWon = errors.New("entry already marked as winner")

// EntryRepository handles lottery entry data operations
type EntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// ListEligible returns a company's entries that have not won yet, oldest
// first.
func (r *EntryRepository) ListEligible(ctx context.Context, companyID string) ([]model.Entry, error) {
	query := `
		SELECT id, company_id, email, phone, is_winner, won_at, created_at
		FROM entries
		WHERE company_id = $1 AND is_winner = FALSE
		ORDER BY created_at ASC
	`

	var entries []model.Entry
	if err := r.db.SelectContext(ctx, &entries, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to query eligible entries: %w", err)
	}

	return entries, nil
}

// MarkWinner flips an entry's winner flag. The is_winner predicate keeps
// a concurrent duplicate draw from double-winning the same entry.
func (r *EntryRepository) MarkWinner(ctx context.Context, entryID string, wonAt time.Time) error {
	query := `
		UPDATE entries
		SET is_winner = TRUE, won_at = $1
		WHERE id = $2 AND is_winner = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, wonAt, entryID)
	if err != nil {
		return fmt.Errorf("failed to mark entry as winner: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEntryAlreadyWon
	}

	return nil
}
