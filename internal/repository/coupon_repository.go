package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taprate/backend/internal/model"
)

// ErrNoAvailableCoupons is returned when a company's pre-generated pool
// is exhausted.
var ErrNoAvailableCoupons = errors.New("no available coupons")

// DBExecutor interface for database operations (can be *sqlx.DB or *sqlx.Tx)
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// CouponRepository handles coupon data operations
type CouponRepository struct {
	// DB-only repository - all state lives in Postgres
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

// ReserveAvailableCoupon finds and reserves an available coupon using SELECT FOR UPDATE
func (r *CouponRepository) ReserveAvailableCoupon(ctx context.Context, tx *sqlx.Tx, companyID string) (string, error) {
	query := `
		SELECT code
		FROM coupons
		WHERE company_id = $1 AND status = 'available'
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var code string
	if err := tx.GetContext(ctx, &code, query, companyID); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNoAvailableCoupons
		}
		return "", fmt.Errorf("failed to reserve coupon: %w", err)
	}

	return code, nil
}

// MarkCouponAsIssued updates coupon status from 'available' to 'issued'
func (r *CouponRepository) MarkCouponAsIssued(ctx context.Context, db DBExecutor, code string) error {
	query := `
		UPDATE coupons
		SET status = 'issued', issued_at = $1
		WHERE code = $2 AND status = 'available'
	`

	result, err := db.ExecContext(ctx, query, time.Now(), code)
	if err != nil {
		return fmt.Errorf("failed to mark coupon as issued: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("coupon not found or already issued")
	}

	return nil
}

// ListIssuedCodes returns the codes already handed out for a company,
// in issuance order.
func (r *CouponRepository) ListIssuedCodes(ctx context.Context, db DBExecutor, companyID string) ([]string, error) {
	query := `
		SELECT code
		FROM coupons
		WHERE company_id = $1 AND status = 'issued'
		ORDER BY issued_at ASC
	`

	var codes []string
	if err := db.SelectContext(ctx, &codes, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list issued coupon codes: %w", err)
	}

	return codes, nil
}

// CountAvailable returns how many unissued codes a company has left.
func (r *CouponRepository) CountAvailable(ctx context.Context, db DBExecutor, companyID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM coupons
		WHERE company_id = $1 AND status = 'available'
	`

	var count int
	if err := db.GetContext(ctx, &count, query, companyID); err != nil {
		return 0, fmt.Errorf("failed to count available coupons: %w", err)
	}

	return count, nil
}

// CreatePregeneratedCoupons creates multiple coupons in batch within existing transaction
func (r *CouponRepository) CreatePregeneratedCoupons(ctx context.Context, tx *sqlx.Tx, companyID string, codes []string) error {
	now := time.Now()

	// Batch size keeps each statement under the Postgres parameter limit.
	batchSize := 1000

	for i := 0; i < len(codes); i += batchSize {
		end := i + batchSize
		if end > len(codes) {
			end = len(codes)
		}

		if err := r.insertCouponBatch(ctx, tx, companyID, codes[i:end], now); err != nil {
			return fmt.Errorf("failed to insert coupon batch: %w", err)
		}
	}

	return nil
}

// insertCouponBatch inserts a batch of coupons using a single query
func (r *CouponRepository) insertCouponBatch(ctx context.Context, tx *sqlx.Tx, companyID string, codes []string, createdAt time.Time) error {
	if len(codes) == 0 {
		return nil
	}

	valuesClause := make([]string, len(codes))
	args := make([]interface{}, 0, len(codes)*4)

	for i, code := range codes {
		valuesClause[i] = fmt.Sprintf("($%d, $%d, $%d, $%d)",
			i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, code, companyID, model.CouponStatusAvailable, createdAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO coupons (code, company_id, status, created_at)
		VALUES %s
	`, strings.Join(valuesClause, ", "))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to execute batch insert: %w", err)
	}

	return nil
}
