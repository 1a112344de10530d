package service

import (
	"context"
	"crypto/aes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taprate/backend/internal/metrics"
	"github.com/taprate/backend/internal/model"
	"github.com/taprate/backend/internal/repository"
)

// ErrNotCouponMode is returned when a coupon operation targets a company
// that is not configured for immediate coupon rewards.
var ErrNotCouponMode = errors.New("company is not configured for coupon rewards")

// CouponService manages pre-generated reward codes for coupon-mode
// companies.
type CouponService struct {
	postgres    *sqlx.DB
	companyRepo *repository.CompanyRepository
	couponRepo  *repository.CouponRepository
}

// NewCouponService creates a new CouponService instance
func NewCouponService(postgres *sqlx.DB) *CouponService {
	return &CouponService{
		postgres:    postgres,
		companyRepo: repository.NewCompanyRepository(postgres),
		couponRepo:  repository.NewCouponRepository(),
	}
}

// GenerateCoupons pre-generates count codes for a coupon-mode company in
// one transaction. Codes are derived deterministically from the company
// and a running index, offset by the codes already present, so repeated
// generation never collides.
func (s *CouponService) GenerateCoupons(ctx context.Context, companyID string, count int) (int, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return 0, err
	}
	if company.RewardMode != model.RewardModeCoupon {
		return 0, ErrNotCouponMode
	}

	tx, err := s.postgres.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM coupons WHERE company_id = $1`, companyID); err != nil {
		return 0, fmt.Errorf("failed to count existing coupons: %w", err)
	}

	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		code, err := generateCouponCode(companyID, uint64(existing+i))
		if err != nil {
			return 0, fmt.Errorf("failed to generate coupon code: %w", err)
		}
		codes = append(codes, code)
	}

	if err := s.couponRepo.CreatePregeneratedCoupons(ctx, tx, companyID, codes); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(codes), nil
}

// IssueCoupon hands out one available code for a coupon-mode company.
// Reservation and the issued flip run in one transaction so concurrent
// requests never receive the same code.
func (s *CouponService) IssueCoupon(ctx context.Context, companyID string) (string, error) {
	start := time.Now()
	result := "failed"
	defer func() {
		metrics.RecordIssueCouponDuration(result, time.Since(start).Seconds())
	}()

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return "", err
	}
	if company.RewardMode != model.RewardModeCoupon {
		return "", ErrNotCouponMode
	}

	tx, err := s.postgres.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	code, err := s.couponRepo.ReserveAvailableCoupon(ctx, tx, companyID)
	if err != nil {
		return "", err
	}

	if err := s.couponRepo.MarkCouponAsIssued(ctx, tx, code); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	result = "success"

	return code, nil
}

// GetCompanyCoupons returns the company together with its issued codes
// and how many codes remain available.
func (s *CouponService) GetCompanyCoupons(ctx context.Context, companyID string) (*model.Company, []string, int, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, nil, 0, err
	}

	issued, err := s.couponRepo.ListIssuedCodes(ctx, s.postgres, companyID)
	if err != nil {
		return nil, nil, 0, err
	}

	available, err := s.couponRepo.CountAvailable(ctx, s.postgres, companyID)
	if err != nil {
		return nil, nil, 0, err
	}

	return company, issued, available, nil
}

// Coupon codes use a readable alphabet with ambiguous glyphs removed.
var (
	couponDigits  = []rune("23456789")
	couponLetters = []rune("ABCDEFGHJKMNPQRSTUVWXYZ")
)

// generateCouponCode derives a 10-character code from (company, index)
// by encrypting the pair with a per-company AES block. Determinism keeps
// same-index regeneration collision-free; encryption keeps consecutive
// codes from looking sequential.
//
// The code keeps only 10 of the 16 cipher bytes, so distinct indices
// can collide: the space is 8*23*31^8 (~1.6e14) codes, odds around
// 8e-6 for a 50k-code pool. A collision trips the coupons primary key
// and aborts the generation transaction, surfacing as an error to the
// admin rather than corrupting the pool.
func generateCouponCode(companyID string, index uint64) (string, error) {
	pool := append(append([]rune{}, couponDigits...), couponLetters...)
	base := uint64(len(pool))

	block, err := aes.NewCipher(companyKey(companyID))
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}

	// 128-bit plaintext: high 64 bits zero, low 64 bits the index.
	var plain [16]byte
	binary.BigEndian.PutUint64(plain[8:], index)

	var cipher [16]byte
	block.Encrypt(cipher[:], plain[:])

	// One digit and one letter up front, then an 8-character body from
	// the cipher tail.
	digit := couponDigits[cipher[0]%uint8(len(couponDigits))]
	letter := couponLetters[cipher[1]%uint8(len(couponLetters))]

	v := binary.BigEndian.Uint64(cipher[8:])
	body := make([]rune, 8)
	for i := 7; i >= 0; i-- {
		body[i] = pool[v%base]
		v /= base
	}

	return string([]rune{digit, letter}) + string(body), nil
}

// companyKey derives a fixed 16-byte AES key from the company id.
func companyKey(companyID string) []byte {
	h := fnv.New64a()
	h.Write([]byte(companyID))
	seed := h.Sum64()

	key := make([]byte, 16)
	for i := 0; i < 16; i++ {
		key[i] = byte((seed >> (i % 8)) ^ uint64(i*7))
	}
	return key
}
