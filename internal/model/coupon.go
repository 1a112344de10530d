package model

import (
	"time"
)

// Coupon statuses.
const (
	CouponStatusAvailable = "available"
	CouponStatusIssued    = "issued"
)

// Coupon represents a pre-generated reward code for a coupon-mode
// company.
type Coupon struct {
	Code      string     `db:"code" json:"code"`
	CompanyID string     `db:"company_id" json:"company_id"`
	Status    string     `db:"status" json:"status"`
	IssuedAt  *time.Time `db:"issued_at" json:"issued_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
