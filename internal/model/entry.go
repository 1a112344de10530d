package model

import (
	"time"
)

// Entry represents one lottery-eligible review submission. Entries are
// created by the review-submission flow; this service only ever flips
// the winner flag.
type Entry struct {
	ID        string     `db:"id" json:"id"`
	CompanyID string     `db:"company_id" json:"company_id"`
	Email     *string    `db:"email" json:"email,omitempty"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	IsWinner  bool       `db:"is_winner" json:"is_winner"`
	WonAt     *time.Time `db:"won_at" json:"won_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
