package model

import (
	"time"
)

// Reward modes a company can be configured with.
const (
	RewardModeCoupon  = "coupon"
	RewardModeLottery = "lottery"
	RewardModeNone    = "none"
)

// Drawing frequencies for lottery-mode companies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Company represents a business account in the database.
// DrawingDay is a weekday (0=Sunday..6=Saturday) for weekly drawings
// and a day of month (1-31) for monthly drawings; it is ignored for
// daily drawings.
type Company struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	RewardMode       string     `db:"reward_mode" json:"reward_mode"`
	DrawingFrequency string     `db:"drawing_frequency" json:"drawing_frequency"`
	DrawingDay       int        `db:"drawing_day" json:"drawing_day"`
	NextDrawingAt    *time.Time `db:"next_drawing_at" json:"next_drawing_at"`
	LastDrawingAt    *time.Time `db:"last_drawing_at" json:"last_drawing_at"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
