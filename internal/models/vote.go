package models

import "time"

// Vote model - at most one active vote per (user, profile). The API never
// returns votes directly; clients only see votes_count and is_voted.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"uniqueIndex:idx_votes_user_profile" json:"user_id"`
	ProfileID int       `gorm:"uniqueIndex:idx_votes_user_profile" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}
