package models

import "time"

// Profile lifecycle statuses. Once approved, the profile is read-only for
// its owner; only admins may still edit it.
const (
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// RichTextLimit caps the plain-text length of summary, why_win and how_help.
const RichTextLimit = 300

type Profile struct {
	ID               int      `gorm:"primaryKey" json:"id"`
	OrganizationName string   `gorm:"not null" json:"organization_name"`
	Country          string   `json:"country"`
	CategoryID       int      `json:"category_id"`
	Category         Category `gorm:"foreignKey:CategoryID" json:"category"`

	Summary string `json:"summary"`
	WhyWin  string `json:"why_win"`
	HowHelp string `json:"how_help"`

	WebsiteURL      string `json:"website_url"`
	FounderVideoURL string `json:"founder_video_url"`
	SocialLinks     string `json:"social_links"` // JSON object, platform name -> URL

	LogoPath      string `json:"logo"`
	PitchDeckPath string `json:"pitch_deck"`

	Status          string `gorm:"default:draft" json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`

	UserID int  `gorm:"uniqueIndex" json:"user_id"` // one profile per submitter
	User   User `gorm:"foreignKey:UserID" json:"user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Editable reports whether the owner may still change the submission.
func (p *Profile) Editable() bool {
	return p.Status != StatusApproved
}

// Reviewable reports whether an admin decision (approve/reject) applies.
func (p *Profile) Reviewable() bool {
	return p.Status != StatusApproved
}

type RejectProfileRequest struct {
	Reason string `json:"reason"`
}

type AssignProfileRequest struct {
	UserID int `json:"user_id" binding:"required"`
}
