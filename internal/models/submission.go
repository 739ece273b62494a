package models

import "time"

const (
	SubmissionDraft     = "draft"
	SubmissionSubmitted = "submitted"
	SubmissionApproved  = "approved"
	SubmissionRejected  = "rejected"
)

type Submission struct {
	ID            uint   `gorm:"primaryKey"`
	PublicationID uint   `gorm:"not null;index"`
	UserID        uint   `gorm:"not null;index"`
	ProjectName   string `gorm:"not null"`
	Status        string `gorm:"not null;default:draft"`
	Feedback      string `gorm:"not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SubmittedAt   *time.Time
	ReviewedBy    *uint
	ReviewedAt    *time.Time
}

// SubmissionField is one dynamic form value. Field names are unique within a
// submission; the allowed-name set lives in the externally supplied schema.
type SubmissionField struct {
	ID           uint   `gorm:"primaryKey"`
	SubmissionID uint   `gorm:"not null;uniqueIndex:uidx_submission_field"`
	Name         string `gorm:"not null;uniqueIndex:uidx_submission_field"`
	Value        string `gorm:"not null;default:''"`
	CreatedAt    time.Time
}
