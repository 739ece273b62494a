package models

import "time"

// Suggestion decisions form a three-variant enumeration so "not yet decided"
// is a first-class state rather than a nullable flag.
const (
	SuggestionPending  = "pending"
	SuggestionAccepted = "accepted"
	SuggestionRejected = "rejected"
)

type AiSuggestion struct {
	ID               uint   `gorm:"primaryKey"`
	SubmissionID     uint   `gorm:"not null;index"`
	FieldName        string `gorm:"not null"`
	OriginalContent  string `gorm:"not null;default:''"`
	SuggestedContent string `gorm:"not null;default:''"`
	Decision         string `gorm:"not null;default:pending"`
	CreatedAt        time.Time
}
