package models

import (
	"fmt"
	"time"
)

const (
	PeriodFirstHalf  = "first_half"
	PeriodSecondHalf = "second_half"
)

const (
	PublicationOpen        = "open"
	PublicationUnderReview = "under_review"
	PublicationPublished   = "published"
)

// Publication is one half-month submission-and-publish cycle. At most one row
// exists per (year, month, period) triple; the status only moves forward.
type Publication struct {
	ID          uint   `gorm:"primaryKey"`
	Year        int    `gorm:"not null;uniqueIndex:uidx_year_month_period"`
	Month       int    `gorm:"not null;uniqueIndex:uidx_year_month_period"`
	Period      string `gorm:"not null;uniqueIndex:uidx_year_month_period"`
	Status      string `gorm:"not null;default:open"`
	SendKey     string `gorm:"not null;default:''"`
	CreatedAt   time.Time
	PublishedAt *time.Time
}

func (publication *Publication) DisplayName() string {
	periodLabel := "First Half"
	if publication.Period == PeriodSecondHalf {
		periodLabel = "Second Half"
	}
	monthName := time.Month(publication.Month).String()
	return fmt.Sprintf("%s %s %d", periodLabel, monthName, publication.Year)
}
