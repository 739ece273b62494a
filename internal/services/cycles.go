package services

import (
	"fmt"
	"time"

	"github.com/oakhollow/spotlight/internal/models"
)

type CycleRepository interface {
	FindByID(publicationID uint) (models.Publication, error)
	FindByTriple(year int, month int, period string) (models.Publication, bool, error)
	ListByYear(year int) ([]models.Publication, error)
	ListAll() ([]models.Publication, error)
	ListOpenFrom(year int, month int) ([]models.Publication, error)
	CreateMissing(publications []models.Publication) ([]models.Publication, error)
	UpdateStatus(publicationID uint, status string) error
}

type CycleSubmissionCounter interface {
	CountByPublicationAndStatus(publicationID uint) (map[string]int, error)
}

// CycleService owns the bi-monthly publication calendar: 24 half-month cycles
// per year, each advancing open -> under_review -> published, never backward.
type CycleService struct {
	publications CycleRepository
	submissions  CycleSubmissionCounter
}

func NewCycleService(publications CycleRepository, submissions CycleSubmissionCounter) *CycleService {
	return &CycleService{
		publications: publications,
		submissions:  submissions,
	}
}

// PeriodRange returns the inclusive window of one publication period:
// days 1-15 for the first half, day 16 through end of month for the second.
func PeriodRange(year int, month time.Month, period string, location *time.Location) (time.Time, time.Time) {
	if location == nil {
		location = time.UTC
	}
	if period == models.PeriodFirstHalf {
		start := time.Date(year, month, 1, 0, 0, 0, 0, location)
		end := time.Date(year, month, 15, 23, 59, 59, 0, location)
		return start, end
	}

	start := time.Date(year, month, 16, 0, 0, 0, 0, location)
	end := time.Date(year, month+1, 1, 0, 0, 0, 0, location).Add(-time.Second)
	return start, end
}

// PeriodForDay maps a calendar day onto its half-month period.
func PeriodForDay(day time.Time) string {
	if day.Day() <= 15 {
		return models.PeriodFirstHalf
	}
	return models.PeriodSecondHalf
}

// GenerateCycles creates the 24 publications of the given year, skipping any
// (year, month, period) triple that already exists. Calling it twice for the
// same year is a no-op on the second call.
func (service *CycleService) GenerateCycles(year int) ([]models.Publication, error) {
	candidates := make([]models.Publication, 0, 24)
	for month := 1; month <= 12; month++ {
		for _, period := range []string{models.PeriodFirstHalf, models.PeriodSecondHalf} {
			candidates = append(candidates, models.Publication{
				Year:   year,
				Month:  month,
				Period: period,
				Status: models.PublicationOpen,
			})
		}
	}

	created, err := service.publications.CreateMissing(candidates)
	if err != nil {
		return nil, fmt.Errorf("generate cycles for %d: %w", year, err)
	}
	return created, nil
}

// EnsureCurrentYear generates the current year's cycles if none exist yet.
func (service *CycleService) EnsureCurrentYear(now time.Time) error {
	existing, err := service.publications.ListByYear(now.Year())
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = service.GenerateCycles(now.Year())
	return err
}

// CurrentOpen returns the publication whose window contains today and whose
// status is still open. There is no fallback: once the matching publication
// has advanced past open, nothing is returned.
func (service *CycleService) CurrentOpen(now time.Time) (models.Publication, bool, error) {
	publication, found, err := service.publications.FindByTriple(now.Year(), int(now.Month()), PeriodForDay(now))
	if err != nil {
		return models.Publication{}, false, err
	}
	if !found || publication.Status != models.PublicationOpen {
		return models.Publication{}, false, nil
	}
	return publication, true, nil
}

// Advance moves a publication forward exactly one step.
func (service *CycleService) Advance(publicationID uint) (models.Publication, error) {
	publication, err := service.publications.FindByID(publicationID)
	if err != nil {
		return models.Publication{}, err
	}

	var next string
	switch publication.Status {
	case models.PublicationOpen:
		next = models.PublicationUnderReview
	case models.PublicationUnderReview:
		next = models.PublicationPublished
	default:
		return models.Publication{}, fmt.Errorf("advance publication %d from %q: %w",
			publicationID, publication.Status, ErrInvalidTransition)
	}

	if err := service.publications.UpdateStatus(publicationID, next); err != nil {
		return models.Publication{}, err
	}
	publication.Status = next
	return publication, nil
}

func (service *CycleService) FindByID(publicationID uint) (models.Publication, error) {
	return service.publications.FindByID(publicationID)
}

func (service *CycleService) ListByYear(year int) ([]models.Publication, error) {
	return service.publications.ListByYear(year)
}

func (service *CycleService) ListAll() ([]models.Publication, error) {
	return service.publications.ListAll()
}

// Upcoming lists open publications whose month is the current one or later.
func (service *CycleService) Upcoming(now time.Time, limit int) ([]models.Publication, error) {
	publications, err := service.publications.ListOpenFrom(now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(publications) > limit {
		publications = publications[:limit]
	}
	return publications, nil
}

// PublicationStats counts a publication's submissions by lifecycle status.
type PublicationStats struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Submitted int `json:"submitted"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
}

func (service *CycleService) Stats(publicationID uint) (PublicationStats, error) {
	counts, err := service.submissions.CountByPublicationAndStatus(publicationID)
	if err != nil {
		return PublicationStats{}, err
	}

	stats := PublicationStats{
		Draft:     counts[models.SubmissionDraft],
		Submitted: counts[models.SubmissionSubmitted],
		Approved:  counts[models.SubmissionApproved],
		Rejected:  counts[models.SubmissionRejected],
	}
	stats.Total = stats.Draft + stats.Submitted + stats.Approved + stats.Rejected
	return stats, nil
}

// ReadyToPublish reports whether a publication has at least one approved
// submission and no drafts or pending reviews left.
func (service *CycleService) ReadyToPublish(publicationID uint) (bool, error) {
	stats, err := service.Stats(publicationID)
	if err != nil {
		return false, err
	}
	if stats.Approved == 0 {
		return false, nil
	}
	return stats.Draft == 0 && stats.Submitted == 0, nil
}
