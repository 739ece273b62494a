package services

import (
	"fmt"
	"time"

	"github.com/oakhollow/spotlight/internal/models"
)

type SubmissionRepository interface {
	FindByID(submissionID uint) (models.Submission, error)
	ListByPublication(publicationID uint, statusFilter string) ([]models.Submission, error)
	ListByUser(userID uint) ([]models.Submission, error)
	Create(submission *models.Submission) error
	UpsertFields(submissionID uint, fields map[string]string) error
	LoadFields(submissionID uint) (map[string]string, error)
	MarkSubmitted(submissionID uint, at time.Time) error
	MarkReviewed(submissionID uint, status string, reviewerID uint, feedback string, at time.Time) error
	ReturnToSubmitted(submissionID uint, at time.Time) error
}

type SubmissionPublicationLookup interface {
	FindByID(publicationID uint) (models.Publication, error)
}

// SubmissionService is the submission lifecycle controller. Every mutation
// goes through a transition check; the caller is trusted to have resolved the
// acting user's role already.
type SubmissionService struct {
	submissions  SubmissionRepository
	publications SubmissionPublicationLookup
	schema       FormSchema
}

func NewSubmissionService(submissions SubmissionRepository, publications SubmissionPublicationLookup, schema FormSchema) *SubmissionService {
	return &SubmissionService{
		submissions:  submissions,
		publications: publications,
		schema:       schema,
	}
}

func (service *SubmissionService) Schema() FormSchema {
	return service.schema
}

// CreateDraft opens a new draft for the user inside an open publication.
func (service *SubmissionService) CreateDraft(userID uint, publicationID uint, projectName string) (models.Submission, error) {
	publication, err := service.publications.FindByID(publicationID)
	if err != nil {
		return models.Submission{}, err
	}
	if publication.Status != models.PublicationOpen {
		return models.Submission{}, fmt.Errorf("create draft in publication %d (%s): %w",
			publicationID, publication.Status, ErrPublicationClosed)
	}

	submission := models.Submission{
		PublicationID: publicationID,
		UserID:        userID,
		ProjectName:   projectName,
		Status:        models.SubmissionDraft,
	}
	if err := service.submissions.Create(&submission); err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

// UpdateFields overwrites the named field rows and preserves any existing
// field the map does not mention. Only drafts are editable.
func (service *SubmissionService) UpdateFields(submissionID uint, fields map[string]string) error {
	submission, err := service.submissions.FindByID(submissionID)
	if err != nil {
		return err
	}
	if submission.Status != models.SubmissionDraft {
		return fmt.Errorf("update fields of %s submission %d: %w",
			submission.Status, submissionID, ErrInvalidState)
	}
	if len(fields) == 0 {
		return nil
	}
	return service.submissions.UpsertFields(submissionID, fields)
}

// Submit transitions draft -> submitted after the stored fields pass the form
// schema and the owning publication is still open.
func (service *SubmissionService) Submit(submissionID uint) (models.Submission, error) {
	submission, err := service.submissions.FindByID(submissionID)
	if err != nil {
		return models.Submission{}, err
	}
	if submission.Status != models.SubmissionDraft {
		return models.Submission{}, fmt.Errorf("submit %s submission %d: %w",
			submission.Status, submissionID, ErrInvalidState)
	}

	publication, err := service.publications.FindByID(submission.PublicationID)
	if err != nil {
		return models.Submission{}, err
	}
	if publication.Status != models.PublicationOpen {
		return models.Submission{}, fmt.Errorf("submit into publication %d (%s): %w",
			publication.ID, publication.Status, ErrPublicationClosed)
	}

	fields, err := service.submissions.LoadFields(submissionID)
	if err != nil {
		return models.Submission{}, err
	}
	if err := service.schema.Validate(fields); err != nil {
		return models.Submission{}, err
	}

	now := time.Now()
	if err := service.submissions.MarkSubmitted(submissionID, now); err != nil {
		return models.Submission{}, err
	}
	submission.Status = models.SubmissionSubmitted
	submission.SubmittedAt = &now
	submission.UpdatedAt = now
	return submission, nil
}

// Review transitions submitted -> approved or rejected, recording the reviewer
// and timestamp. Re-applying a decision to an already reviewed submission
// fails rather than silently succeeding.
func (service *SubmissionService) Review(submissionID uint, approve bool, reviewerID uint, feedback string) (models.Submission, error) {
	submission, err := service.submissions.FindByID(submissionID)
	if err != nil {
		return models.Submission{}, err
	}
	if submission.Status != models.SubmissionSubmitted {
		return models.Submission{}, fmt.Errorf("review %s submission %d: %w",
			submission.Status, submissionID, ErrInvalidState)
	}

	status := models.SubmissionRejected
	if approve {
		status = models.SubmissionApproved
	}

	now := time.Now()
	if err := service.submissions.MarkReviewed(submissionID, status, reviewerID, feedback, now); err != nil {
		return models.Submission{}, err
	}
	submission.Status = status
	submission.ReviewedBy = &reviewerID
	submission.ReviewedAt = &now
	submission.Feedback = feedback
	submission.UpdatedAt = now
	return submission, nil
}

// ReReview sends an approved or rejected submission back to the review queue.
// Once the publication is published the decision is final.
func (service *SubmissionService) ReReview(submissionID uint) (models.Submission, error) {
	submission, err := service.submissions.FindByID(submissionID)
	if err != nil {
		return models.Submission{}, err
	}
	if submission.Status != models.SubmissionApproved && submission.Status != models.SubmissionRejected {
		return models.Submission{}, fmt.Errorf("re-review %s submission %d: %w",
			submission.Status, submissionID, ErrInvalidState)
	}

	publication, err := service.publications.FindByID(submission.PublicationID)
	if err != nil {
		return models.Submission{}, err
	}
	if publication.Status == models.PublicationPublished {
		return models.Submission{}, fmt.Errorf("re-review in published publication %d: %w",
			publication.ID, ErrPublicationClosed)
	}

	now := time.Now()
	if err := service.submissions.ReturnToSubmitted(submissionID, now); err != nil {
		return models.Submission{}, err
	}
	submission.Status = models.SubmissionSubmitted
	submission.ReviewedBy = nil
	submission.ReviewedAt = nil
	submission.Feedback = ""
	submission.UpdatedAt = now
	return submission, nil
}

func (service *SubmissionService) FindByID(submissionID uint) (models.Submission, error) {
	return service.submissions.FindByID(submissionID)
}

func (service *SubmissionService) Fields(submissionID uint) (map[string]string, error) {
	return service.submissions.LoadFields(submissionID)
}

// ListForPublication returns a publication's submissions ordered by creation
// time ascending, optionally filtered by status.
func (service *SubmissionService) ListForPublication(publicationID uint, statusFilter string) ([]models.Submission, error) {
	return service.submissions.ListByPublication(publicationID, statusFilter)
}

func (service *SubmissionService) ListForUser(userID uint) ([]models.Submission, error) {
	return service.submissions.ListByUser(userID)
}
