package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oakhollow/spotlight/internal/models"
)

type PublishPublicationStore interface {
	FindByID(publicationID uint) (models.Publication, error)
	EnsureSendKey(publicationID uint, sendKey string) (string, error)
	MarkPublished(publicationID uint, publishedAt time.Time) error
}

type PublishSubmissionStore interface {
	ListByPublication(publicationID uint, statusFilter string) ([]models.Submission, error)
	LoadFields(submissionID uint) (map[string]string, error)
}

// SpotlightEntry is one approved submission prepared for rendering: field
// values resolved against the form schema, in schema order.
type SpotlightEntry struct {
	ProjectName string
	Fields      []SpotlightFieldValue
}

type SpotlightFieldValue struct {
	Label string
	Value string
}

// EmailRenderer produces the publication email body from the approved entries.
type EmailRenderer interface {
	Render(publicationName string, entries []SpotlightEntry) (string, error)
}

// NotificationGateway delivers the rendered email. One attempt per call; retry
// policy belongs to the publish caller.
type NotificationGateway interface {
	Send(subject string, htmlBody string, recipients []string, sendKey string) error
}

// PublishService composes the cycle manager, the lifecycle controller's reads,
// the renderer, and the notification gateway into the publish action.
type PublishService struct {
	publications PublishPublicationStore
	submissions  PublishSubmissionStore
	renderer     EmailRenderer
	notifier     NotificationGateway
	schema       FormSchema
}

func NewPublishService(publications PublishPublicationStore, submissions PublishSubmissionStore, renderer EmailRenderer, notifier NotificationGateway, schema FormSchema) *PublishService {
	return &PublishService{
		publications: publications,
		submissions:  submissions,
		renderer:     renderer,
		notifier:     notifier,
		schema:       schema,
	}
}

// Publish sends the approved submissions of an under-review publication to the
// recipient list and marks the publication published on success. The send key
// is persisted before the attempt so a retry after a lost acknowledgment
// reuses the same key and dedup-aware relays can drop the duplicate.
func (service *PublishService) Publish(publicationID uint, recipients []string) (models.Publication, error) {
	publication, err := service.publications.FindByID(publicationID)
	if err != nil {
		return models.Publication{}, err
	}
	if publication.Status != models.PublicationUnderReview {
		return models.Publication{}, fmt.Errorf("publish publication %d (%s): %w",
			publicationID, publication.Status, ErrInvalidState)
	}

	approved, err := service.submissions.ListByPublication(publicationID, models.SubmissionApproved)
	if err != nil {
		return models.Publication{}, err
	}
	if len(approved) == 0 {
		return models.Publication{}, fmt.Errorf("publish publication %d: %w", publicationID, ErrNothingToPublish)
	}

	entries := make([]SpotlightEntry, 0, len(approved))
	for _, submission := range approved {
		entry, err := service.buildEntry(submission)
		if err != nil {
			return models.Publication{}, err
		}
		entries = append(entries, entry)
	}

	htmlBody, err := service.renderer.Render(publication.DisplayName(), entries)
	if err != nil {
		return models.Publication{}, fmt.Errorf("render publication %d email: %w", publicationID, err)
	}

	sendKey, err := service.publications.EnsureSendKey(publicationID, uuid.NewString())
	if err != nil {
		return models.Publication{}, err
	}

	subject := fmt.Sprintf("%s - Organizational Spotlight", publication.DisplayName())
	if err := service.notifier.Send(subject, htmlBody, recipients, sendKey); err != nil {
		log.Printf("publication %d email send failed: %v", publicationID, err)
		return models.Publication{}, fmt.Errorf("send publication %d email: %v: %w",
			publicationID, err, ErrUpstreamUnavailable)
	}

	publishedAt := time.Now()
	if err := service.publications.MarkPublished(publicationID, publishedAt); err != nil {
		return models.Publication{}, err
	}
	publication.Status = models.PublicationPublished
	publication.PublishedAt = &publishedAt
	publication.SendKey = sendKey
	return publication, nil
}

func (service *PublishService) buildEntry(submission models.Submission) (SpotlightEntry, error) {
	fields, err := service.submissions.LoadFields(submission.ID)
	if err != nil {
		return SpotlightEntry{}, err
	}

	entry := SpotlightEntry{ProjectName: submission.ProjectName}
	for _, descriptor := range service.schema.Fields {
		value := strings.TrimSpace(fields[descriptor.Name])
		if value == "" {
			continue
		}
		entry.Fields = append(entry.Fields, SpotlightFieldValue{
			Label: descriptor.Label,
			Value: value,
		})
	}
	return entry, nil
}
