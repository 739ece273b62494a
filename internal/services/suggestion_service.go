package services

import (
	"context"
	"fmt"
	"time"

	"github.com/oakhollow/spotlight/internal/models"
)

type SuggestionRepository interface {
	FindByID(suggestionID uint) (models.AiSuggestion, error)
	ListBySubmission(submissionID uint) ([]models.AiSuggestion, error)
	Create(suggestion *models.AiSuggestion) error
	UpdateDecision(suggestionID uint, decision string) error
}

type SuggestionSubmissionStore interface {
	FindByID(submissionID uint) (models.Submission, error)
	LoadFields(submissionID uint) (map[string]string, error)
	UpsertFields(submissionID uint, fields map[string]string) error
}

// SuggestionService requests AI rewrites for single submission fields and
// keeps the proposal history. A gateway failure never blocks the submission
// lifecycle; the caller simply proceeds without a suggestion.
type SuggestionService struct {
	suggestions SuggestionRepository
	submissions SuggestionSubmissionStore
	gateway     SuggestionGateway
	schema      FormSchema
	timeout     time.Duration
}

func NewSuggestionService(suggestions SuggestionRepository, submissions SuggestionSubmissionStore, gateway SuggestionGateway, schema FormSchema) *SuggestionService {
	return &SuggestionService{
		suggestions: suggestions,
		submissions: submissions,
		gateway:     gateway,
		schema:      schema,
		timeout:     45 * time.Second,
	}
}

// Request asks the gateway for a rewrite of one field and stores the proposal
// as pending. Returns ErrUpstreamUnavailable (wrapped) on gateway failure.
func (service *SuggestionService) Request(ctx context.Context, submissionID uint, fieldName string) (models.AiSuggestion, error) {
	submission, err := service.submissions.FindByID(submissionID)
	if err != nil {
		return models.AiSuggestion{}, err
	}

	fields, err := service.submissions.LoadFields(submissionID)
	if err != nil {
		return models.AiSuggestion{}, err
	}
	original := fields[fieldName]

	label := fieldName
	if descriptor, ok := service.schema.Descriptor(fieldName); ok {
		label = descriptor.Label
	}
	prompt := fmt.Sprintf(DefaultPromptTemplate, label, submission.ProjectName, original)

	callCtx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	suggested, err := service.gateway.Suggest(callCtx, prompt)
	if err != nil {
		return models.AiSuggestion{}, err
	}

	suggestion := models.AiSuggestion{
		SubmissionID:     submissionID,
		FieldName:        fieldName,
		OriginalContent:  original,
		SuggestedContent: suggested,
		Decision:         models.SuggestionPending,
	}
	if err := service.suggestions.Create(&suggestion); err != nil {
		return models.AiSuggestion{}, err
	}
	return suggestion, nil
}

// Accept records the decision and copies the suggested text into the
// submission field. The submission must still be a draft; the user still has
// to save/submit explicitly afterwards.
func (service *SuggestionService) Accept(suggestionID uint) (models.AiSuggestion, error) {
	suggestion, err := service.suggestions.FindByID(suggestionID)
	if err != nil {
		return models.AiSuggestion{}, err
	}
	if suggestion.Decision != models.SuggestionPending {
		return models.AiSuggestion{}, fmt.Errorf("accept %s suggestion %d: %w",
			suggestion.Decision, suggestionID, ErrInvalidState)
	}

	submission, err := service.submissions.FindByID(suggestion.SubmissionID)
	if err != nil {
		return models.AiSuggestion{}, err
	}
	if submission.Status != models.SubmissionDraft {
		return models.AiSuggestion{}, fmt.Errorf("apply suggestion to %s submission %d: %w",
			submission.Status, submission.ID, ErrInvalidState)
	}

	if err := service.submissions.UpsertFields(suggestion.SubmissionID, map[string]string{
		suggestion.FieldName: suggestion.SuggestedContent,
	}); err != nil {
		return models.AiSuggestion{}, err
	}
	if err := service.suggestions.UpdateDecision(suggestionID, models.SuggestionAccepted); err != nil {
		return models.AiSuggestion{}, err
	}
	suggestion.Decision = models.SuggestionAccepted
	return suggestion, nil
}

// Reject flips the decision without touching the submission content.
func (service *SuggestionService) Reject(suggestionID uint) (models.AiSuggestion, error) {
	suggestion, err := service.suggestions.FindByID(suggestionID)
	if err != nil {
		return models.AiSuggestion{}, err
	}
	if suggestion.Decision != models.SuggestionPending {
		return models.AiSuggestion{}, fmt.Errorf("reject %s suggestion %d: %w",
			suggestion.Decision, suggestionID, ErrInvalidState)
	}
	if err := service.suggestions.UpdateDecision(suggestionID, models.SuggestionRejected); err != nil {
		return models.AiSuggestion{}, err
	}
	suggestion.Decision = models.SuggestionRejected
	return suggestion, nil
}

func (service *SuggestionService) Find(suggestionID uint) (models.AiSuggestion, error) {
	return service.suggestions.FindByID(suggestionID)
}

// History lists a submission's suggestions, newest first.
func (service *SuggestionService) History(submissionID uint) ([]models.AiSuggestion, error) {
	return service.suggestions.ListBySubmission(submissionID)
}

// Latest surfaces the most recent suggestion, which is what the form shows.
func (service *SuggestionService) Latest(submissionID uint) (models.AiSuggestion, bool, error) {
	suggestions, err := service.suggestions.ListBySubmission(submissionID)
	if err != nil {
		return models.AiSuggestion{}, false, err
	}
	if len(suggestions) == 0 {
		return models.AiSuggestion{}, false, nil
	}
	return suggestions[0], true, nil
}
