package services

import (
	"context"
	"sort"
	"time"

	"github.com/oakhollow/spotlight/internal/models"
	"gorm.io/gorm"
)

type publicationStoreStub struct {
	entries map[uint]models.Publication
	nextID  uint
}

func newPublicationStoreStub() *publicationStoreStub {
	return &publicationStoreStub{
		entries: make(map[uint]models.Publication),
		nextID:  1,
	}
}

func (stub *publicationStoreStub) add(publication models.Publication) models.Publication {
	if publication.ID == 0 {
		publication.ID = stub.nextID
		stub.nextID++
	} else if publication.ID >= stub.nextID {
		stub.nextID = publication.ID + 1
	}
	stub.entries[publication.ID] = publication
	return publication
}

func (stub *publicationStoreStub) FindByID(publicationID uint) (models.Publication, error) {
	entry, ok := stub.entries[publicationID]
	if !ok {
		return models.Publication{}, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (stub *publicationStoreStub) FindByTriple(year int, month int, period string) (models.Publication, bool, error) {
	for _, entry := range stub.entries {
		if entry.Year == year && entry.Month == month && entry.Period == period {
			return entry, true, nil
		}
	}
	return models.Publication{}, false, nil
}

func (stub *publicationStoreStub) ListByYear(year int) ([]models.Publication, error) {
	publications := make([]models.Publication, 0)
	for _, entry := range stub.entries {
		if entry.Year == year {
			publications = append(publications, entry)
		}
	}
	sortPublications(publications)
	return publications, nil
}

func (stub *publicationStoreStub) ListAll() ([]models.Publication, error) {
	publications := make([]models.Publication, 0, len(stub.entries))
	for _, entry := range stub.entries {
		publications = append(publications, entry)
	}
	sortPublications(publications)
	return publications, nil
}

func (stub *publicationStoreStub) ListOpenFrom(year int, month int) ([]models.Publication, error) {
	publications := make([]models.Publication, 0)
	for _, entry := range stub.entries {
		if entry.Status != models.PublicationOpen {
			continue
		}
		if entry.Year < year || (entry.Year == year && entry.Month < month) {
			continue
		}
		publications = append(publications, entry)
	}
	sortPublications(publications)
	return publications, nil
}

func (stub *publicationStoreStub) CreateMissing(publications []models.Publication) ([]models.Publication, error) {
	created := make([]models.Publication, 0)
	for _, candidate := range publications {
		if _, exists, _ := stub.FindByTriple(candidate.Year, candidate.Month, candidate.Period); exists {
			continue
		}
		created = append(created, stub.add(candidate))
	}
	return created, nil
}

func (stub *publicationStoreStub) UpdateStatus(publicationID uint, status string) error {
	entry, ok := stub.entries[publicationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Status = status
	stub.entries[publicationID] = entry
	return nil
}

func (stub *publicationStoreStub) EnsureSendKey(publicationID uint, sendKey string) (string, error) {
	entry, ok := stub.entries[publicationID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	if entry.SendKey != "" {
		return entry.SendKey, nil
	}
	entry.SendKey = sendKey
	stub.entries[publicationID] = entry
	return sendKey, nil
}

func (stub *publicationStoreStub) MarkPublished(publicationID uint, publishedAt time.Time) error {
	entry, ok := stub.entries[publicationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Status = models.PublicationPublished
	entry.PublishedAt = &publishedAt
	stub.entries[publicationID] = entry
	return nil
}

func sortPublications(publications []models.Publication) {
	sort.Slice(publications, func(i, j int) bool {
		if publications[i].Year != publications[j].Year {
			return publications[i].Year < publications[j].Year
		}
		if publications[i].Month != publications[j].Month {
			return publications[i].Month < publications[j].Month
		}
		return publications[i].Period < publications[j].Period
	})
}

type submissionStoreStub struct {
	entries map[uint]models.Submission
	fields  map[uint]map[string]string
	nextID  uint
}

func newSubmissionStoreStub() *submissionStoreStub {
	return &submissionStoreStub{
		entries: make(map[uint]models.Submission),
		fields:  make(map[uint]map[string]string),
		nextID:  1,
	}
}

func (stub *submissionStoreStub) add(submission models.Submission) models.Submission {
	if submission.ID == 0 {
		submission.ID = stub.nextID
		stub.nextID++
	} else if submission.ID >= stub.nextID {
		stub.nextID = submission.ID + 1
	}
	stub.entries[submission.ID] = submission
	return submission
}

func (stub *submissionStoreStub) FindByID(submissionID uint) (models.Submission, error) {
	entry, ok := stub.entries[submissionID]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (stub *submissionStoreStub) ListByPublication(publicationID uint, statusFilter string) ([]models.Submission, error) {
	submissions := make([]models.Submission, 0)
	for _, entry := range stub.entries {
		if entry.PublicationID != publicationID {
			continue
		}
		if statusFilter != "" && entry.Status != statusFilter {
			continue
		}
		submissions = append(submissions, entry)
	}
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].ID < submissions[j].ID
	})
	return submissions, nil
}

func (stub *submissionStoreStub) ListByUser(userID uint) ([]models.Submission, error) {
	submissions := make([]models.Submission, 0)
	for _, entry := range stub.entries {
		if entry.UserID == userID {
			submissions = append(submissions, entry)
		}
	}
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].ID > submissions[j].ID
	})
	return submissions, nil
}

func (stub *submissionStoreStub) CountByPublicationAndStatus(publicationID uint) (map[string]int, error) {
	counts := make(map[string]int)
	for _, entry := range stub.entries {
		if entry.PublicationID == publicationID {
			counts[entry.Status]++
		}
	}
	return counts, nil
}

func (stub *submissionStoreStub) Create(submission *models.Submission) error {
	*submission = stub.add(*submission)
	return nil
}

func (stub *submissionStoreStub) UpsertFields(submissionID uint, fields map[string]string) error {
	if _, ok := stub.entries[submissionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored, ok := stub.fields[submissionID]
	if !ok {
		stored = make(map[string]string)
		stub.fields[submissionID] = stored
	}
	for name, value := range fields {
		stored[name] = value
	}
	return nil
}

func (stub *submissionStoreStub) LoadFields(submissionID uint) (map[string]string, error) {
	fields := make(map[string]string)
	for name, value := range stub.fields[submissionID] {
		fields[name] = value
	}
	return fields, nil
}

func (stub *submissionStoreStub) MarkSubmitted(submissionID uint, at time.Time) error {
	entry, ok := stub.entries[submissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Status = models.SubmissionSubmitted
	entry.SubmittedAt = &at
	entry.UpdatedAt = at
	stub.entries[submissionID] = entry
	return nil
}

func (stub *submissionStoreStub) MarkReviewed(submissionID uint, status string, reviewerID uint, feedback string, at time.Time) error {
	entry, ok := stub.entries[submissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Status = status
	entry.ReviewedBy = &reviewerID
	entry.ReviewedAt = &at
	entry.Feedback = feedback
	entry.UpdatedAt = at
	stub.entries[submissionID] = entry
	return nil
}

func (stub *submissionStoreStub) ReturnToSubmitted(submissionID uint, at time.Time) error {
	entry, ok := stub.entries[submissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Status = models.SubmissionSubmitted
	entry.ReviewedBy = nil
	entry.ReviewedAt = nil
	entry.Feedback = ""
	entry.UpdatedAt = at
	stub.entries[submissionID] = entry
	return nil
}

type suggestionStoreStub struct {
	entries map[uint]models.AiSuggestion
	nextID  uint
}

func newSuggestionStoreStub() *suggestionStoreStub {
	return &suggestionStoreStub{
		entries: make(map[uint]models.AiSuggestion),
		nextID:  1,
	}
}

func (stub *suggestionStoreStub) FindByID(suggestionID uint) (models.AiSuggestion, error) {
	entry, ok := stub.entries[suggestionID]
	if !ok {
		return models.AiSuggestion{}, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (stub *suggestionStoreStub) ListBySubmission(submissionID uint) ([]models.AiSuggestion, error) {
	suggestions := make([]models.AiSuggestion, 0)
	for _, entry := range stub.entries {
		if entry.SubmissionID == submissionID {
			suggestions = append(suggestions, entry)
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].ID > suggestions[j].ID
	})
	return suggestions, nil
}

func (stub *suggestionStoreStub) Create(suggestion *models.AiSuggestion) error {
	suggestion.ID = stub.nextID
	stub.nextID++
	stub.entries[suggestion.ID] = *suggestion
	return nil
}

func (stub *suggestionStoreStub) UpdateDecision(suggestionID uint, decision string) error {
	entry, ok := stub.entries[suggestionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Decision = decision
	stub.entries[suggestionID] = entry
	return nil
}

type userStoreStub struct {
	entries map[uint]models.User
	nextID  uint
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{
		entries: make(map[uint]models.User),
		nextID:  1,
	}
}

func (stub *userStoreStub) CountUsers() (int64, error) {
	return int64(len(stub.entries)), nil
}

func (stub *userStoreStub) ExistsByNormalizedEmail(email string) (bool, error) {
	for _, entry := range stub.entries {
		if entry.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (stub *userStoreStub) FindByNormalizedEmail(email string) (models.User, error) {
	for _, entry := range stub.entries {
		if entry.Email == email {
			return entry, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *userStoreStub) FindByID(userID uint) (models.User, error) {
	entry, ok := stub.entries[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (stub *userStoreStub) Create(user *models.User) error {
	user.ID = stub.nextID
	stub.nextID++
	stub.entries[user.ID] = *user
	return nil
}

func (stub *userStoreStub) StampLastLogin(userID uint, at time.Time) error {
	entry, ok := stub.entries[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.LastLoginAt = &at
	stub.entries[userID] = entry
	return nil
}

type gatewayStub struct {
	response string
	err      error
	prompts  []string
}

func (stub *gatewayStub) Suggest(_ context.Context, prompt string) (string, error) {
	stub.prompts = append(stub.prompts, prompt)
	if stub.err != nil {
		return "", stub.err
	}
	return stub.response, nil
}

type rendererStub struct {
	rendered []string
	err      error
}

func (stub *rendererStub) Render(publicationName string, entries []SpotlightEntry) (string, error) {
	stub.rendered = append(stub.rendered, publicationName)
	if stub.err != nil {
		return "", stub.err
	}
	return "<html>" + publicationName + "</html>", nil
}

type notifierStub struct {
	failNext bool
	err      error
	sends    []notifierSend
}

type notifierSend struct {
	subject    string
	recipients []string
	sendKey    string
}

func (stub *notifierStub) Send(subject string, _ string, recipients []string, sendKey string) error {
	stub.sends = append(stub.sends, notifierSend{
		subject:    subject,
		recipients: recipients,
		sendKey:    sendKey,
	})
	if stub.failNext {
		stub.failNext = false
		return stub.err
	}
	return nil
}
