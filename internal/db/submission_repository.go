package db

import (
	"errors"
	"time"

	"github.com/oakhollow/spotlight/internal/models"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	database *gorm.DB
}

func NewSubmissionRepository(database *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{database: database}
}

func (repo *SubmissionRepository) FindByID(submissionID uint) (models.Submission, error) {
	var submission models.Submission
	if err := repo.database.First(&submission, submissionID).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (repo *SubmissionRepository) ListByPublication(publicationID uint, statusFilter string) ([]models.Submission, error) {
	query := repo.database.Where("publication_id = ?", publicationID)
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	submissions := make([]models.Submission, 0)
	if err := query.Order("created_at ASC, id ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (repo *SubmissionRepository) ListByUser(userID uint) ([]models.Submission, error) {
	submissions := make([]models.Submission, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (repo *SubmissionRepository) CountByPublicationAndStatus(publicationID uint) (map[string]int, error) {
	type statusCount struct {
		Status string `gorm:"column:status"`
		Total  int    `gorm:"column:total"`
	}

	rows := make([]statusCount, 0)
	if err := repo.database.Model(&models.Submission{}).
		Select("status, count(*) AS total").
		Where("publication_id = ?", publicationID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (repo *SubmissionRepository) Create(submission *models.Submission) error {
	return repo.database.Create(submission).Error
}

// UpsertFields overwrites matching field rows by name and creates the rest,
// leaving fields absent from the map untouched. The submission's updated_at is
// bumped in the same transaction.
func (repo *SubmissionRepository) UpsertFields(submissionID uint, fields map[string]string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for name, value := range fields {
			var existing models.SubmissionField
			err := tx.Where("submission_id = ? AND name = ?", submissionID, name).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				field := models.SubmissionField{
					SubmissionID: submissionID,
					Name:         name,
					Value:        value,
				}
				if err := tx.Create(&field).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Submission{}).
			Where("id = ?", submissionID).
			Update("updated_at", time.Now()).Error
	})
}

func (repo *SubmissionRepository) LoadFields(submissionID uint) (map[string]string, error) {
	rows := make([]models.SubmissionField, 0)
	if err := repo.database.
		Where("submission_id = ?", submissionID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(rows))
	for _, row := range rows {
		fields[row.Name] = row.Value
	}
	return fields, nil
}

func (repo *SubmissionRepository) MarkSubmitted(submissionID uint, at time.Time) error {
	return repo.database.Model(&models.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]any{
			"status":       models.SubmissionSubmitted,
			"submitted_at": at,
			"updated_at":   at,
		}).Error
}

func (repo *SubmissionRepository) MarkReviewed(submissionID uint, status string, reviewerID uint, feedback string, at time.Time) error {
	return repo.database.Model(&models.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]any{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
			"feedback":    feedback,
			"updated_at":  at,
		}).Error
}

func (repo *SubmissionRepository) ReturnToSubmitted(submissionID uint, at time.Time) error {
	return repo.database.Model(&models.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]any{
			"status":      models.SubmissionSubmitted,
			"reviewed_by": nil,
			"reviewed_at": nil,
			"feedback":    "",
			"updated_at":  at,
		}).Error
}
