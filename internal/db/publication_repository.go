package db

import (
	"errors"
	"time"

	"github.com/oakhollow/spotlight/internal/models"
	"gorm.io/gorm"
)

type PublicationRepository struct {
	database *gorm.DB
}

func NewPublicationRepository(database *gorm.DB) *PublicationRepository {
	return &PublicationRepository{database: database}
}

func (repo *PublicationRepository) FindByID(publicationID uint) (models.Publication, error) {
	var publication models.Publication
	if err := repo.database.First(&publication, publicationID).Error; err != nil {
		return models.Publication{}, err
	}
	return publication, nil
}

func (repo *PublicationRepository) FindByTriple(year int, month int, period string) (models.Publication, bool, error) {
	var publication models.Publication
	err := repo.database.
		Where("year = ? AND month = ? AND period = ?", year, month, period).
		First(&publication).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Publication{}, false, nil
	}
	if err != nil {
		return models.Publication{}, false, err
	}
	return publication, true, nil
}

func (repo *PublicationRepository) ListByYear(year int) ([]models.Publication, error) {
	publications := make([]models.Publication, 0)
	if err := repo.database.
		Where("year = ?", year).
		Order("month ASC, period ASC").
		Find(&publications).Error; err != nil {
		return nil, err
	}
	return publications, nil
}

func (repo *PublicationRepository) ListAll() ([]models.Publication, error) {
	publications := make([]models.Publication, 0)
	if err := repo.database.
		Order("year DESC, month DESC, period ASC").
		Find(&publications).Error; err != nil {
		return nil, err
	}
	return publications, nil
}

func (repo *PublicationRepository) ListOpenFrom(year int, month int) ([]models.Publication, error) {
	publications := make([]models.Publication, 0)
	if err := repo.database.
		Where("status = ? AND (year > ? OR (year = ? AND month >= ?))", models.PublicationOpen, year, year, month).
		Order("year ASC, month ASC, period ASC").
		Find(&publications).Error; err != nil {
		return nil, err
	}
	return publications, nil
}

// CreateMissing inserts the given publications inside one transaction, skipping
// any (year, month, period) triple that already has a row. Returns the rows
// actually inserted.
func (repo *PublicationRepository) CreateMissing(publications []models.Publication) ([]models.Publication, error) {
	created := make([]models.Publication, 0, len(publications))
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		for index := range publications {
			var matched int64
			if err := tx.Model(&models.Publication{}).
				Where("year = ? AND month = ? AND period = ?",
					publications[index].Year, publications[index].Month, publications[index].Period).
				Count(&matched).Error; err != nil {
				return err
			}
			if matched > 0 {
				continue
			}
			if err := tx.Create(&publications[index]).Error; err != nil {
				return err
			}
			created = append(created, publications[index])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (repo *PublicationRepository) UpdateStatus(publicationID uint, status string) error {
	return repo.database.Model(&models.Publication{}).
		Where("id = ?", publicationID).
		Update("status", status).Error
}

func (repo *PublicationRepository) EnsureSendKey(publicationID uint, sendKey string) (string, error) {
	var stored string
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		var publication models.Publication
		if err := tx.First(&publication, publicationID).Error; err != nil {
			return err
		}
		if publication.SendKey != "" {
			stored = publication.SendKey
			return nil
		}
		if err := tx.Model(&models.Publication{}).
			Where("id = ?", publicationID).
			Update("send_key", sendKey).Error; err != nil {
			return err
		}
		stored = sendKey
		return nil
	})
	if err != nil {
		return "", err
	}
	return stored, nil
}

func (repo *PublicationRepository) MarkPublished(publicationID uint, publishedAt time.Time) error {
	return repo.database.Model(&models.Publication{}).
		Where("id = ?", publicationID).
		Updates(map[string]any{
			"status":       models.PublicationPublished,
			"published_at": publishedAt,
		}).Error
}
