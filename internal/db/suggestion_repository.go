package db

import (
	"github.com/oakhollow/spotlight/internal/models"
	"gorm.io/gorm"
)

type SuggestionRepository struct {
	database *gorm.DB
}

func NewSuggestionRepository(database *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{database: database}
}

func (repo *SuggestionRepository) FindByID(suggestionID uint) (models.AiSuggestion, error) {
	var suggestion models.AiSuggestion
	if err := repo.database.First(&suggestion, suggestionID).Error; err != nil {
		return models.AiSuggestion{}, err
	}
	return suggestion, nil
}

func (repo *SuggestionRepository) ListBySubmission(submissionID uint) ([]models.AiSuggestion, error) {
	suggestions := make([]models.AiSuggestion, 0)
	if err := repo.database.
		Where("submission_id = ?", submissionID).
		Order("created_at DESC, id DESC").
		Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (repo *SuggestionRepository) Create(suggestion *models.AiSuggestion) error {
	return repo.database.Create(suggestion).Error
}

func (repo *SuggestionRepository) UpdateDecision(suggestionID uint, decision string) error {
	return repo.database.Model(&models.AiSuggestion{}).
		Where("id = ?", suggestionID).
		Update("decision", decision).Error
}
