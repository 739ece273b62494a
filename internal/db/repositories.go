package db

import "gorm.io/gorm"

type Repositories struct {
	Users        *UserRepository
	Publications *PublicationRepository
	Submissions  *SubmissionRepository
	Suggestions  *SuggestionRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(database),
		Publications: NewPublicationRepository(database),
		Submissions:  NewSubmissionRepository(database),
		Suggestions:  NewSuggestionRepository(database),
	}
}
