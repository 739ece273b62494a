package api

import (
	"time"

	"github.com/oakhollow/spotlight/internal/db"
	"github.com/oakhollow/spotlight/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	auth         *services.AuthService
	cycles       *services.CycleService
	submissions  *services.SubmissionService
	suggestions  *services.SuggestionService
	publisher    *services.PublishService
	recipients   []string
	secretKey    []byte
	cookieSecure bool
	location     *time.Location
}

type Dependencies struct {
	Database   *gorm.DB
	SecretKey  string
	Gateway    services.SuggestionGateway
	Renderer   services.EmailRenderer
	Notifier   services.NotificationGateway
	Recipients []string
	Location   *time.Location
	Secure     bool
}

func NewHandler(deps Dependencies) *Handler {
	if deps.Location == nil {
		deps.Location = time.Local
	}

	repositories := db.NewRepositories(deps.Database)
	schema := services.DefaultFormSchema()

	return &Handler{
		auth:         services.NewAuthService(repositories.Users),
		cycles:       services.NewCycleService(repositories.Publications, repositories.Submissions),
		submissions:  services.NewSubmissionService(repositories.Submissions, repositories.Publications, schema),
		suggestions:  services.NewSuggestionService(repositories.Suggestions, repositories.Submissions, deps.Gateway, schema),
		publisher:    services.NewPublishService(repositories.Publications, repositories.Submissions, deps.Renderer, deps.Notifier, schema),
		recipients:   deps.Recipients,
		secretKey:    []byte(deps.SecretKey),
		cookieSecure: deps.Secure,
		location:     deps.Location,
	}
}

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
}

type createSubmissionInput struct {
	PublicationID uint   `json:"publication_id" form:"publication_id"`
	ProjectName   string `json:"project_name" form:"project_name"`
}

type updateFieldsInput struct {
	Fields map[string]string `json:"fields"`
}

type reviewInput struct {
	Decision string `json:"decision" form:"decision"`
	Feedback string `json:"feedback" form:"feedback"`
}

type suggestInput struct {
	FieldName string `json:"field_name" form:"field_name"`
}

type generateCyclesInput struct {
	Year int `json:"year" form:"year"`
}
