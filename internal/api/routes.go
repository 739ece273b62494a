package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	publications := api.Group("/publications", handler.AuthRequired)
	publications.Get("", handler.ListPublications)
	publications.Get("/current", handler.CurrentPublication)
	publications.Get("/upcoming", handler.UpcomingPublications)
	publications.Post("/generate", handler.ApproverOnly, handler.GenerateCycles)
	publications.Get("/:id/submissions", handler.ApproverOnly, handler.ListPublicationSubmissions)
	publications.Get("/:id/stats", handler.ApproverOnly, handler.PublicationStats)
	publications.Post("/:id/advance", handler.ApproverOnly, handler.AdvancePublication)
	publications.Post("/:id/publish", handler.ApproverOnly, handler.PublishPublication)

	submissions := api.Group("/submissions", handler.AuthRequired)
	submissions.Post("", handler.CreateSubmission)
	submissions.Get("", handler.ListOwnSubmissions)
	submissions.Get("/:id", handler.GetSubmission)
	submissions.Put("/:id/fields", handler.UpdateSubmissionFields)
	submissions.Post("/:id/submit", handler.SubmitSubmission)
	submissions.Post("/:id/review", handler.ApproverOnly, handler.ReviewSubmission)
	submissions.Post("/:id/rereview", handler.ApproverOnly, handler.ReReviewSubmission)
	submissions.Post("/:id/suggest", handler.RequestSuggestion)
	submissions.Get("/:id/suggestions", handler.ListSuggestions)

	suggestions := api.Group("/suggestions", handler.AuthRequired)
	suggestions.Post("/:id/accept", handler.AcceptSuggestion)
	suggestions.Post("/:id/reject", handler.RejectSuggestion)
}
