package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/oakhollow/spotlight/internal/models"
)

func (handler *Handler) CreateSubmission(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input createSubmissionInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	projectName := strings.TrimSpace(input.ProjectName)
	if input.PublicationID == 0 || projectName == "" {
		return apiError(c, fiber.StatusBadRequest, "publication_id and project_name are required")
	}
	if len(projectName) > 100 {
		return apiError(c, fiber.StatusBadRequest, "project_name must not exceed 100 characters")
	}

	submission, err := handler.submissions.CreateDraft(user.ID, input.PublicationID, projectName)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(submissionResponse(&submission))
}

func (handler *Handler) ListOwnSubmissions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	submissions, err := handler.submissions.ListForUser(user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(submissionListResponse(submissions))
}

func (handler *Handler) ListPublicationSubmissions(c *fiber.Ctx) error {
	publicationID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid publication id")
	}

	statusFilter := strings.TrimSpace(c.Query("status"))
	switch statusFilter {
	case "", models.SubmissionDraft, models.SubmissionSubmitted, models.SubmissionApproved, models.SubmissionRejected:
	default:
		return apiError(c, fiber.StatusBadRequest, "invalid status filter")
	}

	submissions, err := handler.submissions.ListForPublication(publicationID, statusFilter)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(submissionListResponse(submissions))
}

func (handler *Handler) GetSubmission(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	submission, err := handler.submissions.FindByID(submissionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if submission.UserID != user.ID && !user.IsApprover() {
		return apiError(c, fiber.StatusForbidden, "not your submission")
	}

	fields, err := handler.submissions.Fields(submissionID)
	if err != nil {
		return respondServiceError(c, err)
	}

	response := submissionResponse(&submission)
	response["fields"] = fields
	return c.JSON(response)
}

func (handler *Handler) UpdateSubmissionFields(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	submission, err := handler.submissions.FindByID(submissionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if submission.UserID != user.ID {
		return apiError(c, fiber.StatusForbidden, "not your submission")
	}

	var input updateFieldsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := handler.submissions.UpdateFields(submissionID, input.Fields); err != nil {
		return respondServiceError(c, err)
	}

	fields, err := handler.submissions.Fields(submissionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"id": submissionID, "fields": fields})
}

func (handler *Handler) SubmitSubmission(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	submission, err := handler.submissions.FindByID(submissionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if submission.UserID != user.ID {
		return apiError(c, fiber.StatusForbidden, "not your submission")
	}

	submitted, err := handler.submissions.Submit(submissionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(submissionResponse(&submitted))
}

func (handler *Handler) ReviewSubmission(c *fiber.Ctx) error {
	reviewer, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var input reviewInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var approve bool
	switch strings.TrimSpace(input.Decision) {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return apiError(c, fiber.StatusBadRequest, "decision must be approve or reject")
	}

	submission, err := handler.submissions.Review(submissionID, approve, reviewer.ID, strings.TrimSpace(input.Feedback))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(submissionResponse(&submission))
}

func (handler *Handler) ReReviewSubmission(c *fiber.Ctx) error {
	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	submission, err := handler.submissions.ReReview(submissionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(submissionResponse(&submission))
}

func submissionResponse(submission *models.Submission) fiber.Map {
	response := fiber.Map{
		"id":             submission.ID,
		"publication_id": submission.PublicationID,
		"user_id":        submission.UserID,
		"project_name":   submission.ProjectName,
		"status":         submission.Status,
		"created_at":     submission.CreatedAt,
		"updated_at":     submission.UpdatedAt,
	}
	if submission.SubmittedAt != nil {
		response["submitted_at"] = submission.SubmittedAt
	}
	if submission.ReviewedBy != nil {
		response["reviewed_by"] = submission.ReviewedBy
	}
	if submission.ReviewedAt != nil {
		response["reviewed_at"] = submission.ReviewedAt
	}
	if submission.Feedback != "" {
		response["feedback"] = submission.Feedback
	}
	return response
}

func submissionListResponse(submissions []models.Submission) []fiber.Map {
	responses := make([]fiber.Map, 0, len(submissions))
	for index := range submissions {
		responses = append(responses, submissionResponse(&submissions[index]))
	}
	return responses
}
