package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/oakhollow/spotlight/internal/models"
)

func (handler *Handler) RequestSuggestion(c *fiber.Ctx) error {
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

	var input suggestInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	fieldName := strings.TrimSpace(input.FieldName)
	if fieldName == "" {
		return apiError(c, fiber.StatusBadRequest, "field_name is required")
	}
	if _, known := handler.submissions.Schema().Descriptor(fieldName); !known {
		return apiError(c, fiber.StatusBadRequest, "unknown field name")
	}

	suggestion, err := handler.suggestions.Request(c.Context(), submissionID, fieldName)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(suggestionResponse(&suggestion))
}

func (handler *Handler) ListSuggestions(c *fiber.Ctx) error {
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

	suggestions, err := handler.suggestions.History(submissionID)
	if err != nil {
		return respondServiceError(c, err)
	}

	responses := make([]fiber.Map, 0, len(suggestions))
	for index := range suggestions {
		responses = append(responses, suggestionResponse(&suggestions[index]))
	}
	return c.JSON(responses)
}

func (handler *Handler) AcceptSuggestion(c *fiber.Ctx) error {
	return handler.decideSuggestion(c, true)
}

func (handler *Handler) RejectSuggestion(c *fiber.Ctx) error {
	return handler.decideSuggestion(c, false)
}

func (handler *Handler) decideSuggestion(c *fiber.Ctx, accept bool) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	suggestionID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid suggestion id")
	}

	owned, err := handler.suggestionBelongsToUser(suggestionID, user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if !owned {
		return apiError(c, fiber.StatusForbidden, "not your suggestion")
	}

	var suggestion models.AiSuggestion
	if accept {
		suggestion, err = handler.suggestions.Accept(suggestionID)
	} else {
		suggestion, err = handler.suggestions.Reject(suggestionID)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(suggestionResponse(&suggestion))
}

func (handler *Handler) suggestionBelongsToUser(suggestionID uint, userID uint) (bool, error) {
	suggestion, err := handler.suggestions.Find(suggestionID)
	if err != nil {
		return false, err
	}
	submission, err := handler.submissions.FindByID(suggestion.SubmissionID)
	if err != nil {
		return false, err
	}
	return submission.UserID == userID, nil
}

func suggestionResponse(suggestion *models.AiSuggestion) fiber.Map {
	return fiber.Map{
		"id":                suggestion.ID,
		"submission_id":     suggestion.SubmissionID,
		"field_name":        suggestion.FieldName,
		"original_content":  suggestion.OriginalContent,
		"suggested_content": suggestion.SuggestedContent,
		"decision":          suggestion.Decision,
		"created_at":        suggestion.CreatedAt,
	}
}
