package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oakhollow/spotlight/internal/models"
)

func (handler *Handler) ListPublications(c *fiber.Ctx) error {
	if rawYear := c.Query("year"); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid year")
		}
		publications, err := handler.cycles.ListByYear(year)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(publicationListResponse(publications))
	}

	publications, err := handler.cycles.ListAll()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(publicationListResponse(publications))
}

func (handler *Handler) CurrentPublication(c *fiber.Ctx) error {
	publication, found, err := handler.cycles.CurrentOpen(time.Now().In(handler.location))
	if err != nil {
		return respondServiceError(c, err)
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "no open publication for the current period")
	}
	return c.JSON(publicationResponse(&publication))
}

func (handler *Handler) UpcomingPublications(c *fiber.Ctx) error {
	limit := 5
	if rawLimit := c.Query("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 {
			return apiError(c, fiber.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	publications, err := handler.cycles.Upcoming(time.Now().In(handler.location), limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(publicationListResponse(publications))
}

func (handler *Handler) GenerateCycles(c *fiber.Ctx) error {
	var input generateCyclesInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if input.Year < 2000 || input.Year > 2200 {
		return apiError(c, fiber.StatusBadRequest, "invalid year")
	}

	created, err := handler.cycles.GenerateCycles(input.Year)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"created":       publicationListResponse(created),
		"created_count": len(created),
	})
}

func (handler *Handler) AdvancePublication(c *fiber.Ctx) error {
	publicationID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid publication id")
	}

	publication, err := handler.cycles.Advance(publicationID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(publicationResponse(&publication))
}

func (handler *Handler) PublicationStats(c *fiber.Ctx) error {
	publicationID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid publication id")
	}
	if _, err := handler.cycles.FindByID(publicationID); err != nil {
		return respondServiceError(c, err)
	}

	stats, err := handler.cycles.Stats(publicationID)
	if err != nil {
		return respondServiceError(c, err)
	}
	ready, err := handler.cycles.ReadyToPublish(publicationID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"stats":            stats,
		"ready_to_publish": ready,
	})
}

func (handler *Handler) PublishPublication(c *fiber.Ctx) error {
	publicationID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid publication id")
	}

	publication, err := handler.publisher.Publish(publicationID, handler.recipients)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(publicationResponse(&publication))
}

func publicationResponse(publication *models.Publication) fiber.Map {
	response := fiber.Map{
		"id":           publication.ID,
		"year":         publication.Year,
		"month":        publication.Month,
		"period":       publication.Period,
		"status":       publication.Status,
		"display_name": publication.DisplayName(),
		"created_at":   publication.CreatedAt,
	}
	if publication.PublishedAt != nil {
		response["published_at"] = publication.PublishedAt
	}
	return response
}

func publicationListResponse(publications []models.Publication) []fiber.Map {
	responses := make([]fiber.Map, 0, len(publications))
	for index := range publications {
		responses = append(responses, publicationResponse(&publications[index]))
	}
	return responses
}
