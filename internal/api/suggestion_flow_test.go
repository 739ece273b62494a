package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/oakhollow/spotlight/internal/services"
)

func newDraftWithDescription(t *testing.T, app *fiber.App, cookie string, publicationID uint) uint {
	t.Helper()

	response, submission := testRequest(t, app, http.MethodPost, "/api/submissions", map[string]any{
		"publication_id": publicationID,
		"project_name":   "Search relaunch",
	}, cookie)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create submission: expected 201, got %d", response.StatusCode)
	}
	submissionID := uint(submission["id"].(float64))

	response, _ = testRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/submissions/%d/fields", submissionID), map[string]any{
			"fields": map[string]string{"description": "we made search better"},
		}, cookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("seed description: expected 200, got %d", response.StatusCode)
	}
	return submissionID
}

func TestSuggestionAcceptFlow(t *testing.T) {
	t.Parallel()

	app, _, gateway := newTestApp(t)
	gateway.response = "We rebuilt search for a 10x latency win."

	approverCookie := registerTestUser(t, app, "lead@example.com", "Avery")
	publicationID := generateTestCycles(t, app, approverCookie, 2030)
	submissionID := newDraftWithDescription(t, app, approverCookie, publicationID)

	response, suggestion := testRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/submissions/%d/suggest", submissionID), map[string]any{
			"field_name": "description",
		}, approverCookie)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("suggest: expected 201, got %d", response.StatusCode)
	}
	if suggestion["decision"] != "pending" {
		t.Fatalf("expected pending decision, got %v", suggestion["decision"])
	}
	if suggestion["original_content"] != "we made search better" {
		t.Fatalf("unexpected original content: %v", suggestion["original_content"])
	}
	suggestionID := uint(suggestion["id"].(float64))

	response, accepted := testRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/suggestions/%d/accept", suggestionID), nil, approverCookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d", response.StatusCode)
	}
	if accepted["decision"] != "accepted" {
		t.Fatalf("expected accepted decision, got %v", accepted["decision"])
	}

	response, detail := testRequest(t, app, http.MethodGet,
		fmt.Sprintf("/api/submissions/%d", submissionID), nil, approverCookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("get submission: expected 200, got %d", response.StatusCode)
	}
	fields, ok := detail["fields"].(map[string]any)
	if !ok {
		t.Fatalf("expected fields in detail response, got %v", detail["fields"])
	}
	if fields["description"] != gateway.response {
		t.Fatalf("expected accepted text in the field, got %v", fields["description"])
	}
}

func TestSuggestionRejectKeepsContent(t *testing.T) {
	t.Parallel()

	app, _, gateway := newTestApp(t)
	gateway.response = "Rewrite."

	approverCookie := registerTestUser(t, app, "lead@example.com", "Avery")
	publicationID := generateTestCycles(t, app, approverCookie, 2030)
	submissionID := newDraftWithDescription(t, app, approverCookie, publicationID)

	response, suggestion := testRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/submissions/%d/suggest", submissionID), map[string]any{
			"field_name": "description",
		}, approverCookie)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("suggest: expected 201, got %d", response.StatusCode)
	}
	suggestionID := uint(suggestion["id"].(float64))

	response, rejected := testRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/suggestions/%d/reject", suggestionID), nil, approverCookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d", response.StatusCode)
	}
	if rejected["decision"] != "rejected" {
		t.Fatalf("expected rejected decision, got %v", rejected["decision"])
	}

	_, detail := testRequest(t, app, http.MethodGet,
		fmt.Sprintf("/api/submissions/%d", submissionID), nil, approverCookie)
	fields := detail["fields"].(map[string]any)
	if fields["description"] != "we made search better" {
		t.Fatalf("expected content untouched after reject, got %v", fields["description"])
	}
}

func TestSuggestionGatewayFailureReturns502(t *testing.T) {
	t.Parallel()

	app, _, gateway := newTestApp(t)
	gateway.err = fmt.Errorf("model overloaded: %w", services.ErrUpstreamUnavailable)

	approverCookie := registerTestUser(t, app, "lead@example.com", "Avery")
	publicationID := generateTestCycles(t, app, approverCookie, 2030)
	submissionID := newDraftWithDescription(t, app, approverCookie, publicationID)

	response, _ := testRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/submissions/%d/suggest", submissionID), map[string]any{
			"field_name": "description",
		}, approverCookie)
	if response.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 on gateway failure, got %d", response.StatusCode)
	}
}

func TestSuggestionUnknownFieldRejected(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)

	approverCookie := registerTestUser(t, app, "lead@example.com", "Avery")
	publicationID := generateTestCycles(t, app, approverCookie, 2030)
	submissionID := newDraftWithDescription(t, app, approverCookie, publicationID)

	response, _ := testRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/submissions/%d/suggest", submissionID), map[string]any{
			"field_name": "nonexistent",
		}, approverCookie)
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown field, got %d", response.StatusCode)
	}
}

func TestSuggestionDecisionOwnerOnly(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)

	approverCookie := registerTestUser(t, app, "lead@example.com", "Avery")
	otherCookie := registerTestUser(t, app, "other@example.com", "Sam")
	publicationID := generateTestCycles(t, app, approverCookie, 2030)
	submissionID := newDraftWithDescription(t, app, approverCookie, publicationID)

	response, suggestion := testRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/submissions/%d/suggest", submissionID), map[string]any{
			"field_name": "description",
		}, approverCookie)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("suggest: expected 201, got %d", response.StatusCode)
	}
	suggestionID := uint(suggestion["id"].(float64))

	response, _ = testRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/suggestions/%d/accept", suggestionID), nil, otherCookie)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for a stranger's accept, got %d", response.StatusCode)
	}
}
