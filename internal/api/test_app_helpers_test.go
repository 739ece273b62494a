package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/oakhollow/spotlight/internal/db"
	"github.com/oakhollow/spotlight/internal/render"
)

type recordingNotifier struct {
	failNext bool
	sends    []recordedSend
}

type recordedSend struct {
	subject    string
	htmlBody   string
	recipients []string
	sendKey    string
}

func (notifier *recordingNotifier) Send(subject string, htmlBody string, recipients []string, sendKey string) error {
	notifier.sends = append(notifier.sends, recordedSend{
		subject:    subject,
		htmlBody:   htmlBody,
		recipients: recipients,
		sendKey:    sendKey,
	})
	if notifier.failNext {
		notifier.failNext = false
		return fmt.Errorf("relay unreachable")
	}
	return nil
}

type scriptedGateway struct {
	response string
	err      error
}

func (gateway *scriptedGateway) Suggest(_ context.Context, _ string) (string, error) {
	if gateway.err != nil {
		return "", gateway.err
	}
	return gateway.response, nil
}

func newTestApp(t *testing.T) (*fiber.App, *recordingNotifier, *scriptedGateway) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "spotlight-test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	renderer, err := render.NewEmailRenderer()
	if err != nil {
		t.Fatalf("build renderer: %v", err)
	}

	notifier := &recordingNotifier{}
	gateway := &scriptedGateway{response: "A crisper rewrite of the original text."}

	handler := NewHandler(Dependencies{
		Database:   database,
		SecretKey:  "test-secret-key",
		Gateway:    gateway,
		Renderer:   renderer,
		Notifier:   notifier,
		Recipients: []string{"all@example.com"},
	})

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterRoutes(app, handler)
	return app, notifier, gateway
}

func testRequest(t *testing.T, app *fiber.App, method string, path string, payload any, cookie string) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	decoded := decodeObject(t, response)
	return response, decoded
}

func testRequestList(t *testing.T, app *fiber.App, path string, cookie string) (*http.Response, []map[string]any) {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}

	raw, err := io.ReadAll(response.Body)
	response.Body.Close()
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	var decoded []map[string]any
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode list body %q: %v", raw, err)
		}
	}
	return response, decoded
}

func decodeObject(t *testing.T, response *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(response.Body)
	response.Body.Close()
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	decoded := make(map[string]any)
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return decoded
}

func registerTestUser(t *testing.T, app *fiber.App, email string, name string) string {
	t.Helper()

	response, _ := testRequest(t, app, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    email,
		"name":     name,
		"password": "longenough",
	}, "")
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, response.StatusCode)
	}
	return extractAuthCookie(t, response)
}

func extractAuthCookie(t *testing.T, response *http.Response) string {
	t.Helper()

	for _, rawCookie := range response.Header.Values("Set-Cookie") {
		if strings.HasPrefix(rawCookie, authCookieName+"=") {
			return strings.Split(rawCookie, ";")[0]
		}
	}
	t.Fatalf("expected %s cookie in response", authCookieName)
	return ""
}

func generateTestCycles(t *testing.T, app *fiber.App, approverCookie string, year int) uint {
	t.Helper()

	response, body := testRequest(t, app, http.MethodPost, "/api/publications/generate", map[string]any{
		"year": year,
	}, approverCookie)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("generate cycles: expected 201, got %d", response.StatusCode)
	}

	created, ok := body["created"].([]any)
	if !ok || len(created) == 0 {
		t.Fatalf("expected created publications, got %v", body["created"])
	}
	first, ok := created[0].(map[string]any)
	if !ok {
		t.Fatalf("unexpected publication payload: %v", created[0])
	}
	id, ok := first["id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("unexpected publication id: %v", first["id"])
	}
	return uint(id)
}

func fieldPayload() map[string]any {
	return map[string]any{
		"fields": map[string]string{
			"title":            "Search relaunch",
			"description":      "We rebuilt the internal search stack.",
			"key_achievements": "Cut p95 latency from 2s to 180ms.",
			"impact":           "Support ticket volume dropped by a third.",
			"category":         "Technology Advancement",
		},
	}
}
