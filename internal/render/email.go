// Package render produces the publication email body from an embedded
// html/template.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/oakhollow/spotlight/internal/services"
)

//go:embed templates/*.html
var templateFiles embed.FS

type EmailRenderer struct {
	template *template.Template
}

func NewEmailRenderer() (*EmailRenderer, error) {
	parsed, err := template.ParseFS(templateFiles, "templates/email.html")
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}
	return &EmailRenderer{template: parsed}, nil
}

type emailData struct {
	PublicationName string
	Entries         []services.SpotlightEntry
}

func (renderer *EmailRenderer) Render(publicationName string, entries []services.SpotlightEntry) (string, error) {
	var buffer bytes.Buffer
	err := renderer.template.ExecuteTemplate(&buffer, "email.html", emailData{
		PublicationName: publicationName,
		Entries:         entries,
	})
	if err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buffer.String(), nil
}
