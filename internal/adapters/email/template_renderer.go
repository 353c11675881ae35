package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"eventmgt/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

const dateLayout = "02.01.2006 15:04"

var funcs = map[string]any{
	"date": formatDate,
}

// Parsed once; a broken embedded template fails at startup rather than on first send.
var (
	htmlTemplates = htmltemplate.Must(htmltemplate.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.txt"))
)

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(dateLayout)
	case *time.Time:
		if t != nil {
			return t.Format(dateLayout)
		}
	}
	return ""
}

type templateRenderer struct {
	baseURL string
}

// NewTemplateRenderer returns an EmailTemplateRenderer backed by the embedded
// templates. baseURL prefixes confirmation and cancel links.
func NewTemplateRenderer(baseURL string) domain.EmailTemplateRenderer {
	return &templateRenderer{baseURL: strings.TrimRight(baseURL, "/")}
}

// Render executes <name>_subject.txt, <name>.html and <name>.txt. Templates
// see the caller's value as .Data and the link prefix as .BaseURL.
func (r *templateRenderer) Render(name string, data any) (subject, htmlBody, textBody string, err error) {
	view := templateData{Data: data, BaseURL: r.baseURL}

	if subject, err = executeText(name+"_subject.txt", view); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	var buf bytes.Buffer
	if err = htmlTemplates.ExecuteTemplate(&buf, name+".html", view); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	htmlBody = buf.String()
	if textBody, err = executeText(name+".txt", view); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

type templateData struct {
	Data    any
	BaseURL string
}

func executeText(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
