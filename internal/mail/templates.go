package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path"
	"strings"
)

// Template names
const (
	TemplateApplicationStatus  = "application_status"
	TemplateInterviewScheduled = "interview_scheduled"
	TemplateInterviewReminder  = "interview_reminder"
	TemplateRenewalReminder    = "renewal_reminder"
)

//go:embed templates/*.html
var templateFS embed.FS

// ApplicationStatusData application_status template data
type ApplicationStatusData struct {
	StudentName     string
	ScholarshipName string
	StatusLabel     string
	Notes           string
	Link            string
}

// InterviewData interview_scheduled and interview_reminder template data
type InterviewData struct {
	StudentName     string
	ScholarshipName string
	Schedule        string
	Location        string
	Type            string
	Notes           string
}

// RenewalReminderData renewal_reminder template data
type RenewalReminderData struct {
	StudentName     string
	ScholarshipName string
	Period          string
	Deadline        string
	DaysLeft        int
	Link            string
}

// Renderer renders the embedded templates. Each file defines a "subject" and a "body" block.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every embedded template
func NewRenderer() (*Renderer, error) {
	files, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := strings.TrimSuffix(f.Name(), path.Ext(f.Name()))
		t, err := template.ParseFS(templateFS, "templates/"+f.Name())
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render returns the subject line and HTML body
func (r *Renderer) Render(name string, data interface{}) (string, string, error) {
	t, ok := r.templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", name)
	}

	var subject, body bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := t.ExecuteTemplate(&body, "body", data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", name, err)
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}
