package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	TemplateWelcome             = "welcome"
	TemplateHackathonSubmitted  = "hackathon_submitted"
	TemplateInternshipSubmitted = "internship_submitted"
	TemplateStatusUpdate        = "status_update"
	TemplateCreditAlert         = "credit_alert"
)

const layout = `{{define "layout"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<div style="background: {{.Color}}; color: white; padding: 20px; text-align: center;"><h2>{{.Heading}}</h2></div>
<div style="padding: 20px; background: #f9f9f9;">
{{template "content" .}}
<hr style="margin: 20px 0;">
<div style="background: white; padding: 15px; border-left: 4px solid #830000;">
<h3 style="margin-top: 0;">Contact Information</h3>
<p><strong>{{.College}}</strong></p>
</div>
</div>
</div>{{end}}`

var contents = map[string]string{
	TemplateWelcome: `{{define "content"}}<p>Dear {{.Name}},</p>
<p>Your registration has been successful! You can now log in to submit your hackathon and internship details.</p>
<p><strong>Email:</strong> {{.Email}}</p>{{end}}`,

	TemplateHackathonSubmitted: `{{define "content"}}<p>Dear {{.Name}},</p>
<p>Your participation in <strong>{{.Title}}</strong> has been submitted successfully and is pending verification from your proctor.</p>
<p>You will receive an email notification once your submission is reviewed.</p>{{end}}`,

	TemplateInternshipSubmitted: `{{define "content"}}<p>Dear {{.Name}},</p>
<p>Your internship at <strong>{{.Title}}</strong> has been submitted successfully and is pending verification from your proctor.</p>
<p>You will receive an email notification once your submission is reviewed.</p>{{end}}`,

	TemplateStatusUpdate: `{{define "content"}}<p>Dear {{.Name}},</p>
<p>Your {{.Kind}} <strong>{{.Title}}</strong> has been <strong>{{.Status}}</strong>.</p>
{{if .Positive}}<p style="color: #4caf50;">Congratulations! Your participation has been verified.</p>
{{else if .Reason}}<p style="color: #d32f2f;"><strong>Reason:</strong> {{.Reason}}</p>{{end}}{{end}}`,

	TemplateCreditAlert: `{{define "content"}}<p>Dear {{.Name}},</p>
<p>This is to inform you that you currently hold <strong>{{.Credits}} credits</strong>, below the required {{.Threshold}}.</p>
<p style="color: #d32f2f; font-weight: bold;">You must complete the required participations before the end of your 5th semester.</p>
<p>Please submit your hackathon and internship details at the earliest to avoid any issues.</p>{{end}}`,
}

// Templates renders notification bodies
type Templates struct {
	college string
	sets    map[string]*template.Template
}

// NewTemplates parses every notification template once
func NewTemplates(college string) (*Templates, error) {
	t := &Templates{college: college, sets: make(map[string]*template.Template, len(contents))}
	for name, content := range contents {
		tpl, err := template.New(name).Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if _, err := tpl.Parse(content); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		t.sets[name] = tpl
	}
	return t, nil
}

// MustTemplates is NewTemplates that panics on a parse error
func MustTemplates(college string) *Templates {
	t, err := NewTemplates(college)
	if err != nil {
		panic(err)
	}
	return t
}

type view struct {
	Heading   string
	Color     string
	College   string
	Name      string
	Email     string
	Title     string
	Kind      string
	Status    string
	Reason    string
	Positive  bool
	Credits   string
	Threshold string
}

func (t *Templates) render(name, to, subject string, v view) (Message, error) {
	tpl, ok := t.sets[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown template %q", name)
	}
	if v.Color == "" {
		v.Color = "#830000"
	}
	v.College = t.college

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{To: to, Subject: subject, HTMLBody: buf.String()}, nil
}

// Welcome renders the registration confirmation
func (t *Templates) Welcome(name, to string) (Message, error) {
	return t.render(TemplateWelcome, to, "Welcome to "+t.college+" Participation Portal", view{
		Heading: "Welcome to the Participation Portal", Name: name, Email: to,
	})
}

// HackathonSubmitted renders the submission confirmation for a hackathon
func (t *Templates) HackathonSubmitted(name, to, title string) (Message, error) {
	return t.render(TemplateHackathonSubmitted, to, "Hackathon Submitted Successfully", view{
		Heading: "Hackathon Submitted", Name: name, Title: title,
	})
}

// InternshipSubmitted renders the submission confirmation for an internship
func (t *Templates) InternshipSubmitted(name, to, company string) (Message, error) {
	return t.render(TemplateInternshipSubmitted, to, "Internship Submitted Successfully", view{
		Heading: "Internship Submitted", Name: name, Title: company,
	})
}

// StatusUpdate describes a reviewed submission
type StatusUpdate struct {
	Kind     string // "Hackathon" or "Internship"
	Title    string
	Status   string
	Reason   string
	Positive bool
}

// StatusChanged renders a review outcome. The reason is shown only for negative outcomes.
func (t *Templates) StatusChanged(name, to string, u StatusUpdate) (Message, error) {
	color := "#d32f2f"
	if u.Positive {
		color = "#4caf50"
	}
	return t.render(TemplateStatusUpdate, to, fmt.Sprintf("%s %s", u.Kind, u.Status), view{
		Heading: fmt.Sprintf("%s %s", u.Kind, u.Status), Color: color,
		Name: name, Kind: u.Kind, Title: u.Title, Status: u.Status, Reason: u.Reason, Positive: u.Positive,
	})
}

// CreditAlert renders the low-credit warning
func (t *Templates) CreditAlert(name, to string, credits, threshold float64) (Message, error) {
	return t.render(TemplateCreditAlert, to, "Participation Alert - Action Required", view{
		Heading: "Participation Alert", Name: name,
		Credits:   formatCredits(credits),
		Threshold: formatCredits(threshold),
	})
}

func formatCredits(v float64) string {
	return fmt.Sprintf("%g", v)
}
