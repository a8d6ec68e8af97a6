package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Message is a rendered email ready to hand to a transport.
type Message struct {
	To      string
	Subject string
	HTML    string
}

type templateData struct {
	Subject   string
	FirstName string
	Token     string
	URL       string
	Year      int
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}

// render executes templates/<page> inside the base layout.
func render(page string, data templateData) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+page)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", page, err)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "base", data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", page, err)
	}
	return body.String(), nil
}

// Composer builds the application's emails.
type Composer struct {
	frontendURL string
	now         func() time.Time
}

func NewComposer(frontendURL string) *Composer {
	return &Composer{frontendURL: strings.TrimRight(frontendURL, "/"), now: time.Now}
}

func (c *Composer) compose(to, name, subject, page, token, url string) (*Message, error) {
	html, err := render(page, templateData{
		Subject:   subject,
		FirstName: firstName(name),
		Token:     token,
		URL:       url,
		Year:      c.now().Year(),
	})
	if err != nil {
		return nil, err
	}
	return &Message{To: to, Subject: subject, HTML: html}, nil
}

func (c *Composer) Welcome(to, name string) (*Message, error) {
	return c.compose(to, name, "Welcome to the Natours family!", "welcome.html", "", c.frontendURL)
}

func (c *Composer) Verification(to, name, token string) (*Message, error) {
	return c.compose(to, name, "Confirm your email (valid for only 10 minutes)", "verify-email.html",
		token, c.frontendURL+"/check-email/"+token)
}

func (c *Composer) PasswordReset(to, name, token string) (*Message, error) {
	return c.compose(to, name, "Your temporary password (valid for only 10 minutes)", "reset-password.html",
		token, c.frontendURL+"/reset-password/"+token)
}
