package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/storefront/storefront-go/internal/model"
)

const verificationSubject = "E-Commerce Account Verification Email"

//go:embed templates/*.html
var templateFS embed.FS

var verificationTmpl = template.Must(template.ParseFS(templateFS, "templates/verification_email.html"))

// VerificationMailer sends the account verification link to new users.
type VerificationMailer struct {
	dispatcher *Dispatcher
	baseURL    string
}

// NewVerificationMailer creates a VerificationMailer whose links point at baseURL.
func NewVerificationMailer(dispatcher *Dispatcher, baseURL string) *VerificationMailer {
	return &VerificationMailer{dispatcher: dispatcher, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (m *VerificationMailer) SendVerification(user *model.User, token string) error {
	body, err := m.render(user, token)
	if err != nil {
		return err
	}
	return m.dispatcher.Enqueue(Message{
		To:      []string{user.Email},
		Subject: verificationSubject,
		HTML:    body,
	})
}

func (m *VerificationMailer) render(user *model.User, token string) (string, error) {
	link := m.baseURL + "/verification?token=" + url.QueryEscape(token)

	var buf bytes.Buffer
	err := verificationTmpl.Execute(&buf, struct {
		Username string
		Link     string
	}{
		Username: user.Username,
		Link:     link,
	})
	if err != nil {
		return "", fmt.Errorf("rendering verification email: %w", err)
	}
	return buf.String(), nil
}
