package utils

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer sends templated notification emails. Delivery is best-effort:
// callers log failures and move on, a bounced email never fails the
// operation that triggered it.
type Mailer struct {
	dialer    *gomail.Dialer
	from      string
	templates *template.Template
}

func NewMailer() *Mailer {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	templates := template.Must(template.ParseFS(templateFS, "templates/*.html"))

	return &Mailer{
		dialer: gomail.NewDialer(
			os.Getenv("SMTP_HOST"),
			port,
			os.Getenv("EMAIL_USER"),
			os.Getenv("EMAIL_PASS"),
		),
		from:      os.Getenv("EMAIL_USER"),
		templates: templates,
	}
}

// SendTemplate renders the named template with data and emails the result.
func (m *Mailer) SendTemplate(to, subject, name string, data map[string]interface{}) error {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, name, data); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	return m.dialer.DialAndSend(msg)
}
