package services

import (
	"log"
)

// Mailer is the outbound email channel consumed by the services.
// utils.Mailer satisfies it.
type Mailer interface {
	SendTemplate(to, subject, template string, data map[string]interface{}) error
}

// sendMail delivers best-effort: a failed send is logged and never bubbles
// up into the operation that triggered it.
func sendMail(m Mailer, to, subject, template string, data map[string]interface{}) {
	if m == nil {
		return
	}
	if err := m.SendTemplate(to, subject, template, data); err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
	}
}
