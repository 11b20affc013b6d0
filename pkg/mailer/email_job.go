package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// HTML is optional; Text is the fallback body.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// WelcomeJob builds the email sent after a successful registration.
func WelcomeJob(to, firstName, appName string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: fmt.Sprintf("Welcome to %s", appName),
		Text:    fmt.Sprintf("Hi %s,\n\nYour account is ready. You can sign in with this email address.\n", firstName),
	}
}
