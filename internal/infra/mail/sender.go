package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/elevenxsolutions/elevenx-api/internal/entity"
)

func NewEmailSender(host string, port int, user, password, from, adminEmail string) *EmailSender {
	return &EmailSender{
		Host:       host,
		Port:       port,
		User:       user,
		Password:   password,
		From:       from,
		AdminEmail: adminEmail,
	}
}

var notificationTmpl = template.Must(template.New("notification").Parse(`
<h2>New booking request</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Service:</strong> {{.Service}}</p>
<p><strong>Plan:</strong> {{.Plan}}</p>
<p><strong>Message:</strong></p>
<blockquote>{{.Message}}</blockquote>
`))

var acknowledgmentTmpl = template.Must(template.New("acknowledgment").Parse(`
<p>Hi {{.Name}},</p>
<p>Thanks for reaching out to ElevenX Solutions. We received your request and one of us
will get back to you within one business day.</p>
<p>Here is a copy of what you sent:</p>
<blockquote>{{.Message}}</blockquote>
<p>— The ElevenX team</p>
`))

// SendLeadNotification alerts the internal inbox about a new lead.
func (s *EmailSender) SendLeadNotification(lead *entity.Lead) error {
	subject := fmt.Sprintf("New booking: %s", lead.Name)
	return s.send(s.AdminEmail, subject, notificationTmpl, leadEmailData(lead))
}

// SendLeadAcknowledgment confirms receipt to the person who booked.
func (s *EmailSender) SendLeadAcknowledgment(lead *entity.Lead) error {
	subject := "We received your request — ElevenX Solutions"
	return s.send(lead.Email, subject, acknowledgmentTmpl, leadEmailData(lead))
}

func (s *EmailSender) send(to, subject string, tmpl *template.Template, data LeadEmailData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending email via SMTP: %w", err)
	}

	return nil
}

func leadEmailData(lead *entity.Lead) LeadEmailData {
	data := LeadEmailData{
		Name:    lead.Name,
		Email:   lead.Email,
		Service: "—",
		Plan:    "—",
		Message: lead.Message,
	}
	if lead.Service != nil {
		data.Service = *lead.Service
	}
	if lead.Plan != nil {
		data.Plan = *lead.Plan
	}
	return data
}
