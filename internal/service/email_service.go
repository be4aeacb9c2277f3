package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"time"

	"robotapp-backend/config"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// Notifier sends transactional emails. Implementations must not block the caller.
type Notifier interface {
	SendWelcome(user *model.User)
	SendOrderConfirmation(order *model.Order)
	SendTicketAcknowledgement(ticket *model.SupportTicket)
}

type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
	enabled  bool
	send     func(m *mail.Message) error
}

func NewEmailService(cfg config.Config) *EmailService {
	s := &EmailService{
		smtpHost: cfg.SMTPHost,
		smtpPort: cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		enabled:  cfg.SMTPEnabled(),
	}
	if s.from == "" {
		s.from = s.username
	}
	s.send = s.dialAndSend
	return s
}

var (
	welcomeTemplate = template.Must(template.New("welcome").Parse(
		`<p>Hi {{.Username}},</p><p>Your account has been created. Welcome aboard!</p>`))

	orderTemplate = template.Must(template.New("order").Parse(`<p>Hi {{.ShippingAddress.FullName}},</p>
<p>Thanks for your order <b>{{.OrderNumber}}</b>.</p>
<ul>{{range .Items}}<li>{{.ProductName}} ({{.Variant}}) x {{.Quantity}}: {{printf "%.2f" .Total}}</li>{{end}}</ul>
<p>Total: {{printf "%.2f" .TotalAmount}}</p>
<p>You can track it any time with your order number and this email address.</p>`))

	ticketTemplate = template.Must(template.New("ticket").Parse(
		`<p>Hi {{.Name}},</p><p>We received your request <b>{{.Subject}}</b> ({{.TicketNumber}}) and will get back to you soon.</p>`))
)

func (s *EmailService) SendWelcome(user *model.User) {
	s.sendTemplateAsync(user.Email, "Welcome to Robot Store", welcomeTemplate, user)
}

func (s *EmailService) SendOrderConfirmation(order *model.Order) {
	s.sendTemplateAsync(order.ShippingAddress.Email, "Order confirmation "+order.OrderNumber, orderTemplate, order)
}

func (s *EmailService) SendTicketAcknowledgement(ticket *model.SupportTicket) {
	s.sendTemplateAsync(ticket.Email, "Support ticket "+ticket.TicketNumber, ticketTemplate, ticket)
}

// sendTemplateAsync renders an html template, escaping every field, and sends it in the background
func (s *EmailService) sendTemplateAsync(to, subject string, tmpl *template.Template, data interface{}) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		util.Logger.Error("render email failed", zap.Error(err), zap.String("template", tmpl.Name()))
		return
	}
	s.sendEmailAsync(to, subject, body.String())
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	if !s.enabled || to == "" {
		util.Logger.Debug("smtp not configured, skipping email", zap.String("to", to), zap.String("subject", subject))
		return
	}
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("async email send failed", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	util.Logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s *EmailService) dialAndSend(m *mail.Message) error {
	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}
	return d.DialAndSend(m)
}

// NoopNotifier drops every email
type NoopNotifier struct{}

func (NoopNotifier) SendWelcome(*model.User)                        {}
func (NoopNotifier) SendOrderConfirmation(*model.Order)             {}
func (NoopNotifier) SendTicketAcknowledgement(*model.SupportTicket) {}
