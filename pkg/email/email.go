// Package email delivers the OTP verification message over SMTP.
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"enterprise-blog/pkg/config"
	"enterprise-blog/pkg/logger"
)

const otpSubject = "Verify Your Email Address"

type Sender interface {
	SendOTPEmail(to, code, name string) error
}

type message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	otpTTL   time.Duration
	logger   *logger.Logger
	send     func(msg message) error
}

func NewSMTPSender(cfg *config.Config, log *logger.Logger) *SMTPSender {
	s := &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.SMTPFrom,
		otpTTL:   cfg.OTPTTL,
		logger:   log,
	}
	s.send = s.deliver
	return s
}

func (s *SMTPSender) SendOTPEmail(to, code, name string) error {
	if name == "" {
		name = "there"
	}

	html, err := RenderOTP(OTPData{Name: name, Code: code, ExpiresInMinutes: int(s.otpTTL.Minutes())})
	if err != nil {
		return err
	}

	if err := s.send(message{From: s.from, To: to, Subject: otpSubject, HTML: html}); err != nil {
		s.logger.Error("Failed to send verification email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Verification email sent to %s", to)
	return nil
}

func (s *SMTPSender) deliver(msg message) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	// 465 speaks TLS from the first byte; everything else upgrades with STARTTLS inside SendMail.
	if s.port != 465 {
		return smtp.SendMail(addr, auth, msg.From, []string{msg.To}, buildMessage(msg))
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.host})
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(msg.From); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(msg message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

type OTPData struct {
	Name             string
	Code             string
	ExpiresInMinutes int
}

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Email Verification</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #667eea; color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
    .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
    .otp-code { font-size: 32px; font-weight: bold; color: #667eea; letter-spacing: 5px; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Welcome to EnterpriseBlog!</h1>
      <p>Please verify your email address to complete your registration</p>
    </div>
    <div class="content">
      <h2>Hello {{.Name}}!</h2>
      <p>To complete your registration, please enter the following verification code:</p>
      <div class="otp-code">{{.Code}}</div>
      <p>This code will expire in {{.ExpiresInMinutes}} minutes.</p>
      <p>If you didn't create an account with EnterpriseBlog, you can safely ignore this email.</p>
    </div>
  </div>
</body>
</html>`))

func RenderOTP(data OTPData) (string, error) {
	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}
