// Package email delivers claimant-facing notifications over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers HTML notifications via a direct SMTP connection using
// go-mail. Replies thread onto the claimant's original message when its
// Message-ID is known.
type Sender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSender creates a Sender with the given SMTP credentials.
func NewSender(host string, port int, username, password, fromEmail, fromName string) *Sender {
	return &Sender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers one HTML message.
func (s *Sender) Send(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent, "")
}

// SendReply delivers one HTML message threaded as a reply to the given
// Message-ID. An empty inReplyTo falls back to a plain send.
func (s *Sender) SendReply(ctx context.Context, toEmail, subject, htmlContent, inReplyTo string) error {
	return s.send(ctx, toEmail, subject, htmlContent, inReplyTo)
}

func (s *Sender) send(ctx context.Context, toEmail, subject, htmlContent, inReplyTo string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)
	if inReplyTo != "" {
		msg.SetGenHeader(gomail.HeaderInReplyTo, inReplyTo)
		msg.SetGenHeader(gomail.HeaderReferences, inReplyTo)
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
