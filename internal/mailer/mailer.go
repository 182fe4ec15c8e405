// Package mailer sends verification codes and broadcast emails. Handlers
// depend on the interfaces so tests can substitute fakes.
package mailer

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
	"github.com/wneessen/go-mail"
)

// CodeSender issues and checks one-time codes for email verification and
// password resets.
type CodeSender interface {
	SendCode(ctx context.Context, email string) error
	CheckCode(ctx context.Context, email, code string) (bool, error)
}

// Broadcaster delivers an admin-authored message to a list of recipients.
type Broadcaster interface {
	Broadcast(ctx context.Context, recipients []string, subject, body string) error
}

// TwilioVerify implements CodeSender on Twilio Verify's email channel.
// Credentials come from TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN, the Verify
// service from TWILIO_VERIFY_SERVICE_SID.
type TwilioVerify struct {
	client     *twilio.RestClient
	serviceSID string
}

func NewTwilioVerify() *TwilioVerify {
	return &TwilioVerify{
		client:     twilio.NewRestClient(),
		serviceSID: os.Getenv("TWILIO_VERIFY_SERVICE_SID"),
	}
}

func (t *TwilioVerify) SendCode(ctx context.Context, email string) error {
	params := &verify.CreateVerificationParams{}
	params.SetTo(email)
	params.SetChannel("email")

	if _, err := t.client.VerifyV2.CreateVerification(t.serviceSID, params); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

func (t *TwilioVerify) CheckCode(ctx context.Context, email, code string) (bool, error) {
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(email)
	params.SetCode(code)

	check, err := t.client.VerifyV2.CreateVerificationCheck(t.serviceSID, params)
	if err != nil {
		return false, fmt.Errorf("check verification code: %w", err)
	}
	return check.Status != nil && *check.Status == "approved", nil
}

// SMTPBroadcaster implements Broadcaster over plain SMTP.
type SMTPBroadcaster struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPBroadcaster reads SMTP_HOST, SMTP_PORT, SMTP_USERNAME,
// SMTP_PASSWORD and MAIL_FROM.
func NewSMTPBroadcaster() *SMTPBroadcaster {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &SMTPBroadcaster{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("MAIL_FROM"),
	}
}

func (b *SMTPBroadcaster) Broadcast(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}

	client, err := mail.NewClient(b.host,
		mail.WithPort(b.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(b.username),
		mail.WithPassword(b.password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	// One message per recipient so addresses are not leaked between users.
	var messages []*mail.Msg
	for _, rcpt := range recipients {
		msg := mail.NewMsg()
		if err := msg.From(b.from); err != nil {
			return fmt.Errorf("broadcast from address: %w", err)
		}
		if err := msg.To(rcpt); err != nil {
			return fmt.Errorf("broadcast recipient %s: %w", rcpt, err)
		}
		msg.Subject(subject)
		msg.SetBodyString(mail.TypeTextHTML, body)
		messages = append(messages, msg)
	}

	if err := client.DialAndSendWithContext(ctx, messages...); err != nil {
		return fmt.Errorf("broadcast send: %w", err)
	}
	return nil
}
