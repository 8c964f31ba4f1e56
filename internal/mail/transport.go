// Package mail delivers print request messages through SMTP or the SendGrid
// Mail Send API. Both transports take the same Message and report a Receipt.
package mail

import (
	"context"
	"fmt"

	"vaultprint/internal/config"
)

// DispositionAttachment marks a MIME part as a downloadable attachment.
const DispositionAttachment = "attachment"

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

// Attachment is one file carried by a Message. Content holds raw bytes;
// transports encode it as their wire format requires.
type Attachment struct {
	Filename    string
	ContentType string
	Disposition string
	Content     []byte
}

// Message is a plain-text email with attachments.
type Message struct {
	From        Address
	To          Address
	Subject     string
	Text        string
	Attachments []Attachment
}

// Receipt is the transport's acknowledgement of an accepted message.
type Receipt struct {
	Provider   string `json:"provider"`
	Response   string `json:"response"`
	MessageID  string `json:"messageId,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// Transport submits a message for delivery.
type Transport interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
}

// NewTransport builds the transport selected by cfg.Transport.
func NewTransport(cfg config.MailConfig) (Transport, error) {
	switch cfg.Transport {
	case config.TransportSMTP:
		return NewSMTPTransport(cfg.SMTP), nil
	case config.TransportSendGrid:
		return NewSendGridTransport(cfg.SendGrid), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}

// DeliveryError is returned when the provider refuses a message. Details holds
// the provider's diagnostic payload when one was returned.
type DeliveryError struct {
	Provider   string
	StatusCode int
	Details    any
	Err        error
}

func (e *DeliveryError) Error() string {
	msg := e.Provider + " delivery failed"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// TotalSize sums the raw attachment bytes of msg.
func TotalSize(msg Message) int {
	n := 0
	for _, a := range msg.Attachments {
		n += len(a.Content)
	}
	return n
}
