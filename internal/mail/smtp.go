package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	netmail "net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"vaultprint/internal/config"
)

const ProviderSMTP = "smtp"

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPTransport delivers messages through an authenticated SMTP relay such as
// Gmail or smtp.sendgrid.net. STARTTLS is negotiated by net/smtp when offered.
type SMTPTransport struct {
	addr     string
	host     string
	username string
	password string
	sendMail sendMailFunc
	now      func() time.Time
}

// NewSMTPTransport creates a transport for the configured relay.
func NewSMTPTransport(cfg config.SMTPConfig) *SMTPTransport {
	return &SMTPTransport{
		addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		host:     cfg.Host,
		username: cfg.Username,
		password: cfg.Password,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
}

// Send renders msg as multipart/mixed MIME and submits it.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, &DeliveryError{Provider: ProviderSMTP, Err: err}
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), messageIDDomain(msg.From.Email))
	raw, err := buildMIME(msg, messageID, t.now())
	if err != nil {
		return nil, &DeliveryError{Provider: ProviderSMTP, Err: err}
	}

	var auth smtp.Auth
	if t.username != "" {
		auth = smtp.PlainAuth("", t.username, t.password, t.host)
	}

	if err := t.sendMail(t.addr, auth, msg.From.Email, []string{msg.To.Email}, raw); err != nil {
		de := &DeliveryError{Provider: ProviderSMTP, Err: err}
		if tpErr, ok := err.(*textproto.Error); ok {
			de.StatusCode = tpErr.Code
			de.Details = tpErr.Msg
		}
		return nil, de
	}

	return &Receipt{
		Provider:  ProviderSMTP,
		Response:  "accepted by " + t.addr,
		MessageID: messageID,
	}, nil
}

func messageIDDomain(from string) string {
	if _, domain, ok := strings.Cut(from, "@"); ok && domain != "" {
		return domain
	}
	return "vaultprint.local"
}

func formatAddress(a Address) string {
	return (&netmail.Address{Name: a.Name, Address: a.Email}).String()
}

// buildMIME renders an RFC 5322 message with a quoted-printable text part
// followed by one base64 part per attachment.
func buildMIME(msg Message, messageID string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", formatAddress(msg.From))
	fmt.Fprintf(&buf, "To: %s\r\n", formatAddress(msg.To))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", date.Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: %s\r\n", messageID)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=UTF-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, err
	}
	qp := quotedprintable.NewWriter(textPart)
	if _, err := qp.Write([]byte(msg.Text)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}

	for _, a := range msg.Attachments {
		contentType := mime.FormatMediaType(a.ContentType, map[string]string{"name": a.Filename})
		if contentType == "" {
			contentType = mime.FormatMediaType("application/octet-stream", map[string]string{"name": a.Filename})
		}
		disposition := a.Disposition
		if disposition == "" {
			disposition = DispositionAttachment
		}
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType(disposition, map[string]string{"filename": a.Filename})},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64Lines(part, a.Content); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBase64Lines wraps encoded content at 76 characters per RFC 2045.
func writeBase64Lines(w io.Writer, content []byte) error {
	const lineLen = 76
	enc := base64.StdEncoding.EncodeToString(content)
	for len(enc) > 0 {
		n := min(lineLen, len(enc))
		if _, err := fmt.Fprintf(w, "%s\r\n", enc[:n]); err != nil {
			return err
		}
		enc = enc[n:]
	}
	return nil
}
