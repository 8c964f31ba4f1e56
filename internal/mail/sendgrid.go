package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vaultprint/internal/config"
)

const (
	ProviderSendGrid = "sendgrid"

	sendGridMailSendPath = "/v3/mail/send"
)

// SendGridTransport delivers messages through the SendGrid v3 Mail Send API.
// Attachments travel base64-encoded inside the JSON payload.
type SendGridTransport struct {
	apiKey string
	host   string
	client *rest.Client
}

// NewSendGridTransport creates a transport for the configured API key.
func NewSendGridTransport(cfg config.SendGridConfig) *SendGridTransport {
	return &SendGridTransport{
		apiKey: cfg.APIKey,
		host:   strings.TrimRight(cfg.Host, "/"),
		client: &rest.Client{HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}},
	}
}

// Send builds the v3 payload for msg and posts it.
func (t *SendGridTransport) Send(ctx context.Context, msg Message) (*Receipt, error) {
	req := sendgrid.GetRequest(t.apiKey, sendGridMailSendPath, t.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(buildV3Mail(msg))

	resp, err := t.client.SendWithContext(ctx, req)
	if err != nil {
		return nil, &DeliveryError{Provider: ProviderSendGrid, Err: err}
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, sendGridError(resp)
	}

	receipt := &Receipt{
		Provider:   ProviderSendGrid,
		Response:   fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode: resp.StatusCode,
	}
	if ids := http.Header(resp.Headers).Values("X-Message-Id"); len(ids) > 0 {
		receipt.MessageID = ids[0]
	}
	return receipt, nil
}

func buildV3Mail(msg Message) *sgmail.SGMailV3 {
	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(msg.From.Name, msg.From.Email))
	m.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Email))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))

	for _, a := range msg.Attachments {
		disposition := a.Disposition
		if disposition == "" {
			disposition = DispositionAttachment
		}
		att := sgmail.NewAttachment().
			SetContent(base64.StdEncoding.EncodeToString(a.Content)).
			SetType(a.ContentType).
			SetFilename(a.Filename).
			SetDisposition(disposition)
		m.AddAttachment(att)
	}
	return m
}

type sendGridErrorBody struct {
	Errors []struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"errors"`
}

// sendGridError keeps the provider body as Details: decoded JSON when
// possible, the raw text otherwise.
func sendGridError(resp *rest.Response) *DeliveryError {
	de := &DeliveryError{Provider: ProviderSendGrid, StatusCode: resp.StatusCode}

	var details any
	if err := json.Unmarshal([]byte(resp.Body), &details); err == nil {
		de.Details = details
	} else if resp.Body != "" {
		de.Details = resp.Body
	}

	var body sendGridErrorBody
	_ = json.Unmarshal([]byte(resp.Body), &body)
	msgs := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		if e.Message != "" {
			msgs = append(msgs, e.Message)
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, http.StatusText(resp.StatusCode))
	}
	de.Err = errors.New(strings.Join(msgs, "; "))
	return de
}
