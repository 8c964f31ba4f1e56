package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vaultprint/internal/config"
	"vaultprint/internal/logging"
	"vaultprint/internal/mail"
	"vaultprint/internal/model"
	"vaultprint/internal/vault"
)

// ValidationError reports a request the caller must fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrDocumentIDsRequired = &ValidationError{Message: "documentIds is required"}
	ErrEmptyDocumentID     = &ValidationError{Message: "documentIds must not contain empty values"}
	ErrRecipientRequired   = &ValidationError{Message: "toEmail is required"}
)

// PrintRequest is one batch of documents to print.
type PrintRequest struct {
	DocumentIDs []string
	Orders      map[string]model.OrderMetadata
	ToEmail     string
}

// PrintReceipt is returned once the print email has been accepted.
type PrintReceipt struct {
	Delivery mail.Receipt
	Files    []model.PrintResult
}

// PrintService defines the print relay use case.
type PrintService interface {
	// Print fetches every document in order and sends one email carrying all of them.
	// Any fetch failure aborts the batch before anything is sent.
	Print(ctx context.Context, req PrintRequest) (*PrintReceipt, error)
}

type printService struct {
	fetcher   vault.Fetcher
	transport mail.Transport
	from      mail.Address
	subject   string
	defaultTo string
	log       *logging.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

// Option customizes the print service.
type Option func(*printService)

// WithLogger sets the logger; the default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(s *printService) { s.log = l }
}

// WithMetrics sets the Prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(s *printService) { s.metrics = m }
}

// NewPrintService constructs a PrintService.
func NewPrintService(fetcher vault.Fetcher, transport mail.Transport, cfg config.MailConfig, opts ...Option) PrintService {
	s := &printService{
		fetcher:   fetcher,
		transport: transport,
		from:      mail.Address{Name: cfg.FromName, Email: cfg.From},
		subject:   cfg.Subject,
		defaultTo: cfg.DefaultTo,
		log:       logging.Nop(),
		tracer:    otel.Tracer("vaultprint/internal/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *printService) Print(ctx context.Context, req PrintRequest) (*PrintReceipt, error) {
	if len(req.DocumentIDs) == 0 {
		s.metrics.observe(OutcomeInvalid, 0)
		return nil, ErrDocumentIDsRequired
	}
	for _, id := range req.DocumentIDs {
		if strings.TrimSpace(id) == "" {
			s.metrics.observe(OutcomeInvalid, 0)
			return nil, ErrEmptyDocumentID
		}
	}
	to := strings.TrimSpace(req.ToEmail)
	if to == "" {
		to = s.defaultTo
	}
	if to == "" {
		s.metrics.observe(OutcomeInvalid, 0)
		return nil, ErrRecipientRequired
	}

	ctx, span := s.tracer.Start(ctx, "PrintService.Print",
		trace.WithAttributes(attribute.Int("print.documents", len(req.DocumentIDs))))
	defer span.End()

	s.log.Info(ctx, "print_request_received", map[string]any{
		"document_ids": req.DocumentIDs,
		"to":           to,
	})

	// Fetched files stay in this buffer until every document has succeeded.
	attachments := make([]mail.Attachment, 0, len(req.DocumentIDs))
	results := make([]model.PrintResult, 0, len(req.DocumentIDs))

	for _, id := range req.DocumentIDs {
		att, err := s.fetch(ctx, id)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
			s.log.Error(ctx, "print_failed", err, map[string]any{"stage": "fetch", "document_id": id})
			s.metrics.observe(OutcomeFetch, 0)
			return nil, err
		}

		order := req.Orders[id].Resolved()
		attachments = append(attachments, mail.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Disposition: mail.DispositionAttachment,
			Content:     att.Content,
		})
		results = append(results, model.PrintResult{
			DocumentID: id,
			Copies:     order.Copies,
			DueDate:    order.DueDate,
			Filename:   att.Filename,
		})
	}

	text, err := RenderPrintBody(results)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose failed")
		s.log.Error(ctx, "print_failed", err, map[string]any{"stage": "compose"})
		s.metrics.observe(OutcomeDelivery, 0)
		return nil, err
	}

	msg := mail.Message{
		From:        s.from,
		To:          mail.Address{Email: to},
		Subject:     s.subject,
		Text:        text,
		Attachments: attachments,
	}

	s.log.Info(ctx, "print_mail_sending", map[string]any{
		"attachments":   len(attachments),
		"total_size_mb": fmt.Sprintf("%.2f", float64(mail.TotalSize(msg))/1024/1024),
	})

	receipt, err := s.transport.Send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		s.log.Error(ctx, "print_failed", err, map[string]any{"stage": "send"})
		s.metrics.observe(OutcomeDelivery, 0)
		return nil, err
	}

	s.log.Info(ctx, "print_mail_sent", map[string]any{
		"provider":   receipt.Provider,
		"response":   receipt.Response,
		"message_id": receipt.MessageID,
	})
	s.metrics.observe(OutcomeSent, len(attachments))

	return &PrintReceipt{Delivery: *receipt, Files: results}, nil
}

func (s *printService) fetch(ctx context.Context, documentID string) (*model.Attachment, error) {
	ctx, span := s.tracer.Start(ctx, "vault.Fetch",
		trace.WithAttributes(attribute.String("vault.document_id", documentID)))
	defer span.End()

	att, err := s.fetcher.Fetch(ctx, documentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("vault.filename", att.Filename),
		attribute.Int("vault.size_bytes", len(att.Content)),
	)
	s.log.Info(ctx, "vault_fetch_ok", map[string]any{
		"document_id":  documentID,
		"filename":     att.Filename,
		"content_type": att.ContentType,
		"size_bytes":   len(att.Content),
	})
	return att, nil
}
