package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Unspecified is recorded for order fields the caller left out.
const Unspecified = "unspecified"

// OrderMetadata carries the print instructions for a single document.
type OrderMetadata struct {
	Copies  string `json:"copies,omitempty"`
	DueDate string `json:"dueDate,omitempty"`
}

// UnmarshalJSON also accepts JSON numbers for copies and dueDate, keeping
// their literal text ("copies": 3 becomes "3").
func (o *OrderMetadata) UnmarshalJSON(b []byte) error {
	var raw struct {
		Copies  json.RawMessage `json:"copies"`
		DueDate json.RawMessage `json:"dueDate"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	copies, err := scalarText(raw.Copies)
	if err != nil {
		return fmt.Errorf("copies: %w", err)
	}
	dueDate, err := scalarText(raw.DueDate)
	if err != nil {
		return fmt.Errorf("dueDate: %w", err)
	}
	o.Copies, o.DueDate = copies, dueDate
	return nil
}

func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Resolved returns a copy with empty fields replaced by Unspecified.
func (o OrderMetadata) Resolved() OrderMetadata {
	if o.Copies == "" {
		o.Copies = Unspecified
	}
	if o.DueDate == "" {
		o.DueDate = Unspecified
	}
	return o
}

// Attachment is a document downloaded from Vault, held in memory only for the
// lifetime of one print request.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// PrintResult is the per-document receipt returned to the caller.
type PrintResult struct {
	DocumentID string `json:"documentId"`
	Copies     string `json:"copies"`
	DueDate    string `json:"dueDate"`
	Filename   string `json:"filename"`
}
