package vault

import "fmt"

// AuthenticationError is returned when Vault rejects the credential exchange
// or answers without a usable session ID.
type AuthenticationError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	msg := "vault authentication failed"
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RetrievalError is returned when a document file cannot be downloaded.
type RetrievalError struct {
	DocumentID string
	Status     int
	Message    string
	Err        error
}

func (e *RetrievalError) Error() string {
	msg := fmt.Sprintf("vault download of document %s failed", e.DocumentID)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RetrievalError) Unwrap() error { return e.Err }
