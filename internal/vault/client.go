package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vaultprint/internal/config"
	"vaultprint/internal/model"
)

const (
	authPathFmt     = "/api/%s/auth"
	downloadPathFmt = "/api/%s/objects/documents/%s/file"

	statusSuccess = "SUCCESS"
	statusFailure = "FAILURE"
)

// Fetcher downloads a single document from Vault.
type Fetcher interface {
	Fetch(ctx context.Context, documentID string) (*model.Attachment, error)
}

// CredentialSource yields the session ID used as bearer token on downloads.
type CredentialSource interface {
	SessionID(ctx context.Context) (string, error)
}

// Client talks to the Vault REST API. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	creds      CredentialSource
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for every Vault call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCredentials sets the credential source used by Fetch.
func WithCredentials(cs CredentialSource) Option {
	return func(c *Client) { c.creds = cs }
}

// NewClient builds a client for the configured Vault domain. The domain may be
// given with or without scheme; https is assumed when absent.
// Without WithCredentials the client has no session source and Fetch fails.
func NewClient(cfg config.VaultConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    BaseURL(cfg.Domain),
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout:   cfg.HTTPTimeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig wires a client together with the credential source selected
// by cfg.AuthMode().
func NewFromConfig(cfg config.VaultConfig, opts ...Option) (*Client, CredentialSource) {
	c := NewClient(cfg, opts...)
	var cs CredentialSource
	if cfg.AuthMode() == config.VaultAuthSession {
		cs = StaticSession(cfg.SessionID)
	} else {
		cs = NewPasswordCredentials(c, cfg.Username, cfg.Password)
	}
	c.creds = cs
	return c, cs
}

// BaseURL normalizes a Vault domain into a base URL without trailing slash.
func BaseURL(domain string) string {
	domain = strings.TrimRight(strings.TrimSpace(domain), "/")
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return domain
	}
	return "https://" + domain
}

// apiResponse is the common Vault JSON envelope.
type apiResponse struct {
	ResponseStatus  string `json:"responseStatus"`
	ResponseMessage string `json:"responseMessage"`
	SessionID       string `json:"sessionId"`
	Errors          []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (r apiResponse) errorMessage() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		switch {
		case e.Type != "" && e.Message != "":
			parts = append(parts, e.Type+": "+e.Message)
		case e.Message != "":
			parts = append(parts, e.Message)
		case e.Type != "":
			parts = append(parts, e.Type)
		}
	}
	if len(parts) == 0 {
		return r.ResponseMessage
	}
	return strings.Join(parts, "; ")
}

// Authenticate exchanges username and password for a session ID.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	endpoint := c.baseURL + fmt.Sprintf(authPathFmt, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthenticationError{Status: resp.StatusCode, Err: err}
	}

	var out apiResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.errorMessage()
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &AuthenticationError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", &AuthenticationError{Status: resp.StatusCode, Message: "malformed auth response", Err: decodeErr}
	}
	if out.ResponseStatus != "" && out.ResponseStatus != statusSuccess {
		return "", &AuthenticationError{Status: resp.StatusCode, Message: out.errorMessage()}
	}
	if out.SessionID == "" {
		return "", &AuthenticationError{Status: resp.StatusCode, Message: "response carries no sessionId"}
	}
	return out.SessionID, nil
}

// Fetch acquires a session and downloads the document's file content.
func (c *Client) Fetch(ctx context.Context, documentID string) (*model.Attachment, error) {
	if c.creds == nil {
		return nil, &AuthenticationError{Message: "no credential source configured"}
	}
	sessionID, err := c.creds.SessionID(ctx)
	if err != nil {
		return nil, err
	}
	return c.Download(ctx, sessionID, documentID)
}

// Download retrieves the file of documentID using an existing session.
func (c *Client) Download(ctx context.Context, sessionID, documentID string) (*model.Attachment, error) {
	endpoint := c.baseURL + fmt.Sprintf(downloadPathFmt, c.apiVersion, url.PathEscape(documentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &RetrievalError{DocumentID: documentID, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+sessionID)
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetrievalError{DocumentID: documentID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetrievalError{DocumentID: documentID, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var out apiResponse
		if json.Unmarshal(body, &out) == nil {
			if m := out.errorMessage(); m != "" {
				msg = m
			}
		}
		return nil, &RetrievalError{DocumentID: documentID, Status: resp.StatusCode, Message: msg}
	}

	contentType := ContentTypeFromHeader(resp.Header.Get("Content-Type"))

	// Vault reports some failures as a 200 JSON envelope instead of file bytes.
	if contentType == "application/json" && bytes.Contains(body, []byte(`"responseStatus"`)) {
		var out apiResponse
		if json.Unmarshal(body, &out) == nil && out.ResponseStatus == statusFailure {
			return nil, &RetrievalError{DocumentID: documentID, Status: resp.StatusCode, Message: out.errorMessage()}
		}
	}

	return &model.Attachment{
		Filename:    FilenameFromDisposition(resp.Header.Get("Content-Disposition"), documentID),
		ContentType: contentType,
		Content:     body,
	}, nil
}
