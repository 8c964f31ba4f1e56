package vault

import "context"

// StaticSession is a pre-provisioned Vault session ID.
type StaticSession string

// SessionID returns the configured session.
func (s StaticSession) SessionID(context.Context) (string, error) {
	if s == "" {
		return "", &AuthenticationError{Message: "session id is empty"}
	}
	return string(s), nil
}

// PasswordCredentials performs a fresh username/password exchange every time a
// session is requested. Sessions are never cached.
type PasswordCredentials struct {
	client   *Client
	username string
	password string
}

// NewPasswordCredentials binds credentials to the client used for the exchange.
func NewPasswordCredentials(c *Client, username, password string) *PasswordCredentials {
	return &PasswordCredentials{client: c, username: username, password: password}
}

// SessionID authenticates against Vault and returns the new session ID.
func (p *PasswordCredentials) SessionID(ctx context.Context) (string, error) {
	return p.client.Authenticate(ctx, p.username, p.password)
}
