package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vaultprint/internal/http/middleware"
	"vaultprint/internal/mail"
	"vaultprint/internal/model"
	"vaultprint/internal/service"
	serviceMocks "vaultprint/internal/service/mocks"
	"vaultprint/internal/vault"
	vaultMocks "vaultprint/internal/vault/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLiveness(t *testing.T) {
	app := fiber.New()
	app.Get("/", Liveness())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Vault Print API is running", string(b))
}

func TestPrint(t *testing.T) {
	mockSvc := new(serviceMocks.MockPrintService)
	app := fiber.New()
	app.Post("/print", Print(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.PrintReceipt{
			Delivery: mail.Receipt{Provider: mail.ProviderSendGrid, Response: "202 Accepted", MessageID: "sg-1", StatusCode: 202},
			Files: []model.PrintResult{
				{DocumentID: "doc1", Copies: "3", DueDate: "2024-01-10", Filename: "one.pdf"},
				{DocumentID: "doc2", Copies: model.Unspecified, DueDate: model.Unspecified, Filename: "vault_doc2.bin"},
			},
		}
		mockSvc.On("Print", mock.Anything, service.PrintRequest{
			DocumentIDs: []string{"doc1", "doc2"},
			Orders:      map[string]model.OrderMetadata{"doc1": {Copies: "3", DueDate: "2024-01-10"}},
			ToEmail:     "shop@example.com",
		}).Return(expected, nil).Once()

		resp, _ := app.Test(postJSON("/print", `{"documentIds":["doc1","doc2"],"orders":{"doc1":{"copies":"3","dueDate":"2024-01-10"}},"toEmail":"shop@example.com"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Status string              `json:"status"`
			Sent   string              `json:"sent"`
			Info   mail.Receipt        `json:"info"`
			Files  []model.PrintResult `json:"files"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "202 Accepted", body.Sent)
		assert.Equal(t, "sg-1", body.Info.MessageID)
		assert.Equal(t, expected.Files, body.Files)
		mockSvc.AssertExpectations(t)
	})

	t.Run("numeric copies accepted", func(t *testing.T) {
		mockSvc.On("Print", mock.Anything, service.PrintRequest{
			DocumentIDs: []string{"doc1"},
			Orders:      map[string]model.OrderMetadata{"doc1": {Copies: "3"}},
		}).Return(&service.PrintReceipt{}, nil).Once()

		resp, _ := app.Test(postJSON("/print", `{"documentIds":["doc1"],"orders":{"doc1":{"copies":3}}}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	for _, body := range []string{`{"documentIds":`, `{"documentIds":"doc1"}`} {
		t.Run("undecodable body "+body, func(t *testing.T) {
			untouched := new(serviceMocks.MockPrintService)
			app := fiber.New()
			app.Post("/print", Print(untouched))

			resp, _ := app.Test(postJSON("/print", body))

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var res errorPayload
			json.NewDecoder(resp.Body).Decode(&res)
			assert.Equal(t, "invalid request body", res.Error)
			untouched.AssertNotCalled(t, "Print", mock.Anything, mock.Anything)
		})
	}

	tests := []struct {
		name        string
		svcErr      error
		wantStatus  int
		wantMessage string
		wantCode    string
		wantDetails bool
	}{
		{
			name:        "missing documentIds",
			svcErr:      service.ErrDocumentIDsRequired,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "documentIds is required",
			wantCode:    "INVALID_REQUEST",
		},
		{
			name:        "missing recipient",
			svcErr:      service.ErrRecipientRequired,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "toEmail is required",
			wantCode:    "INVALID_REQUEST",
		},
		{
			name:        "vault download failure",
			svcErr:      &vault.RetrievalError{DocumentID: "doc1", Status: http.StatusUnauthorized, Message: "INVALID_SESSION_ID: Invalid or expired session ID."},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "vault download of document doc1 failed (status 401): INVALID_SESSION_ID: Invalid or expired session ID.",
			wantCode:    "VAULT_ERROR",
		},
		{
			name:        "vault authentication failure",
			svcErr:      &vault.AuthenticationError{Status: http.StatusOK, Message: "USERNAME_OR_PASSWORD_INCORRECT: bad credentials"},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "vault authentication failed (status 200): USERNAME_OR_PASSWORD_INCORRECT: bad credentials",
			wantCode:    "VAULT_AUTH_ERROR",
		},
		{
			name: "delivery failure with details",
			svcErr: &mail.DeliveryError{
				Provider:   mail.ProviderSendGrid,
				StatusCode: http.StatusForbidden,
				Details:    map[string]any{"errors": []any{map[string]any{"message": "unverified sender"}}},
				Err:        errors.New("unverified sender"),
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "sendgrid delivery failed (status 403): unverified sender",
			wantCode:    "DELIVERY_ERROR",
			wantDetails: true,
		},
		{
			name:        "unexpected error",
			svcErr:      errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "boom",
			wantCode:    "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc.On("Print", mock.Anything, mock.Anything).Return(nil, tt.svcErr).Once()

			resp, _ := app.Test(postJSON("/print", `{"documentIds":["doc1"]}`))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var res errorPayload
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			assert.Equal(t, tt.wantMessage, res.Error)
			assert.Equal(t, tt.wantCode, res.Code)
			if tt.wantDetails {
				assert.NotNil(t, res.Details)
			} else {
				assert.Nil(t, res.Details)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestTestVault(t *testing.T) {
	mockProbe := new(vaultMocks.MockCredentialSource)
	app := fiber.New()
	app.Get("/test-vault", TestVault(mockProbe))

	t.Run("success", func(t *testing.T) {
		mockProbe.On("SessionID", mock.Anything).Return("session-abc", nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/test-vault", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "Vault reachable", body["message"])
		assert.Equal(t, "session-abc", body["data"])
		mockProbe.AssertExpectations(t)
	})

	t.Run("auth failure", func(t *testing.T) {
		mockProbe.On("SessionID", mock.Anything).Return("", &vault.AuthenticationError{Status: http.StatusUnauthorized, Message: "Unauthorized"}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/test-vault", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VAULT_AUTH_ERROR", res.Code)
		mockProbe.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	newApp := func(probe vault.CredentialSource) *fiber.App {
		app := fiber.New(fiber.Config{
			ErrorHandler: ErrorHandler(),
		})
		app.Use(middleware.RequestID())
		RegisterRoutes(app, new(serviceMocks.MockPrintService), probe)
		return app
	}

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		req.Header.Set(middleware.RequestIDHeader, "rid-404")
		resp, _ := newApp(nil).Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Code)
		assert.Equal(t, "rid-404", res.RequestID)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// /print only allows POST
		req := httptest.NewRequest(http.MethodGet, "/print", nil)
		resp, _ := newApp(nil).Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Code)
	})

	t.Run("test-vault hidden without probe", func(t *testing.T) {
		resp, _ := newApp(nil).Test(httptest.NewRequest(http.MethodGet, "/test-vault", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("test-vault registered with probe", func(t *testing.T) {
		probe := new(vaultMocks.MockCredentialSource)
		probe.On("SessionID", mock.Anything).Return("session-abc", nil).Once()

		resp, _ := newApp(probe).Test(httptest.NewRequest(http.MethodGet, "/test-vault", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		probe.AssertExpectations(t)
	})
}
