package handler

import (
	"github.com/gofiber/fiber/v2"

	"vaultprint/internal/model"
	"vaultprint/internal/service"
	"vaultprint/internal/vault"
)

// printRequestBody is the JSON body accepted by POST /print.
type printRequestBody struct {
	DocumentIDs []string                       `json:"documentIds"`
	Orders      map[string]model.OrderMetadata `json:"orders"`
	ToEmail     string                         `json:"toEmail"`
}

// printResponse is returned once the print email is accepted.
type printResponse struct {
	Status string              `json:"status"`
	Sent   string              `json:"sent"`
	Info   any                 `json:"info"`
	Files  []model.PrintResult `json:"files"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// probe may be nil; /test-vault is only exposed when it is set.
func RegisterRoutes(app *fiber.App, printSvc service.PrintService, probe vault.CredentialSource) {
	app.Get("/", Liveness())
	app.Post("/print", Print(printSvc))
	if probe != nil {
		app.Get("/test-vault", TestVault(probe))
	}
}

// Liveness godoc
// @Summary Liveness probe
// @Produce plain
// @Success 200 {string} string "Vault Print API is running"
// @Router / [get]
func Liveness() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString("Vault Print API is running")
	}
}

// Print godoc
// @Summary Email Vault documents to the print shop
// @Accept json
// @Produce json
// @Param request body printRequestBody true "documents to print"
// @Success 200 {object} printResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /print [post]
func Print(printSvc service.PrintService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body printRequestBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid request body", nil)
		}

		receipt, err := printSvc.Print(c.UserContext(), service.PrintRequest{
			DocumentIDs: body.DocumentIDs,
			Orders:      body.Orders,
			ToEmail:     body.ToEmail,
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(printResponse{
			Status: "ok",
			Sent:   receipt.Delivery.Response,
			Info:   receipt.Delivery,
			Files:  receipt.Files,
		})
	}
}

// TestVault godoc
// @Summary Check Vault credentials
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} errorPayload
// @Router /test-vault [get]
func TestVault(probe vault.CredentialSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := probe.SessionID(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Vault reachable",
			"data":    session,
		})
	}
}
