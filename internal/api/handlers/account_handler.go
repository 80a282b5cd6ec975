package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postforge/internal/service"
	"github.com/maheshrc27/postforge/internal/transfer"
)

type AccountHandler struct {
	s service.AccountService
}

func NewAccountHandler(service service.AccountService) *AccountHandler {
	return &AccountHandler{s: service}
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var ac transfer.AccountCreation
	if err := c.BodyParser(&ac); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	account, err := h.s.Create(c.Context(), &ac)
	if err != nil {
		return errorJSON(c, err)
	}

	// never echo the stored credential
	account.OpenAIKey = ""
	return c.Status(fiber.StatusCreated).JSON(account)
}

func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	accountID := c.Query("id")

	if accountID != "" {
		account, err := h.s.Get(c.Context(), accountID)
		if err != nil {
			return errorJSON(c, err)
		}
		account.OpenAIKey = ""
		return c.Status(fiber.StatusOK).JSON(account)
	}

	accounts, err := h.s.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list accounts",
		})
	}
	for _, account := range accounts {
		account.OpenAIKey = ""
	}
	return c.Status(fiber.StatusOK).JSON(accounts)
}

func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	accountID := c.Params("id")

	account, err := h.s.Get(c.Context(), accountID)
	if err != nil {
		return errorJSON(c, err)
	}

	if err := c.BodyParser(account); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}
	account.ID = accountID

	if err := h.s.Update(c.Context(), account); err != nil {
		return errorJSON(c, err)
	}

	account.OpenAIKey = ""
	return c.Status(fiber.StatusOK).JSON(account)
}

func (h *AccountHandler) RemoveAccount(c *fiber.Ctx) error {
	accountID := c.Params("id")

	if err := h.s.Remove(c.Context(), accountID); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
