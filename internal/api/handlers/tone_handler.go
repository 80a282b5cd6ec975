package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postforge/internal/llm"
	"github.com/maheshrc27/postforge/internal/service"
	"github.com/maheshrc27/postforge/internal/transfer"
)

type ToneHandler struct {
	s service.ToneService
}

func NewToneHandler(service service.ToneService) *ToneHandler {
	return &ToneHandler{s: service}
}

// AnalyzeTone extracts a brand voice from a website or pasted past posts
// and stores it on the account.
func (h *ToneHandler) AnalyzeTone(c *fiber.Ctx) error {
	var req transfer.ToneAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}
	if req.AccountID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "account_id is required",
		})
	}

	var analysis *llm.ToneAnalysis
	var err error
	switch {
	case req.Type == "website" && req.WebsiteURL != "":
		analysis, err = h.s.AnalyzeWebsite(c.Context(), req.AccountID, req.WebsiteURL)
	case req.Type == "csv" && req.CSVData != "":
		analysis, err = h.s.AnalyzeCSV(c.Context(), req.AccountID, req.CSVData)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Either website_url (type website) or csv_data (type csv) is required",
		})
	}
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"analysis": analysis,
	})
}
