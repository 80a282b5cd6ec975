package handlers

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postforge/internal/service"
)

type ExportHandler struct {
	as service.ApprovalService
}

func NewExportHandler(as service.ApprovalService) *ExportHandler {
	return &ExportHandler{as: as}
}

// ListExports returns every adapter's manual-import artifact for the set.
// Data is base64 so CSV bytes survive the JSON envelope untouched.
func (h *ExportHandler) ListExports(c *fiber.Ctx) error {
	postSetID := c.Params("id")

	exports, err := h.as.Exports(c.Context(), postSetID)
	if err != nil {
		return errorJSON(c, err)
	}

	payload := make([]fiber.Map, 0, len(exports))
	for _, export := range exports {
		payload = append(payload, fiber.Map{
			"adapter":  export.Adapter,
			"format":   export.Format,
			"filename": export.Filename,
			"data":     base64.StdEncoding.EncodeToString([]byte(export.Data)),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"exports": payload})
}

// DownloadExport streams one adapter's artifact as a file attachment.
func (h *ExportHandler) DownloadExport(c *fiber.Ctx) error {
	postSetID := c.Params("id")
	adapterName := c.Query("adapter")

	exports, err := h.as.Exports(c.Context(), postSetID)
	if err != nil {
		return errorJSON(c, err)
	}

	for _, export := range exports {
		if export.Adapter != adapterName {
			continue
		}
		contentType := "text/csv"
		if export.Format == "json" {
			contentType = "application/json"
		}
		c.Set("Content-Type", contentType)
		c.Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
		return c.SendString(export.Data)
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "No export for adapter " + adapterName,
	})
}
