package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/billing"
	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
)

// LineHandler surface legacy /api/lignes : CRUD direct des lignes de devis.
// Mince par construction, tout délègue aux règles du devis (un devis non
// BROUILLON reste inmodifiable par ce chemin aussi).
type LineHandler struct {
	uc *billing.QuoteUseCase
}

// NewLineHandler construit le handler.
func NewLineHandler(uc *billing.QuoteUseCase) *LineHandler {
	return &LineHandler{uc: uc}
}

// List GET /api/lignes
func (h *LineHandler) List(c *fiber.Ctx) error {
	lines, err := h.uc.ListAllLines(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lines)
}

// Get GET /api/lignes/:id
func (h *LineHandler) Get(c *fiber.Ctx) error {
	line, err := h.uc.GetLine(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(line)
}

// ListByQuote GET /api/lignes/devis/:devisId
func (h *LineHandler) ListByQuote(c *fiber.Ctx) error {
	lines, err := h.uc.ListLines(c.Context(), c.Params("devisId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lines)
}

// Create POST /api/lignes/devis/:devisId
func (h *LineHandler) Create(c *fiber.Ctx) error {
	var in dto.QuoteLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	quote, err := h.uc.AddLine(c.Context(), c.Params("devisId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

// Update PUT /api/lignes/:id
func (h *LineHandler) Update(c *fiber.Ctx) error {
	var in dto.QuoteLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.uc.UpdateLine(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(line)
}

// Delete DELETE /api/lignes/:id
func (h *LineHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteLine(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
