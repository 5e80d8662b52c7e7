package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/billing"
	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
)

// QuoteHandler requêtes HTTP des devis (/api/devis).
type QuoteHandler struct {
	uc       *billing.QuoteUseCase
	validate *billing.ValidateQuoteUseCase
	pdf      *billing.PDFUseCase
}

// NewQuoteHandler construit le handler.
func NewQuoteHandler(uc *billing.QuoteUseCase, validate *billing.ValidateQuoteUseCase, pdf *billing.PDFUseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc, validate: validate, pdf: pdf}
}

// List GET /api/devis
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Get GET /api/devis/:id
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	quote, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quote)
}

// ListByClient GET /api/devis/client/:clientId
func (h *QuoteHandler) ListByClient(c *fiber.Ctx) error {
	list, err := h.uc.ListByClient(c.Context(), c.Params("clientId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ListByStatus GET /api/devis/statut/:statut
func (h *QuoteHandler) ListByStatus(c *fiber.Ctx) error {
	list, err := h.uc.ListByStatus(c.Context(), c.Params("statut"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Create POST /api/devis
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	quote, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

// Update PUT /api/devis/:id
func (h *QuoteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	quote, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quote)
}

// Delete DELETE /api/devis/:id
func (h *QuoteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Validate POST /api/devis/:id/valider
// Convertit le devis en facture, tout ou rien.
func (h *QuoteHandler) Validate(c *fiber.Ctx) error {
	invoice, err := h.validate.Validate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// Reject POST /api/devis/:id/refuser
func (h *QuoteHandler) Reject(c *fiber.Ctx) error {
	quote, err := h.uc.Reject(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quote)
}

// Totals GET /api/devis/:id/totaux
func (h *QuoteHandler) Totals(c *fiber.Ctx) error {
	totals, err := h.uc.Totals(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(totals)
}

// AddLine POST /api/devis/:id/lignes
func (h *QuoteHandler) AddLine(c *fiber.Ctx) error {
	var in dto.QuoteLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	quote, err := h.uc.AddLine(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

// ListLines GET /api/devis/:id/lignes
func (h *QuoteHandler) ListLines(c *fiber.Ctx) error {
	lines, err := h.uc.ListLines(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lines)
}

// PDF GET /api/devis/:id/pdf
func (h *QuoteHandler) PDF(c *fiber.Ctx) error {
	content, filename, err := h.pdf.QuotePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}
