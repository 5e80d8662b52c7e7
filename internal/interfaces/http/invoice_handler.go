package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/billing"
	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
)

// InvoiceHandler requêtes HTTP des factures (/api/factures).
type InvoiceHandler struct {
	uc  *billing.InvoiceUseCase
	pdf *billing.PDFUseCase
}

// NewInvoiceHandler construit le handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf}
}

// List GET /api/factures
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Get GET /api/factures/:id
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	invoice, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// GetByNumber GET /api/factures/numero/:numero
func (h *InvoiceHandler) GetByNumber(c *fiber.Ctx) error {
	invoice, err := h.uc.GetByNumber(c.Context(), c.Params("numero"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// ListByClient GET /api/factures/client/:clientId
func (h *InvoiceHandler) ListByClient(c *fiber.Ctx) error {
	list, err := h.uc.ListByClient(c.Context(), c.Params("clientId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ListByStatus GET /api/factures/statut/:statut
func (h *InvoiceHandler) ListByStatus(c *fiber.Ctx) error {
	list, err := h.uc.ListByStatus(c.Context(), c.Params("statut"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Create POST /api/factures/creer
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// CreateManual POST /api/factures/creer-manuelle
func (h *InvoiceHandler) CreateManual(c *fiber.Ctx) error {
	var in dto.CreateManualInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.CreateManual(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// Update PUT /api/factures/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Delete DELETE /api/factures/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Actions de statut ─────────────────────────────────────────────────────────

// MarkPaid POST /api/factures/:id/payer
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	invoice, err := h.uc.MarkPaid(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// MarkUnpaid POST /api/factures/:id/impayer
func (h *InvoiceHandler) MarkUnpaid(c *fiber.Ctx) error {
	invoice, err := h.uc.MarkUnpaid(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// MarkOverdue POST /api/factures/:id/retard
func (h *InvoiceHandler) MarkOverdue(c *fiber.Ctx) error {
	invoice, err := h.uc.MarkOverdue(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Cancel POST /api/factures/:id/annuler
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	invoice, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// ── Lignes ────────────────────────────────────────────────────────────────────

// AddLine POST /api/factures/:id/lignes
func (h *InvoiceHandler) AddLine(c *fiber.Ctx) error {
	var in dto.InvoiceLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.AddLine(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// UpdateLine PUT /api/factures/:id/lignes/:ligneId
func (h *InvoiceHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.InvoiceLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.UpdateLine(c.Context(), c.Params("id"), c.Params("ligneId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// RemoveLine DELETE /api/factures/:id/lignes/:ligneId
func (h *InvoiceHandler) RemoveLine(c *fiber.Ctx) error {
	invoice, err := h.uc.RemoveLine(c.Context(), c.Params("id"), c.Params("ligneId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// ── Totaux et statistiques ────────────────────────────────────────────────────

// Totals GET /api/factures/:id/totaux
func (h *InvoiceHandler) Totals(c *fiber.Ctx) error {
	totals, err := h.uc.Totals(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(totals)
}

// Recompute POST /api/factures/:id/recalculer
func (h *InvoiceHandler) Recompute(c *fiber.Ctx) error {
	invoice, err := h.uc.RecomputeTotals(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Stats GET /api/factures/stats
func (h *InvoiceHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Statistics(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// PDF GET /api/factures/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	content, filename, err := h.pdf.InvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}
