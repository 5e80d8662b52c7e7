package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
	"github.com/KhaledEssghaier/DeviSmart/internal/application/usecase"
)

// CompanyHandler profil de l'entreprise émettrice (/api/entreprise, singleton).
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construit le handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get GET /api/entreprise
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	company, err := h.uc.Get(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(company)
}

// Tva GET /api/entreprise/tva
// Taux de TVA par défaut en pourcentage (ex: 19 pour 19%).
func (h *CompanyHandler) Tva(c *fiber.Ctx) error {
	rate, err := h.uc.DefaultTaxRate(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"default_tax_rate": rate})
}

// Save PUT /api/entreprise
// Réécrit le profil. Les compteurs de numérotation sont préservés côté
// serveur quel que soit le body.
func (h *CompanyHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	company, err := h.uc.Save(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(company)
}
