package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/auth"
	"github.com/KhaledEssghaier/DeviSmart/internal/application/billing"
	"github.com/KhaledEssghaier/DeviSmart/internal/application/usecase"
)

// RouterDeps dépendances du router.
type RouterDeps struct {
	QuoteUC    *billing.QuoteUseCase
	ValidateUC *billing.ValidateQuoteUseCase
	InvoiceUC  *billing.InvoiceUseCase
	ClientUC   *billing.ClientUseCase
	PDFUC      *billing.PDFUseCase
	CompanyUC  *usecase.CompanyUseCase
	AuthUC     *auth.UseCase
	JWTSecret  string
}

// Router enregistre les routes de l'API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Routes protégées (Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Devis
	quotes := protected.Group("/devis")
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.ValidateUC, deps.PDFUC)
	quotes.Get("/", quoteHandler.List)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/client/:clientId", quoteHandler.ListByClient)
	quotes.Get("/statut/:statut", quoteHandler.ListByStatus)
	quotes.Get("/:id", quoteHandler.Get)
	quotes.Put("/:id", quoteHandler.Update)
	quotes.Delete("/:id", quoteHandler.Delete)
	quotes.Post("/:id/valider", quoteHandler.Validate)
	quotes.Post("/:id/refuser", quoteHandler.Reject)
	quotes.Get("/:id/totaux", quoteHandler.Totals)
	quotes.Get("/:id/lignes", quoteHandler.ListLines)
	quotes.Post("/:id/lignes", quoteHandler.AddLine)
	quotes.Get("/:id/pdf", quoteHandler.PDF)

	// Factures
	invoices := protected.Group("/factures")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/creer", invoiceHandler.Create)
	invoices.Post("/creer-manuelle", invoiceHandler.CreateManual)
	invoices.Get("/stats", invoiceHandler.Stats)
	invoices.Get("/numero/:numero", invoiceHandler.GetByNumber)
	invoices.Get("/client/:clientId", invoiceHandler.ListByClient)
	invoices.Get("/statut/:statut", invoiceHandler.ListByStatus)
	invoices.Get("/:id", invoiceHandler.Get)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/payer", invoiceHandler.MarkPaid)
	invoices.Post("/:id/impayer", invoiceHandler.MarkUnpaid)
	invoices.Post("/:id/retard", invoiceHandler.MarkOverdue)
	invoices.Post("/:id/annuler", invoiceHandler.Cancel)
	invoices.Get("/:id/totaux", invoiceHandler.Totals)
	invoices.Post("/:id/recalculer", invoiceHandler.Recompute)
	invoices.Post("/:id/lignes", invoiceHandler.AddLine)
	invoices.Put("/:id/lignes/:ligneId", invoiceHandler.UpdateLine)
	invoices.Delete("/:id/lignes/:ligneId", invoiceHandler.RemoveLine)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	// Lignes de devis (surface legacy)
	lines := protected.Group("/lignes")
	lineHandler := NewLineHandler(deps.QuoteUC)
	lines.Get("/", lineHandler.List)
	lines.Get("/devis/:devisId", lineHandler.ListByQuote)
	lines.Post("/devis/:devisId", lineHandler.Create)
	lines.Get("/:id", lineHandler.Get)
	lines.Put("/:id", lineHandler.Update)
	lines.Delete("/:id", lineHandler.Delete)

	// Clients
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/email/:email", clientHandler.GetByEmail)
	clients.Get("/:id", clientHandler.Get)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Entreprise (profil singleton)
	company := protected.Group("/entreprise")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	company.Get("/", companyHandler.Get)
	company.Get("/tva", companyHandler.Tva)
	company.Put("/", companyHandler.Save)
	company.Post("/", companyHandler.Save)
}
