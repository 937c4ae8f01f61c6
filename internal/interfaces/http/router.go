package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumora-agency/lumora-api/internal/application/billing"
	"github.com/lumora-agency/lumora-api/internal/application/reconciliation"
)

// RouterDeps holds the router dependencies.
type RouterDeps struct {
	Ledger  *billing.LedgerUseCase
	PDF     *billing.PDFUseCase
	Sync    *reconciliation.SyncUseCase
	Matcher *reconciliation.MatcherUseCase
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Financial documents
	documents := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Ledger, deps.PDF)
	documents.Post("/", documentHandler.Create)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Put("/:id/lines", documentHandler.UpdateLines)
	documents.Post("/:id/issue", documentHandler.Issue)
	documents.Post("/:id/validate", documentHandler.Validate)
	documents.Post("/:id/refuse", documentHandler.Refuse)
	documents.Post("/:id/pay", documentHandler.MarkPaid)
	documents.Post("/:id/cancel", documentHandler.Cancel)
	documents.Get("/:id/pdf", documentHandler.RenderPDF)

	// Bank reconciliation
	bank := api.Group("/bank")
	reconciliationHandler := NewReconciliationHandler(deps.Sync, deps.Matcher)
	bank.Post("/sync", reconciliationHandler.Sync)
	bank.Get("/transactions", reconciliationHandler.ListUnassociated)
	bank.Get("/transactions/:id/suggestions", reconciliationHandler.Suggest)
	bank.Post("/transactions/:id/associate", reconciliationHandler.Associate)
}
