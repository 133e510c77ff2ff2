package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"timebill/billing"
	"timebill/config"
	"timebill/database"
	"timebill/handlers"
	"timebill/middleware"
	"timebill/render"
	"timebill/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := config.GetLogger()

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if cfg.SeedDemoData {
		if err := database.SeedDemo(); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	db := database.GetDB()
	entryStore := database.NewTimeEntryStore(db)
	invoiceStore := database.NewInvoiceStore(db)
	runStore := database.NewRunStore(db)
	documentStore := storage.NewFileStore(cfg.InvoiceDir)

	workflow := billing.NewWorkflow(
		entryStore,
		invoiceStore,
		runStore,
		documentStore,
		render.Render,
		[]string{cfg.IssuerName, cfg.IssuerAddress},
		log,
	)

	// Initialize handlers
	invoiceHandler := handlers.NewInvoiceHandler(workflow, invoiceStore, log)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Generated documents are served statically
	router.Handle("/invoices/*", http.StripPrefix("/invoices/",
		http.FileServer(http.Dir(documentStore.Dir()))))

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Post("/invoices", invoiceHandler.Create)
		r.Get("/invoices", invoiceHandler.List)
		r.Get("/invoices/{id}", invoiceHandler.Get)
	})

	log.Infof("Server starting on port %s", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
