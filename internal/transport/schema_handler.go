package transport

import (
	"errors"
	"net/http"

	"olgish-cakes/internal/domain"
	"olgish-cakes/internal/jsonld"
	"olgish-cakes/internal/middleware"
	"olgish-cakes/internal/repository"
	"olgish-cakes/internal/schema"
	"olgish-cakes/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const scriptContentType = "text/html; charset=utf-8"

// PreviewRequest is an unsaved cake record to build a schema for
type PreviewRequest struct {
	Cake  domain.Cake        `json:"cake"`
	Index int                `json:"index" validate:"gte=0,lte=998"`
	Stats domain.ReviewStats `json:"stats"`
}

// SchemaHandler serves structured-data documents for the storefront
type SchemaHandler struct {
	schemaService service.SchemaService
	logger        *zap.Logger
}

// NewSchemaHandler creates a new SchemaHandler
func NewSchemaHandler(schemaService service.SchemaService, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		logger:        logger,
	}
}

// RegisterRoutes registers the public document routes and the admin routes.
// publicMiddleware wraps every public route, typically with rate limiting.
func (h *SchemaHandler) RegisterRoutes(r chi.Router, authMiddleware, publicMiddleware func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if publicMiddleware != nil {
				r.Use(publicMiddleware)
			}

			r.Get("/cakes/schema", h.GetCatalogSchema)
			r.Get("/cakes/{slug}/schema", h.GetProductSchema)
			r.Get("/cakes/{slug}/schema/script", h.GetProductScript)
			r.Get("/cakes/{slug}/breadcrumbs", h.GetBreadcrumbs)
			r.Get("/business/schema", h.GetBusinessSchema)
			r.Post("/schema/preview", h.Preview)
			r.Post("/schema/validate", h.Validate)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin(h.logger))
			r.Get("/admin/schema/report", h.GetCatalogReport)
			r.Post("/admin/schema/invalidate/{slug}", h.Invalidate)
		})
	})
}

// GetProductSchema returns the Product JSON-LD of one cake
func (h *SchemaHandler) GetProductSchema(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	data, err := h.schemaService.ProductDocument(r.Context(), slug)
	if err != nil {
		h.respondWithLookupError(w, slug, err)
		return
	}

	middleware.RespondWithDocument(w, http.StatusOK, jsonld.ContentType, data)
}

// GetProductScript returns the Product JSON-LD wrapped in a script tag,
// ready to be inlined into the product page head.
func (h *SchemaHandler) GetProductScript(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	data, err := h.schemaService.ProductDocument(r.Context(), slug)
	if err != nil {
		h.respondWithLookupError(w, slug, err)
		return
	}

	middleware.RespondWithDocument(w, http.StatusOK, scriptContentType, jsonld.ScriptTag(data))
}

// GetCatalogSchema returns the ItemList of the catalog page
func (h *SchemaHandler) GetCatalogSchema(w http.ResponseWriter, r *http.Request) {
	data, err := h.schemaService.CatalogDocument(r.Context())
	if err != nil {
		h.logger.Error("Failed to build catalog schema", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build catalog schema")
		return
	}

	middleware.RespondWithDocument(w, http.StatusOK, jsonld.ContentType, data)
}

// GetBreadcrumbs returns the BreadcrumbList of a product page
func (h *SchemaHandler) GetBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	list, err := h.schemaService.Breadcrumbs(r.Context(), slug)
	if err != nil {
		h.respondWithLookupError(w, slug, err)
		return
	}

	data, err := jsonld.Marshal(list)
	if err != nil {
		h.logger.Error("Failed to encode breadcrumbs", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to encode breadcrumbs")
		return
	}

	middleware.RespondWithDocument(w, http.StatusOK, jsonld.ContentType, data)
}

// GetBusinessSchema returns the Bakery document of the business
func (h *SchemaHandler) GetBusinessSchema(w http.ResponseWriter, r *http.Request) {
	data, err := h.schemaService.BusinessDocument(r.Context())
	if err != nil {
		h.logger.Error("Failed to build business schema", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build business schema")
		return
	}

	middleware.RespondWithDocument(w, http.StatusOK, jsonld.ContentType, data)
}

// Preview builds and validates a schema for an unsaved record
func (h *SchemaHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Preview validation failed", zap.Error(err))
		h.respondWithDecodeError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.schemaService.Preview(req.Cake, req.Index, req.Stats))
}

// Validate checks a Product document posted by the caller
func (h *SchemaHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var p schema.Product

	if err := middleware.Decode(r, &p); err != nil {
		h.logger.Debug("Schema decode failed", zap.Error(err))
		h.respondWithDecodeError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.schemaService.Validate(&p))
}

// GetCatalogReport validates the whole catalog as it is currently served
func (h *SchemaHandler) GetCatalogReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.schemaService.CatalogReport(r.Context())
	if err != nil {
		h.logger.Error("Failed to build catalog report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build catalog report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, report)
}

// Invalidate drops cached documents after a cake was edited
func (h *SchemaHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.schemaService.Invalidate(r.Context(), slug); err != nil {
		h.logger.Error("Failed to invalidate cached schemas", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to invalidate cached schemas")
		return
	}

	subject, _ := middleware.GetSubject(r.Context())
	h.logger.Info("Cached schemas invalidated", zap.String("slug", slug), zap.String("subject", subject))
	w.WriteHeader(http.StatusNoContent)
}

func (h *SchemaHandler) respondWithLookupError(w http.ResponseWriter, slug string, err error) {
	if errors.Is(err, repository.ErrCakeNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "cake not found")
		return
	}

	h.logger.Error("Failed to build product schema", zap.String("slug", slug), zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build product schema")
}

func (h *SchemaHandler) respondWithDecodeError(w http.ResponseWriter, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	if errors.Is(err, middleware.ErrEmptyBody) {
		middleware.RespondWithError(w, http.StatusBadRequest, "request body is empty")
		return
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}
