package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"product-showcase-service/internal/auth"
	"product-showcase-service/internal/service"
)

// Stable error codes returned in ErrorResponse.Code.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
	CodeRateLimited  = "RATE_LIMITED"
	CodeUnauthorized = "UNAUTHORIZED"
)

// maxBodyBytes bounds submission payloads; the largest valid one is well under this.
const maxBodyBytes = 64 << 10

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	svc      *service.Service
	verifier *auth.Verifier
	limiter  *IPRateLimiter
	log      zerolog.Logger
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
// A nil limiter disables rate limiting.
func NewHTTPHandler(svc *service.Service, verifier *auth.Verifier, limiter *IPRateLimiter, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, verifier: verifier, limiter: limiter, log: logger}
}

// RegisterRoutes mounts the product routes under /api/v1.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products/{productId}", func(r chi.Router) {
		r.With(h.verifier.OptionalAuth).Get("/", h.GetProductDetail)
		r.Get("/related", h.GetRelatedProducts)
		r.Get("/reviews", h.ListApprovedReviews)

		r.Group(func(r chi.Router) {
			if h.limiter != nil {
				r.Use(h.limiter.Limit)
			}
			r.Post("/quote", h.SubmitQuote)
			r.With(h.verifier.RequireAuth).Post("/reviews", h.SubmitReview)
		})
	})
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error   string                   `json:"error"`
	Code    string                   `json:"code"`
	Details []service.FieldViolation `json:"details,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// Headers are already out; nothing more can be sent.
			log.Error().Err(err).Msg("Failed to encode JSON response")
		}
	}
}

// respondWithError maps service errors to status codes. Unclassified errors are
// logged and reported as a generic 500.
func (h *HTTPHandler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *service.ValidationError
		nerr *service.NotFoundError
		cerr *service.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Message, Code: CodeValidation, Details: verr.Violations})
	case errors.As(err, &nerr):
		respondWithJSON(w, http.StatusNotFound, ErrorResponse{Error: nerr.Error(), Code: CodeNotFound})
	case errors.As(err, &cerr):
		respondWithJSON(w, http.StatusConflict, ErrorResponse{Error: cerr.Message, Code: CodeConflict})
	default:
		h.log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "invalid request payload"
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		return &service.ValidationError{
			Message:    msg,
			Violations: []service.FieldViolation{{Field: "body", Rule: "json", Message: err.Error()}},
		}
	}
	return nil
}

func (h *HTTPHandler) productID(r *http.Request) (int64, error) {
	return service.ParseProductID(chi.URLParam(r, "productId"))
}

// --- Product Handlers ---

func (h *HTTPHandler) GetProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := h.productID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	view, err := h.svc.GetProductDetail(r.Context(), id, auth.IdentityFrom(r.Context()))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) GetRelatedProducts(w http.ResponseWriter, r *http.Request) {
	id, err := h.productID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	related, err := h.svc.GetRelatedProducts(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, related)
}

func (h *HTTPHandler) ListApprovedReviews(w http.ResponseWriter, r *http.Request) {
	id, err := h.productID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	list, err := h.svc.ListApprovedReviews(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

// --- Submission Handlers ---

func (h *HTTPHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: CodeUnauthorized})
		return
	}
	id, err := h.productID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var input service.ReviewInput
	if err := decodeBody(w, r, &input); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	res, err := h.svc.SubmitReview(r.Context(), id, principal.UserID, principal.UserName, input)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, res)
}

func (h *HTTPHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	id, err := h.productID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var input service.QuoteInput
	if err := decodeBody(w, r, &input); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	res, err := h.svc.SubmitQuote(r.Context(), id, input)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, res)
}
