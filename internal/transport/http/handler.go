// Package httptransport is the thin HTTP layer over the license service. It
// delegates to the service without embedding business logic so transport
// concerns remain isolated.
package httptransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"licensegen/internal/license/codes"
	"licensegen/internal/license/models"
	"licensegen/internal/license/service"
	"licensegen/internal/platform/middleware"
	"licensegen/internal/transport/http/shared"
	dErrors "licensegen/pkg/domain-errors"
)

// Service defines the pipeline operations the handler needs.
type Service interface {
	Generate(ctx context.Context, in *models.RawLicenseInput) (*service.GenerateResult, error)
}

// Handler handles the generator endpoints.
type Handler struct {
	svc    Service
	tables *codes.Tables
	logger *slog.Logger
}

// New creates a new generator Handler.
func New(svc Service, tables *codes.Tables, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, tables: tables, logger: logger}
}

// Register mounts the generator routes with the standard middleware chain.
func (h *Handler) Register(r chi.Router) {
	gen := chi.NewRouter()
	gen.Use(middleware.Recovery(h.logger))
	gen.Use(middleware.RequestID)
	gen.Use(middleware.RequestTime)
	gen.Use(middleware.Logger(h.logger))
	gen.Use(middleware.Timeout(30 * time.Second))
	gen.Use(middleware.ContentTypeJSON)
	gen.Get("/", h.handleHealth)
	gen.Get("/states", h.handleStates)
	gen.Get("/validation", h.handleValidation)
	gen.Post("/generate", h.handleGenerate)

	r.Mount("/", gen)
}

// GenerateResponse mirrors the original generator's success payload.
type GenerateResponse struct {
	Success    bool           `json:"success"`
	Barcode    string         `json:"barcode"`
	AnsiData   string         `json:"ansi_data"`
	ImageSize  [2]int         `json:"image_size"`
	Validation ValidationInfo `json:"validation"`
}

// ValidationInfo is the compliance block attached to successful responses.
type ValidationInfo struct {
	DataLength   int    `json:"data_length"`
	BarcodeSize  [2]int `json:"barcode_size"`
	StateIIN     string `json:"state_iin"`
	Jurisdiction string `json:"jurisdiction"`
	Compliant    bool   `json:"compliant"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.RawLicenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.WarnContext(ctx, "invalid generate request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	res, err := h.svc.Generate(ctx, &in)
	if err != nil {
		// A rendering failure does not invalidate the record: report the
		// canonical text alongside the error.
		if dErrors.Is(err, dErrors.CodeEncoding) && res != nil {
			shared.WriteJSON(w, http.StatusBadGateway, map[string]any{
				"error":     string(dErrors.CodeEncoding),
				"message":   dErrors.MessageOf(err),
				"ansi_data": res.Text,
			})
			return
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, GenerateResponse{
		Success:   true,
		Barcode:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(res.Image.PNG),
		AnsiData:  res.Text,
		ImageSize: [2]int{res.Image.Width, res.Image.Height},
		Validation: ValidationInfo{
			DataLength:   len(res.Text),
			BarcodeSize:  [2]int{res.Image.Width, res.Image.Height},
			StateIIN:     res.IIN,
			Jurisdiction: res.Jurisdiction,
			Compliant:    true,
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "PDF417 generator API is running",
	})
}

func (h *Handler) handleStates(w http.ResponseWriter, _ *http.Request) {
	jurisdictions := h.tables.Jurisdictions()
	iins := make(map[string]string, len(jurisdictions))
	for _, code := range jurisdictions {
		iin, _ := h.tables.IIN(code)
		iins[code] = iin
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"supported_states": jurisdictions,
		"iins":             iins,
	})
}

func (h *Handler) handleValidation(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"eye_colors":   h.tables.EyeColors(),
		"hair_colors":  h.tables.HairColors(),
		"sexes":        h.tables.Sexes(),
		"height_range": [2]int{36, 96},
		"weight_range": [2]int{50, 999},
		"date_format":  "MMDDYYYY",
	})
}
