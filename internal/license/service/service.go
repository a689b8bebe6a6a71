// Package service orchestrates the license pipeline: validate the raw input,
// build the canonical record text, and hand it to the barcode encoder.
package service

import (
	"context"
	"log/slog"
	"time"

	"licensegen/internal/license/codes"
	"licensegen/internal/license/models"
	"licensegen/internal/license/record"
	"licensegen/internal/license/validate"
	"licensegen/internal/platform/metrics"
	dErrors "licensegen/pkg/domain-errors"
	"licensegen/pkg/requestcontext"
)

// Image is the rendered barcode handed back to the transport layer.
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// Encoder is the external barcode collaborator: canonical text in, rendered
// symbol out. Rendering parameters are the encoder's own configuration; the
// pipeline does not interpret them.
type Encoder interface {
	EncodeAndRender(ctx context.Context, text string) (*Image, error)
}

// BuildResult carries the outcome of the core pipeline.
type BuildResult struct {
	Text         string
	IIN          string
	Jurisdiction string
}

// GenerateResult extends BuildResult with the rendered symbol. When rendering
// fails, the returned result still carries the canonical text: the record is
// valid and reportable independently of the rendering failure.
type GenerateResult struct {
	BuildResult
	Image *Image
}

// Service runs the stateless license pipeline. Safe for concurrent use: it
// holds only immutable tables and the injected collaborators.
type Service struct {
	tables    *codes.Tables
	validator *validate.Validator
	builder   *record.Builder
	encoder   Encoder
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates the license service.
func New(tables *codes.Tables, encoder Encoder, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		tables:    tables,
		validator: validate.New(tables),
		builder:   record.NewBuilder(tables),
		encoder:   encoder,
		metrics:   m,
		logger:    logger,
	}
}

// BuildRecord validates the raw input and renders the canonical record text.
// The clock comes from the request context so a whole request observes one
// "now" and tests can pin it.
func (s *Service) BuildRecord(ctx context.Context, in *models.RawLicenseInput) (*BuildResult, error) {
	rec, err := s.validator.Validate(ctx, in)
	if err != nil {
		s.metrics.IncrementValidationFailure(dErrors.FieldOf(err))
		s.logger.WarnContext(ctx, "input rejected",
			"request_id", requestcontext.RequestID(ctx),
			"field", dErrors.FieldOf(err),
			"reason", dErrors.MessageOf(err),
		)
		return nil, err
	}

	text, err := s.builder.Build(rec, requestcontext.Now(ctx))
	if err != nil {
		s.logger.ErrorContext(ctx, "record build failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		return nil, err
	}

	iin, ok := s.tables.IIN(rec.Jurisdiction)
	if !ok {
		iin = codes.FallbackIIN
	}

	s.metrics.IncrementRecordsBuilt()
	return &BuildResult{Text: text, IIN: iin, Jurisdiction: rec.Jurisdiction}, nil
}

// Generate runs the full pipeline including symbol rendering. On an encoder
// failure the partial result (with Text set) is returned alongside the error
// so callers can still report the canonical text.
func (s *Service) Generate(ctx context.Context, in *models.RawLicenseInput) (*GenerateResult, error) {
	built, err := s.BuildRecord(ctx, in)
	if err != nil {
		return nil, err
	}
	res := &GenerateResult{BuildResult: *built}

	start := time.Now()
	img, err := s.encoder.EncodeAndRender(ctx, built.Text)
	if err != nil {
		s.logger.ErrorContext(ctx, "barcode rendering failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		return res, dErrors.Wrap(err, dErrors.CodeEncoding, "barcode rendering failed")
	}
	s.metrics.ObserveRender(time.Since(start))

	res.Image = img
	return res, nil
}
