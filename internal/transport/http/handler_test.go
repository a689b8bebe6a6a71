package httptransport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"licensegen/internal/license/codes"
	"licensegen/internal/license/models"
	"licensegen/internal/license/service"
	"licensegen/internal/platform/metrics"
	"licensegen/pkg/testutil"
)

// fakeEncoder stands in for the PDF417 collaborator so handler tests exercise
// the real validation and building pipeline without image work.
type fakeEncoder struct {
	err error
}

func (f *fakeEncoder) EncodeAndRender(_ context.Context, _ string) (*service.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.Image{PNG: []byte{0x89, 'P', 'N', 'G'}, Width: 120, Height: 60}, nil
}

// HandlerSuite provides shared setup: a real service over chi + httptest.
type HandlerSuite struct {
	suite.Suite
	router  http.Handler
	encoder *fakeEncoder
}

func (s *HandlerSuite) SetupTest() {
	s.encoder = &fakeEncoder{}
	tables := codes.NewTables()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(tables, s.encoder, metrics.New(prometheus.NewRegistry()), logger)

	r := chi.NewRouter()
	New(svc, tables, logger).Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func validInput() models.RawLicenseInput {
	return models.RawLicenseInput{
		DLNumber:     "ABC123",
		FirstName:    "JOHN",
		LastName:     "DOE",
		Address:      "123 MAIN ST",
		City:         "NASHVILLE",
		State:        "TN",
		ZipCode:      "37203",
		Sex:          "M",
		HeightInches: "72",
		BirthDate:    "04151988",
		IssueDate:    "07282025",
		ExpiryDate:   "07282033",
		EyeColor:     "BRO",
	}
}

func (s *HandlerSuite) TestGenerateSuccess() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/generate", validInput())
	rec := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	resp := testutil.UnmarshalResponse[GenerateResponse](s.T(), rec)
	assert.True(s.T(), resp.Success)
	assert.True(s.T(), strings.HasPrefix(resp.Barcode, "data:image/png;base64,"))
	assert.True(s.T(), strings.HasPrefix(resp.AnsiData, "@\n\nANSI 636053"))
	assert.Contains(s.T(), resp.AnsiData, "DAQABC123")
	assert.Contains(s.T(), resp.AnsiData, "DAYBRO")
	assert.Equal(s.T(), "636053", resp.Validation.StateIIN)
	assert.Equal(s.T(), "TN", resp.Validation.Jurisdiction)
	assert.Equal(s.T(), [2]int{120, 60}, resp.ImageSize)
	assert.Equal(s.T(), len(resp.AnsiData), resp.Validation.DataLength)
}

func (s *HandlerSuite) TestGenerateInvalidJSON() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/generate", "not valid json")
	rec := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rec, http.StatusBadRequest)
	testutil.AssertErrorCode(s.T(), rec, "bad_request")
}

func (s *HandlerSuite) TestGenerateUnknownJurisdiction() {
	in := validInput()
	in.State = "XX"
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/generate", in)
	rec := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rec, http.StatusBadRequest)
	errResp := testutil.UnmarshalErrorResponse(s.T(), rec)
	assert.Equal(s.T(), "validation_failed", errResp["error"])
	assert.Equal(s.T(), "state", errResp["field"])
}

func (s *HandlerSuite) TestGenerateValidationErrorNamesField() {
	in := validInput()
	in.ZipCode = "372"
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/generate", in)
	rec := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rec, http.StatusBadRequest)
	errResp := testutil.UnmarshalErrorResponse(s.T(), rec)
	assert.Equal(s.T(), "zip_code", errResp["field"])
	assert.NotEmpty(s.T(), errResp["message"])
}

func (s *HandlerSuite) TestGenerateEncoderFailureStillReportsText() {
	s.encoder.err = errors.New("symbol too dense")

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/generate", validInput())
	rec := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rec, http.StatusBadGateway)
	errResp := testutil.UnmarshalErrorResponse(s.T(), rec)
	assert.Equal(s.T(), "encoding_failed", errResp["error"])
	assert.True(s.T(), strings.HasPrefix(errResp["ansi_data"], "@\n\nANSI 636053"),
		"canonical text is reported even when rendering fails")
}

func (s *HandlerSuite) TestGenerateRejectsNonJSONContentType() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/generate", validInput())
	req.Header.Set("Content-Type", "text/plain")
	rec := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rec, http.StatusUnsupportedMediaType)
}

func (s *HandlerSuite) TestHealth() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/", nil)
	rec := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rec, http.StatusOK)
	resp := testutil.UnmarshalErrorResponse(s.T(), rec) // plain map[string]string
	assert.NotEmpty(s.T(), resp["message"])
}

func (s *HandlerSuite) TestStates() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/states", nil)
	rec := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	type statesResponse struct {
		SupportedStates []string          `json:"supported_states"`
		IINs            map[string]string `json:"iins"`
	}
	resp := testutil.UnmarshalResponse[statesResponse](s.T(), rec)
	assert.Len(s.T(), resp.SupportedStates, 56)
	assert.Equal(s.T(), "636053", resp.IINs["TN"])
}

func (s *HandlerSuite) TestValidation() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/validation", nil)
	rec := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rec, http.StatusOK)

	type validationResponse struct {
		EyeColors   []string `json:"eye_colors"`
		HairColors  []string `json:"hair_colors"`
		Sexes       []string `json:"sexes"`
		HeightRange [2]int   `json:"height_range"`
		DateFormat  string   `json:"date_format"`
	}
	resp := testutil.UnmarshalResponse[validationResponse](s.T(), rec)
	assert.Contains(s.T(), resp.EyeColors, "BRO")
	assert.Contains(s.T(), resp.HairColors, "UNK")
	assert.Equal(s.T(), []string{"F", "M", "X"}, resp.Sexes)
	assert.Equal(s.T(), [2]int{36, 96}, resp.HeightRange)
	assert.Equal(s.T(), "MMDDYYYY", resp.DateFormat)
	require.NotEmpty(s.T(), resp.DateFormat)
}

func (s *HandlerSuite) TestRequestIDEchoed() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/", nil)
	rec := testutil.DoRequest(s.router, req)

	assert.NotEmpty(s.T(), rec.Header().Get("X-Request-ID"))
}
