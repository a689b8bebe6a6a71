package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensegen/internal/license/codes"
	"licensegen/internal/license/models"
	"licensegen/internal/platform/metrics"
	dErrors "licensegen/pkg/domain-errors"
	"licensegen/pkg/requestcontext"
)

var frozenNow = time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC)

// fakeEncoder is a hand-written stand-in for the barcode collaborator.
type fakeEncoder struct {
	lastText string
	err      error
}

func (f *fakeEncoder) EncodeAndRender(_ context.Context, text string) (*Image, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return &Image{PNG: []byte("png-bytes"), Width: 120, Height: 60}, nil
}

func newService(enc Encoder) *Service {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return New(codes.NewTables(), enc, metrics.New(prometheus.NewRegistry()), logger)
}

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), frozenNow)
}

func validInput() *models.RawLicenseInput {
	return &models.RawLicenseInput{
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

func TestBuildRecord(t *testing.T) {
	svc := newService(&fakeEncoder{})

	res, err := svc.BuildRecord(testCtx(), validInput())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Text, "@\n\nANSI 636053"))
	assert.Equal(t, "636053", res.IIN)
	assert.Equal(t, "TN", res.Jurisdiction)
}

func TestBuildRecordRejectsInvalidInput(t *testing.T) {
	svc := newService(&fakeEncoder{})

	in := validInput()
	in.State = "XX"
	res, err := svc.BuildRecord(testCtx(), in)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
	assert.Equal(t, "state", dErrors.FieldOf(err))
}

func TestGenerate(t *testing.T) {
	enc := &fakeEncoder{}
	svc := newService(enc)

	res, err := svc.Generate(testCtx(), validInput())
	require.NoError(t, err)
	require.NotNil(t, res.Image)
	assert.Equal(t, []byte("png-bytes"), res.Image.PNG)
	assert.Equal(t, 120, res.Image.Width)
	assert.Equal(t, res.Text, enc.lastText, "encoder receives the canonical text unchanged")
}

func TestGenerateDoesNotEncodeInvalidInput(t *testing.T) {
	enc := &fakeEncoder{}
	svc := newService(enc)

	in := validInput()
	in.HeightInches = "35"
	_, err := svc.Generate(testCtx(), in)
	require.Error(t, err)
	assert.Empty(t, enc.lastText, "no barcode attempt is made on a rejected record")
}

func TestGenerateReportsTextWhenRenderingFails(t *testing.T) {
	enc := &fakeEncoder{err: errors.New("symbol too dense")}
	svc := newService(enc)

	res, err := svc.Generate(testCtx(), validInput())
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeEncoding))
	require.NotNil(t, res, "canonical text stays reportable when rendering fails")
	assert.True(t, strings.HasPrefix(res.Text, "@\n\nANSI 636053"))
	assert.Nil(t, res.Image)
}

func TestGenerateIsDeterministicWithFrozenClock(t *testing.T) {
	svc := newService(&fakeEncoder{})

	a, err := svc.Generate(testCtx(), validInput())
	require.NoError(t, err)
	b, err := svc.Generate(testCtx(), validInput())
	require.NoError(t, err)
	assert.Equal(t, a.Text, b.Text)
}
