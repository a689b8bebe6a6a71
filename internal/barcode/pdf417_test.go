package barcode

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensegen/internal/platform/config"
	dErrors "licensegen/pkg/domain-errors"
)

const sampleText = "@\n\nANSI 636053060002DL00410257ZT02980037DL\nDAQABC123\nDCSDOE\nDACJOHN"

func TestEncodeAndRender(t *testing.T) {
	enc := NewPDF417Encoder(config.DefaultBarcode())

	img, err := enc.EncodeAndRender(context.Background(), sampleText)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.NotEmpty(t, img.PNG)
	assert.Greater(t, img.Width, 0)
	assert.Greater(t, img.Height, 0)

	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	require.NoError(t, err, "output is a decodable PNG")
	assert.Equal(t, img.Width, decoded.Bounds().Dx())
	assert.Equal(t, img.Height, decoded.Bounds().Dy())
}

func TestCancelledContextAborts(t *testing.T) {
	enc := NewPDF417Encoder(config.DefaultBarcode())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := enc.EncodeAndRender(ctx, sampleText)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeEncoding))
}

func TestPaddingGrowsCanvas(t *testing.T) {
	cfg := config.DefaultBarcode()
	cfg.Padding = 0
	bare, err := NewPDF417Encoder(cfg).EncodeAndRender(context.Background(), sampleText)
	require.NoError(t, err)

	cfg.Padding = 10
	padded, err := NewPDF417Encoder(cfg).EncodeAndRender(context.Background(), sampleText)
	require.NoError(t, err)

	assert.Equal(t, bare.Width+20, padded.Width)
	assert.Equal(t, bare.Height+20, padded.Height)
}

func TestParseHexColor(t *testing.T) {
	def := color.RGBA{A: 255}

	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, parseHexColor("#FF0000", def))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, parseHexColor("#fff", def))
	assert.Equal(t, def, parseHexColor("red", def))
	assert.Equal(t, def, parseHexColor("", def))
}
