// Package barcode adapts the PDF417 symbol encoder to the license service's
// Encoder interface. It owns the rendering parameters (security level, scale,
// ratio, quiet zone, colors); the record pipeline passes text through without
// interpreting any of them.
package barcode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/pdf417"

	"licensegen/internal/license/service"
	"licensegen/internal/platform/config"
	dErrors "licensegen/pkg/domain-errors"
)

// PDF417Encoder renders canonical record text as a scaled PDF417 PNG.
type PDF417Encoder struct {
	securityLevel byte
	scale         int
	ratio         int
	padding       int
	foreground    color.RGBA
	background    color.RGBA
}

// NewPDF417Encoder builds an encoder from the barcode config, falling back to
// defaults for out-of-range values.
func NewPDF417Encoder(cfg config.Barcode) *PDF417Encoder {
	def := config.DefaultBarcode()
	if cfg.SecurityLevel < 0 || cfg.SecurityLevel > 8 {
		cfg.SecurityLevel = def.SecurityLevel
	}
	if cfg.Scale < 1 {
		cfg.Scale = def.Scale
	}
	if cfg.Ratio < 1 {
		cfg.Ratio = def.Ratio
	}
	if cfg.Padding < 0 {
		cfg.Padding = def.Padding
	}
	return &PDF417Encoder{
		securityLevel: byte(cfg.SecurityLevel),
		scale:         cfg.Scale,
		ratio:         cfg.Ratio,
		padding:       cfg.Padding,
		foreground:    parseHexColor(cfg.Foreground, color.RGBA{A: 255}),
		background:    parseHexColor(cfg.Background, color.RGBA{R: 255, G: 255, B: 255, A: 255}),
	}
}

// EncodeAndRender encodes text into a PDF417 symbol and renders it as PNG
// bytes. The operation is a single synchronous unit; a cancelled context
// aborts before any work is done.
func (e *PDF417Encoder) EncodeAndRender(ctx context.Context, text string) (*service.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeEncoding, "encoding cancelled")
	}

	symbol, err := pdf417.Encode(text, e.securityLevel)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeEncoding, "pdf417 encoding failed")
	}

	b := symbol.Bounds()
	targetW := b.Dx() * e.scale
	targetH := b.Dy() * e.scale * e.ratio
	scaled, err := bc.Scale(symbol, targetW, targetH)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeEncoding, "symbol scaling failed")
	}

	img := e.paint(scaled, targetW, targetH)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeEncoding, "png encoding failed")
	}
	return &service.Image{
		PNG:    buf.Bytes(),
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// paint copies the black/white symbol onto a padded canvas in the configured
// colors.
func (e *PDF417Encoder) paint(symbol image.Image, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w+2*e.padding, h+2*e.padding))
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			out.SetRGBA(x, y, e.background)
		}
	}
	sb := symbol.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(symbol.At(sb.Min.X+x, sb.Min.Y+y)).(color.Gray)
			if g.Y < 128 {
				out.SetRGBA(x+e.padding, y+e.padding, e.foreground)
			}
		}
	}
	return out
}

// parseHexColor parses #RGB or #RRGGBB, returning def on malformed input.
func parseHexColor(s string, def color.RGBA) color.RGBA {
	var r, g, b uint8
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return def
		}
	case 4:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x", &r, &g, &b); err != nil {
			return def
		}
		r *= 17
		g *= 17
		b *= 17
	default:
		return def
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
