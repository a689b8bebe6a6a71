package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	Barcode         Barcode
}

// Barcode holds rendering parameters forwarded to the symbol encoder. The
// record pipeline never interprets these; they pass through untouched.
type Barcode struct {
	SecurityLevel int
	Scale         int
	Ratio         int
	Padding       int
	Foreground    string
	Background    string
}

// DefaultBarcode mirrors the rendering parameters the original generator used
// (scale=3, ratio=3) with a standard quiet zone.
func DefaultBarcode() Barcode {
	return Barcode{
		SecurityLevel: 2,
		Scale:         3,
		Ratio:         3,
		Padding:       20,
		Foreground:    "#000000",
		Background:    "#FFFFFF",
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("LICENSEGEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	bc := DefaultBarcode()
	bc.SecurityLevel = envInt("LICENSEGEN_BARCODE_SECURITY", bc.SecurityLevel)
	bc.Scale = envInt("LICENSEGEN_BARCODE_SCALE", bc.Scale)
	bc.Ratio = envInt("LICENSEGEN_BARCODE_RATIO", bc.Ratio)
	bc.Padding = envInt("LICENSEGEN_BARCODE_PADDING", bc.Padding)
	if fg := os.Getenv("LICENSEGEN_BARCODE_FG"); fg != "" {
		bc.Foreground = fg
	}
	if bg := os.Getenv("LICENSEGEN_BARCODE_BG"); bg != "" {
		bc.Background = bg
	}

	return Server{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		Barcode:         bc,
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
