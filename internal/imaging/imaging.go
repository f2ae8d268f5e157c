package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"
)

// MaxDimension is the largest accepted width or height.
const MaxDimension = 8192

// Info describes an accepted image.
type Info struct {
	MIME   string
	Format string
	Width  int
	Height int
}

// Inspect validates image data by sniffing its bytes and decoding its header.
// The client-declared content type is not consulted.
func Inspect(data []byte) (*Info, error) {
	detected := http.DetectContentType(data)
	if !strings.HasPrefix(detected, "image/") {
		return nil, fmt.Errorf("unsupported content: %s", detected)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("image has no pixels")
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("image too large: %dx%d (max %d)", cfg.Width, cfg.Height, MaxDimension)
	}

	return &Info{
		MIME:   detected,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// IsImageMIME reports whether a declared content type names an image.
func IsImageMIME(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
