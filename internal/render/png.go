package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// ParsePNGCompression maps a compression name to an encoder level.
func ParsePNGCompression(name string) (png.CompressionLevel, error) {
	switch name {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	default:
		return 0, fmt.Errorf("invalid png compression %q: must be default, speed, best or none", name)
	}
}

// WritePNG encodes img to path, creating parent directories as needed.
func WritePNG(path string, img image.Image, level png.CompressionLevel) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
