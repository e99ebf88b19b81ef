// Package media provides preview helpers for queued captures.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"

	"github.com/agrilens/backend/internal/models"
)

// DefaultThumbnailWidth matches the gallery tile size of the capture UI.
const DefaultThumbnailWidth = 320

// Thumbnail renders a JPEG preview of a queued image record, preserving the
// aspect ratio at the given width (DefaultThumbnailWidth when width <= 0).
// Video records have no inline preview and return an error.
func Thumbnail(rec *models.PendingMedia, width int) ([]byte, error) {
	if rec.MediaKind != models.MediaKindImage {
		return nil, fmt.Errorf("no thumbnail for media kind %q", rec.MediaKind)
	}
	if width <= 0 {
		width = DefaultThumbnailWidth
	}

	content, err := contentBytes(rec)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", rec.ID, err)
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, fmt.Errorf("encode thumbnail %s: %w", rec.ID, err)
	}
	return buf.Bytes(), nil
}

func contentBytes(rec *models.PendingMedia) ([]byte, error) {
	if rec.InlineContent != "" {
		return rec.InlineBytes()
	}
	if rec.FilePath == "" {
		return nil, fmt.Errorf("record %s has neither file path nor inline content", rec.ID)
	}
	data, err := os.ReadFile(rec.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read capture file: %w", err)
	}
	return data, nil
}
