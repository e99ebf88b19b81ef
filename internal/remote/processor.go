package remote

import (
	"context"
	"fmt"
	"os"
	"path"

	"go.uber.org/zap"

	"github.com/agrilens/backend/internal/logging"
	"github.com/agrilens/backend/internal/models"
	"github.com/agrilens/backend/internal/queue"
)

// BlobStore is the archive destination for raw capture blobs.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
}

// Processor is the shipped queue.RemoteProcessor: it archives the capture
// blob (when a blob store is configured) and submits it for diagnosis.
type Processor struct {
	analysis *AnalysisClient
	blobs    BlobStore // nil disables archiving
	log      *zap.SugaredLogger
}

var _ queue.RemoteProcessor = (*Processor)(nil)

// NewProcessor creates a Processor. blobs may be nil.
func NewProcessor(analysis *AnalysisClient, blobs BlobStore, log *zap.SugaredLogger) *Processor {
	if log == nil {
		log = logging.Nop()
	}
	return &Processor{analysis: analysis, blobs: blobs, log: log}
}

// Process implements queue.RemoteProcessor.
func (p *Processor) Process(ctx context.Context, rec *models.PendingMedia) error {
	content, err := contentFor(rec)
	if err != nil {
		return err
	}

	if p.blobs != nil {
		key := "queue/" + rec.ID + extensionFor(rec)
		if err := p.blobs.Upload(ctx, key, contentTypeFor(rec), content); err != nil {
			return err
		}
	}

	diag, err := p.analysis.Analyze(ctx, rec, content)
	if err != nil {
		return err
	}

	p.log.Infow("capture analyzed", "id", rec.ID, "disease", diag.Disease,
		"confidence", diag.Confidence)
	return nil
}

// contentFor resolves the record's media bytes. Inline content is
// authoritative when present; otherwise the device-local file is read.
func contentFor(rec *models.PendingMedia) ([]byte, error) {
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

func contentTypeFor(rec *models.PendingMedia) string {
	if rec.MediaKind == models.MediaKindVideo {
		return "video/mp4"
	}
	if path.Ext(rec.FilePath) == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}

func extensionFor(rec *models.PendingMedia) string {
	if ext := path.Ext(rec.FilePath); ext != "" {
		return ext
	}
	if rec.MediaKind == models.MediaKindVideo {
		return ".mp4"
	}
	return ".jpg"
}
