// Package models provides data model definitions for AgriLens Core.
package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/agrilens/backend/internal/errors"
)

// Media kinds accepted by the queue.
const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

// PendingMedia represents one offline-captured artifact awaiting remote
// analysis. Captures land here when the immediate analysis call fails or the
// user defers processing; a later sync pass uploads them.
type PendingMedia struct {
	ID              string `db:"id" json:"id"`
	FilePath        string `db:"file_path" json:"filePath"`
	MediaKind       string `db:"media_kind" json:"fileType"`
	VoiceNote       string `db:"voice_note" json:"voiceTranscription"`
	DurationSeconds int    `db:"duration_seconds" json:"durationSeconds"`
	CreatedAt       int64  `db:"created_at" json:"createdAt"` // epoch millis
	IsSynced        bool   `db:"is_synced" json:"isSynced"`
	InlineContent   string `db:"inline_content" json:"base64Content"` // base64 payload for hosts without a filesystem
}

// ToMap produces the flat wire representation of the record. Absent optional
// fields serialize as explicit nulls so stored entries round-trip stably.
func (p *PendingMedia) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":                 p.ID,
		"filePath":           p.FilePath,
		"fileType":           p.MediaKind,
		"voiceTranscription": nil,
		"durationSeconds":    p.DurationSeconds,
		"createdAt":          p.CreatedAt,
		"isSynced":           p.IsSynced,
		"base64Content":      nil,
	}
	if p.VoiceNote != "" {
		m["voiceTranscription"] = p.VoiceNote
	}
	if p.InlineContent != "" {
		m["base64Content"] = p.InlineContent
	}
	return m
}

// FromMap is the inverse of ToMap. Missing or mistyped required fields
// (id, filePath, fileType, createdAt) yield a MALFORMED_RECORD error;
// missing optional fields take their defaults. Unknown keys are ignored.
func FromMap(m map[string]interface{}) (*PendingMedia, error) {
	id, err := requireString(m, "id")
	if err != nil {
		return nil, err
	}
	filePath, err := requireString(m, "filePath")
	if err != nil {
		return nil, err
	}
	kind, err := requireString(m, "fileType")
	if err != nil {
		return nil, err
	}
	if kind != MediaKindImage && kind != MediaKindVideo {
		return nil, apperrors.New(apperrors.ErrMalformedRecord,
			fmt.Sprintf("unknown fileType %q", kind))
	}
	createdAt, ok := intValue(m["createdAt"])
	if !ok {
		return nil, apperrors.New(apperrors.ErrMalformedRecord, "missing or invalid createdAt")
	}

	rec := &PendingMedia{
		ID:        id,
		FilePath:  filePath,
		MediaKind: kind,
		CreatedAt: createdAt,
	}

	if v, ok := optionalString(m["voiceTranscription"]); ok {
		rec.VoiceNote = v
	}
	if v, ok := optionalString(m["base64Content"]); ok {
		rec.InlineContent = v
	}
	if v, ok := intValue(m["durationSeconds"]); ok {
		rec.DurationSeconds = int(v)
	}
	if v, ok := m["isSynced"].(bool); ok {
		rec.IsSynced = v
	}

	return rec, nil
}

// WithSynced returns a copy of the record with the sync flag set. The flag is
// monotonic: passing false never clears an already-synced record.
func (p *PendingMedia) WithSynced(synced bool) *PendingMedia {
	out := *p
	if synced {
		out.IsSynced = true
	}
	return &out
}

// Encode serializes the record to its stored JSON string form.
func (p *PendingMedia) Encode() (string, error) {
	data, err := json.Marshal(p.ToMap())
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrMalformedRecord, "encode record", err)
	}
	return string(data), nil
}

// DecodeRecord parses one stored JSON string back into a record.
func DecodeRecord(s string) (*PendingMedia, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedRecord, "decode record", err)
	}
	return FromMap(m)
}

// CreatedAtTime returns the CreatedAt millis as time.Time.
func (p *PendingMedia) CreatedAtTime() time.Time {
	return time.UnixMilli(p.CreatedAt)
}

// InlineBytes decodes the base64 inline payload. Returns nil when the record
// carries no inline content.
func (p *PendingMedia) InlineBytes() ([]byte, error) {
	if p.InlineContent == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(p.InlineContent)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedRecord, "decode inline content", err)
	}
	return data, nil
}

func requireString(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", apperrors.New(apperrors.ErrMalformedRecord, "missing "+key)
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.New(apperrors.ErrMalformedRecord, key+" is not a string")
	}
	return s, nil
}

func optionalString(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intValue accepts the numeric shapes encoding/json and Go callers produce.
func intValue(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
