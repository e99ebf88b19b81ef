// Package remote implements the remote processing side of a sync pass:
// uploading queued captures and retrieving crop-disease diagnoses.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agrilens/backend/internal/models"
)

// AnalysisClient calls the diagnosis endpoint over HTTP.
type AnalysisClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// Diagnosis is the advice returned for one capture.
type Diagnosis struct {
	Disease    string  `json:"disease"`
	Advice     string  `json:"advice"`
	Confidence float64 `json:"confidence"`
}

type analysisRequest struct {
	ID                 string `json:"id"`
	FileType           string `json:"fileType"`
	VoiceTranscription string `json:"voiceTranscription,omitempty"`
	DurationSeconds    int    `json:"durationSeconds"`
	Content            string `json:"content"` // base64 media payload
}

// NewAnalysisClient creates a client for the given endpoint. Request
// deadlines come from the caller's context; each sync attempt is bounded by
// the service's upload timeout.
func NewAnalysisClient(endpoint, apiKey string) *AnalysisClient {
	return &AnalysisClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

// Analyze submits one capture for diagnosis.
func (c *AnalysisClient) Analyze(ctx context.Context, rec *models.PendingMedia, content []byte) (*Diagnosis, error) {
	payload := analysisRequest{
		ID:                 rec.ID,
		FileType:           rec.MediaKind,
		VoiceTranscription: rec.VoiceNote,
		DurationSeconds:    rec.DurationSeconds,
		Content:            base64.StdEncoding.EncodeToString(content),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analysis failed with status %d: %s", resp.StatusCode, string(excerpt))
	}

	var diag Diagnosis
	if err := json.NewDecoder(resp.Body).Decode(&diag); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}
	return &diag, nil
}
