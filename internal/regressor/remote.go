package regressor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"AlphaMind/internal/model"
)

// Remote delegates training and prediction to an external model service.
//
//	POST {base}/train    {"windows":[{"x":[[...]],"y":0.5}]}  -> {"model_id":"..."}
//	POST {base}/predict  {"model_id":"...","x":[[...]]}       -> {"prediction":0.5}
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote creates a remote trainer. A non-positive timeout means 60s.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Remote{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

type wireWindow struct {
	X [][]float64 `json:"x"`
	Y float64     `json:"y"`
}

type trainRequest struct {
	Windows []wireWindow `json:"windows"`
}

type trainResponse struct {
	ModelID string `json:"model_id"`
}

type predictRequest struct {
	ModelID string      `json:"model_id"`
	X       [][]float64 `json:"x"`
}

type predictResponse struct {
	Prediction float64 `json:"prediction"`
}

func (r *Remote) Train(ctx context.Context, windows []model.Window) (Model, error) {
	req := trainRequest{Windows: make([]wireWindow, len(windows))}
	for i, w := range windows {
		req.Windows[i] = wireWindow{X: w.X, Y: w.Y}
	}
	var resp trainResponse
	if err := r.postJSON(ctx, "/train", req, &resp); err != nil {
		return nil, &TrainingError{Backend: "remote", Err: err}
	}
	if resp.ModelID == "" {
		return nil, &TrainingError{Backend: "remote", Err: errors.New("service returned no model id")}
	}
	return &RemoteModel{remote: r, id: resp.ModelID}, nil
}

// RemoteModel is a handle to a model trained by the service.
type RemoteModel struct {
	remote *Remote
	id     string
}

// ID returns the service-side model identifier.
func (m *RemoteModel) ID() string { return m.id }

func (m *RemoteModel) PredictOne(ctx context.Context, x [][]float64) (float64, error) {
	var resp predictResponse
	if err := m.remote.postJSON(ctx, "/predict", predictRequest{ModelID: m.id, X: x}, &resp); err != nil {
		return 0, err
	}
	return resp.Prediction, nil
}

// postJSON posts payload to path under baseURL and decodes the JSON reply into dest.
func (r *Remote) postJSON(ctx context.Context, path string, payload, dest interface{}) error {
	if r.baseURL == "" {
		return errors.New("model service url not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s: status %d, body: %s", path, resp.StatusCode, string(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
