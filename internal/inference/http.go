package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed response ends up in the error.
const maxErrorBody = 512

// HTTPInvoker reaches model workers behind an HTTP model registry:
// POST <baseURL>/models/<model id>.
type HTTPInvoker struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPInvoker creates an HTTPInvoker.
func NewHTTPInvoker(baseURL, token string, timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTPInvoker) endpoint(modelID string) string {
	parts := strings.Split(modelID, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return h.baseURL + "/models/" + strings.Join(parts, "/")
}

// Invoke posts the payload to the model endpoint.
func (h *HTTPInvoker) Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error) {
	endpoint := h.endpoint(modelID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", modelID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", modelID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("model registry error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
