// Package inference talks to the external model registry that hosts the
// pretrained sequence-to-sequence models.
package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pricofy/translation-dispatcher/internal/metrics"
)

// Operations understood by model workers.
const (
	OpLoad      = "load"
	OpTranslate = "translate"
	OpTokenize  = "tokenize"
	OpGenerate  = "generate"
	OpDecode    = "decode"
)

// Invoker delivers a JSON payload to the worker hosting modelID and
// returns its raw JSON reply.
type Invoker interface {
	Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error)
}

// WorkerRequest is the request envelope for model workers.
type WorkerRequest struct {
	Operation         string           `json:"operation"`
	Inputs            []string         `json:"inputs,omitempty"`
	InputIDs          [][]int          `json:"input_ids,omitempty"`
	Sequences         [][]int          `json:"sequences,omitempty"`
	Parameters        *GenerateOptions `json:"parameters,omitempty"`
	SkipSpecialTokens bool             `json:"skip_special_tokens,omitempty"`
}

// WorkerResponse is the response envelope from model workers.
type WorkerResponse struct {
	Model           string      `json:"model,omitempty"`
	SpecialTokenIDs []int       `json:"special_token_ids,omitempty"`
	Outputs         []Candidate `json:"outputs,omitempty"`
	InputIDs        [][]int     `json:"input_ids,omitempty"`
	Sequences       [][]int     `json:"sequences,omitempty"`
	Texts           []string    `json:"texts,omitempty"`
	Error           string      `json:"error,omitempty"`
}

// Candidate is one translation hypothesis.
type Candidate struct {
	TranslationText string `json:"translation_text"`
}

// call runs one operation against modelID and decodes the reply.
func call(ctx context.Context, inv Invoker, modelID string, req WorkerRequest) (*WorkerResponse, error) {
	start := time.Now()
	resp, err := doCall(ctx, inv, modelID, req)

	result := "success"
	if err != nil {
		result = "failed"
	}
	metrics.MetricInferenceDuration.WithLabelValues(modelID, req.Operation).Observe(time.Since(start).Seconds())
	metrics.MetricInferenceCalls.WithLabelValues(modelID, req.Operation, result).Inc()
	return resp, err
}

func doCall(ctx context.Context, inv Invoker, modelID string, req WorkerRequest) (*WorkerResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", req.Operation, err)
	}

	raw, err := inv.Invoke(ctx, modelID, payload)
	if err != nil {
		return nil, err
	}

	var resp WorkerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", req.Operation, err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("model error: %s", resp.Error)
	}

	return &resp, nil
}
