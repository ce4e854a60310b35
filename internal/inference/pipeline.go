package inference

import (
	"context"
)

// Pipeline is a "translation" pipeline bound to one pretrained model.
type Pipeline struct {
	invoker Invoker
	model   string
}

// NewPipeline resolves a translation pipeline by model identifier.
func NewPipeline(inv Invoker, modelID string) *Pipeline {
	return &Pipeline{invoker: inv, model: modelID}
}

// Model returns the identifier the pipeline was resolved with.
func (p *Pipeline) Model() string {
	return p.model
}

// Translate returns the model's candidates for text, best first.
func (p *Pipeline) Translate(ctx context.Context, text string) ([]Candidate, error) {
	resp, err := call(ctx, p.invoker, p.model, WorkerRequest{
		Operation: OpTranslate,
		Inputs:    []string{text},
	})
	if err != nil {
		return nil, err
	}
	return resp.Outputs, nil
}
