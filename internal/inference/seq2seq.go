package inference

import (
	"context"
	"fmt"
)

// GenerateOptions controls sequence generation.
type GenerateOptions struct {
	NumBeams      int  `json:"num_beams"`
	MaxLength     int  `json:"max_length"`
	EarlyStopping bool `json:"early_stopping"`
}

// Tokenizer converts between text and the model's token ids.
type Tokenizer struct {
	invoker       Invoker
	model         string
	specialTokens map[int]bool
}

// Seq2SeqModel is a pretrained encoder-decoder model.
type Seq2SeqModel struct {
	invoker Invoker
	model   string
}

// LoadSeq2Seq loads the model and its paired tokenizer from the registry.
func LoadSeq2Seq(ctx context.Context, inv Invoker, modelID string) (*Tokenizer, *Seq2SeqModel, error) {
	resp, err := call(ctx, inv, modelID, WorkerRequest{Operation: OpLoad})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", modelID, err)
	}

	special := make(map[int]bool, len(resp.SpecialTokenIDs))
	for _, id := range resp.SpecialTokenIDs {
		special[id] = true
	}

	tok := &Tokenizer{invoker: inv, model: modelID, specialTokens: special}
	m := &Seq2SeqModel{invoker: inv, model: modelID}
	return tok, m, nil
}

// Encode returns the token ids of text.
func (t *Tokenizer) Encode(ctx context.Context, text string) ([]int, error) {
	resp, err := call(ctx, t.invoker, t.model, WorkerRequest{
		Operation: OpTokenize,
		Inputs:    []string{text},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.InputIDs) == 0 {
		return nil, fmt.Errorf("tokenizer returned no input ids")
	}
	return resp.InputIDs[0], nil
}

// Decode turns ids back into text. With skipSpecial, special tokens
// (padding, end of sequence) are dropped before decoding.
func (t *Tokenizer) Decode(ctx context.Context, ids []int, skipSpecial bool) (string, error) {
	if skipSpecial {
		ids = t.stripSpecial(ids)
	}
	resp, err := call(ctx, t.invoker, t.model, WorkerRequest{
		Operation:         OpDecode,
		Sequences:         [][]int{ids},
		SkipSpecialTokens: skipSpecial,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Texts) == 0 {
		return "", fmt.Errorf("tokenizer returned no text")
	}
	return resp.Texts[0], nil
}

func (t *Tokenizer) stripSpecial(ids []int) []int {
	if len(t.specialTokens) == 0 {
		return ids
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !t.specialTokens[id] {
			out = append(out, id)
		}
	}
	return out
}

// Generate produces output sequences for ids, best first.
func (m *Seq2SeqModel) Generate(ctx context.Context, ids []int, opts GenerateOptions) ([][]int, error) {
	resp, err := call(ctx, m.invoker, m.model, WorkerRequest{
		Operation:  OpGenerate,
		InputIDs:   [][]int{ids},
		Parameters: &opts,
	})
	if err != nil {
		return nil, err
	}
	return resp.Sequences, nil
}
