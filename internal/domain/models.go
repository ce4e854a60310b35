// Package domain contains the core domain types for the translation dispatcher.
package domain

import "encoding/json"

// Default languages applied when the request omits them.
const (
	DefaultSourceLang = "es"
	DefaultTargetLang = "en"
)

// TranslationRequest is the input to the translation dispatcher.
type TranslationRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// TranslationResult is the response envelope. Exactly one field is set.
type TranslationResult struct {
	TranslatedText string `json:"translated_text,omitempty"`
	Error          string `json:"error,omitempty"`
}

// LanguagePair is an ordered (source, target) translation direction.
type LanguagePair struct {
	Source string
	Target string
}

func (p LanguagePair) String() string {
	return p.Source + "→" + p.Target
}

// wireRequest keeps absent keys distinguishable from empty strings.
type wireRequest struct {
	Text       *string `json:"text"`
	SourceLang *string `json:"source_lang"`
	TargetLang *string `json:"target_lang"`
}

// ParseRequest decodes a JSON body into a TranslationRequest.
// Defaults apply only to keys missing from the body; an explicit
// empty string is kept.
func ParseRequest(body []byte) (TranslationRequest, error) {
	var w wireRequest
	if err := json.Unmarshal(body, &w); err != nil {
		return TranslationRequest{}, err
	}

	req := TranslationRequest{
		SourceLang: DefaultSourceLang,
		TargetLang: DefaultTargetLang,
	}
	if w.Text != nil {
		req.Text = *w.Text
	}
	if w.SourceLang != nil {
		req.SourceLang = *w.SourceLang
	}
	if w.TargetLang != nil {
		req.TargetLang = *w.TargetLang
	}
	return req, nil
}

// MarshalJSON emits only the populated field, so a successful empty
// translation still carries "translated_text".
func (r TranslationResult) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	return json.Marshal(struct {
		TranslatedText string `json:"translated_text"`
	}{r.TranslatedText})
}

// Success builds a result carrying a translation.
func Success(text string) TranslationResult {
	return TranslationResult{TranslatedText: text}
}

// Failure builds a result carrying an error message.
func Failure(msg string) TranslationResult {
	return TranslationResult{Error: msg}
}
