package domain

import (
	"encoding/json"
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    TranslationRequest
		wantErr bool
	}{
		{
			name: "all fields",
			body: `{"text":"Hello","source_lang":"en","target_lang":"es"}`,
			want: TranslationRequest{Text: "Hello", SourceLang: "en", TargetLang: "es"},
		},
		{
			name: "defaults",
			body: `{"text":"Hola mundo"}`,
			want: TranslationRequest{Text: "Hola mundo", SourceLang: "es", TargetLang: "en"},
		},
		{
			name: "explicit empty languages are kept",
			body: `{"text":"Hola","source_lang":"","target_lang":""}`,
			want: TranslationRequest{Text: "Hola"},
		},
		{
			name: "null fields fall back to defaults",
			body: `{"text":null,"source_lang":null}`,
			want: TranslationRequest{SourceLang: "es", TargetLang: "en"},
		},
		{
			name: "unknown fields ignored",
			body: `{"text":"Hola","target_lang":"qu","foo":1}`,
			want: TranslationRequest{Text: "Hola", SourceLang: "es", TargetLang: "qu"},
		},
		{name: "malformed", body: `{"text":`, wantErr: true},
		{name: "wrong type", body: `{"text":42}`, wantErr: true},
		{name: "not an object", body: `["Hola"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRequest() expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequest() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTranslationResult_MarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		result TranslationResult
		want   string
	}{
		{"success", Success("Hello world"), `{"translated_text":"Hello world"}`},
		{"empty success", Success(""), `{"translated_text":""}`},
		{"failure", Failure("Error en el formato JSON"), `{"error":"Error en el formato JSON"}`},
		{"error wins", TranslationResult{TranslatedText: "x", Error: "boom"}, `{"error":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("json.Marshal() unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("json.Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLanguagePair_String(t *testing.T) {
	if got := (LanguagePair{Source: "es", Target: "qu"}).String(); got != "es→qu" {
		t.Errorf("String() = %q, want %q", got, "es→qu")
	}
}
