// Package router holds the static routing table from language pairs to models.
package router

import (
	"sort"

	"github.com/pricofy/translation-dispatcher/internal/domain"
)

// Model identifiers served by the model registry.
const (
	ModelEnEs    = "Helsinki-NLP/opus-mt-en-es"
	ModelEsEn    = "Helsinki-NLP/opus-mt-es-en"
	ModelQuechua = "somosnlp-hackathon-2022/t5-small-finetuned-spanish-to-quechua"
)

var (
	// Generic opus-mt routes. The Quechua pair is deliberately absent:
	// it is served by its own decoding strategy, never by this table.
	routes = map[domain.LanguagePair]string{
		{Source: "en", Target: "es"}: ModelEnEs,
		{Source: "es", Target: "en"}: ModelEsEn,
	}

	quechuaPair = domain.LanguagePair{Source: "es", Target: "qu"}
)

// Lookup returns the generic model serving source→target.
func Lookup(source, target string) (string, bool) {
	model, ok := routes[domain.LanguagePair{Source: source, Target: target}]
	return model, ok
}

// IsQuechua reports whether the pair is hard-routed to the Quechua decoder.
func IsQuechua(source, target string) bool {
	return domain.LanguagePair{Source: source, Target: target} == quechuaPair
}

// IsSupported reports whether any strategy serves the pair.
func IsSupported(source, target string) bool {
	if IsQuechua(source, target) {
		return true
	}
	_, ok := Lookup(source, target)
	return ok
}

// Route describes one supported pair and the model behind it.
type Route struct {
	Pair      domain.LanguagePair
	Model     string
	Dedicated bool
}

// SupportedRoutes returns every supported pair, sorted by source then target.
func SupportedRoutes() []Route {
	out := make([]Route, 0, len(routes)+1)
	for pair, model := range routes {
		out = append(out, Route{Pair: pair, Model: model})
	}
	out = append(out, Route{Pair: quechuaPair, Model: ModelQuechua, Dedicated: true})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Pair.Source != out[j].Pair.Source {
			return out[i].Pair.Source < out[j].Pair.Source
		}
		return out[i].Pair.Target < out[j].Pair.Target
	})
	return out
}

// SourceLanguages returns the distinct source languages of supported pairs.
func SourceLanguages() []string {
	seen := map[string]bool{}
	var langs []string
	for _, r := range SupportedRoutes() {
		if !seen[r.Pair.Source] {
			seen[r.Pair.Source] = true
			langs = append(langs, r.Pair.Source)
		}
	}
	return langs
}
