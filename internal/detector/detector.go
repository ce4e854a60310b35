// Package detector resolves the "auto" source language with lingua.
package detector

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
	"github.com/sirupsen/logrus"
)

// Auto is the source_lang value that requests detection.
const Auto = "auto"

// Detector picks the most likely language among a fixed candidate set.
type Detector struct {
	detector            lingua.LanguageDetector
	confidenceThreshold float64
	logger              *logrus.Entry
}

// New builds a Detector restricted to the given ISO 639-1 codes.
func New(codes []string, confidenceThreshold float64) (*Detector, error) {
	if confidenceThreshold < 0 || confidenceThreshold > 1 {
		return nil, fmt.Errorf("confidence threshold must in 0-1")
	}

	allLanguages := map[string]lingua.Language{}
	for _, l := range lingua.AllLanguages() {
		allLanguages[l.IsoCode639_1().String()] = l
	}

	logger := logrus.WithField("component", "detector")
	availableLangs := []lingua.Language{}
	for _, code := range codes {
		// lingua uses upper case ISO codes
		l, ok := allLanguages[strings.ToUpper(code)]
		if !ok {
			return nil, fmt.Errorf("unsupported language: %s", code)
		}
		logger.Debugf("found detect language: %s", code)
		availableLangs = append(availableLangs, l)
	}

	if len(availableLangs) < 2 {
		return nil, fmt.Errorf("at least two detect languages are required, got %d", len(availableLangs))
	}

	return &Detector{
		detector:            lingua.NewLanguageDetectorBuilder().FromLanguages(availableLangs...).Build(),
		confidenceThreshold: confidenceThreshold,
		logger:              logger,
	}, nil
}

// Detect returns the ISO 639-1 code of text and its confidence.
func (d *Detector) Detect(text string) (lang string, confidence float64, err error) {
	for _, cv := range d.detector.ComputeLanguageConfidenceValues(text) {
		l := strings.ToLower(cv.Language().IsoCode639_1().String())
		c := cv.Value()
		if c > confidence {
			lang = l
			confidence = c
		}
	}

	if lang == "" || confidence < d.confidenceThreshold {
		err = fmt.Errorf("no se pudo detectar el idioma de origen")
		return
	}

	d.logger.Debugf("detected %s with confidence %.2f", lang, confidence)
	return
}
