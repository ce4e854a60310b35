// Package handler validates translation requests, dispatches them to the
// strategy serving their language pair and shapes the reply envelope.
// Both hosting adapters (web server and cloud function) call into it.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pricofy/translation-dispatcher/internal/detector"
	"github.com/pricofy/translation-dispatcher/internal/domain"
	"github.com/pricofy/translation-dispatcher/internal/inference"
	"github.com/pricofy/translation-dispatcher/internal/metrics"
	"github.com/pricofy/translation-dispatcher/internal/router"
	"github.com/sirupsen/logrus"
)

// Client-facing messages.
const (
	MsgMissingText   = "No se proporcionó texto para traducir"
	MsgMalformedJSON = "Error en el formato JSON"
	msgUnsupported   = "La traducción de %s a %s no está soportada"
	msgUnknown       = "error interno desconocido"
)

// unsupportedLabel replaces the language labels of requests outside the
// route table so callers cannot mint new metric series.
const unsupportedLabel = "unsupported"

// RequestError is a failure caused by the caller's input.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func badRequest(format string, args ...any) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Reply is the status code and envelope returned to the caller.
type Reply struct {
	Status int
	Result domain.TranslationResult
}

// Translator is a strategy turning text into its translation.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Pipeline returns the candidates of a generic translation model.
type Pipeline interface {
	Translate(ctx context.Context, text string) ([]inference.Candidate, error)
}

// PipelineResolver resolves a generic pipeline by model identifier.
type PipelineResolver func(modelID string) Pipeline

// Detector resolves the "auto" source language.
type Detector interface {
	Detect(text string) (lang string, confidence float64, err error)
}

// Options wires the collaborators of a Dispatcher.
type Options struct {
	// Quechua serves the es→qu pair.
	Quechua Translator

	// Resolve is called on every generic request.
	Resolve PipelineResolver

	// Optional, off unless configured. Without it "auto" is an unsupported
	// source language.
	Detector Detector
}

// Dispatcher holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	quechua  Translator
	resolve  PipelineResolver
	detector Detector
	logger   *logrus.Entry
}

// New creates a Dispatcher.
func New(opts Options) (*Dispatcher, error) {
	if opts.Quechua == nil {
		return nil, fmt.Errorf("quechua translator is required")
	}
	if opts.Resolve == nil {
		return nil, fmt.Errorf("pipeline resolver is required")
	}
	return &Dispatcher{
		quechua:  opts.Quechua,
		resolve:  opts.Resolve,
		detector: opts.Detector,
		logger:   logrus.WithField("component", "dispatcher"),
	}, nil
}

// InvokerResolver resolves pipelines through the model registry.
func InvokerResolver(inv inference.Invoker) PipelineResolver {
	return func(modelID string) Pipeline {
		return inference.NewPipeline(inv, modelID)
	}
}

// HandleJSON decodes a raw request body and handles it.
func (d *Dispatcher) HandleJSON(ctx context.Context, body []byte) Reply {
	req, err := domain.ParseRequest(body)
	if err != nil {
		d.logger.Warnf("malformed request body: %v", err)
		reply := Reply{Status: http.StatusBadRequest, Result: domain.Failure(MsgMalformedJSON)}
		observe(reply, unsupportedLabel, unsupportedLabel)
		return reply
	}
	return d.Handle(ctx, req)
}

// Handle processes a translation request.
func (d *Dispatcher) Handle(ctx context.Context, req domain.TranslationRequest) Reply {
	logger := d.logger.WithFields(logrus.Fields{
		"source_lang": req.SourceLang,
		"target_lang": req.TargetLang,
	})

	translated, err := d.dispatch(ctx, req)
	reply := toReply(translated, err)

	switch {
	case reply.Status >= http.StatusInternalServerError:
		logger.Errorf("translation failed: %v", err)
	case err != nil:
		logger.Warnf("request rejected: %v", err)
	default:
		logger.Debug("translation served")
	}
	observe(reply, req.SourceLang, req.TargetLang)
	return reply
}

func toReply(translated string, err error) Reply {
	if err == nil {
		return Reply{Status: http.StatusOK, Result: domain.Success(translated)}
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return Reply{Status: reqErr.Status, Result: domain.Failure(reqErr.Message)}
	}

	msg := err.Error()
	if msg == "" {
		msg = msgUnknown
	}
	return Reply{Status: http.StatusInternalServerError, Result: domain.Failure(msg)}
}

func observe(reply Reply, source, target string) {
	if !router.IsSupported(source, target) {
		source, target = unsupportedLabel, unsupportedLabel
	}
	metrics.MetricRequests.WithLabelValues(strconv.Itoa(reply.Status), source, target).Inc()
}

// dispatch validates req and runs the strategy for its pair. Any panic
// raised by a strategy is reported as an ordinary failure.
func (d *Dispatcher) dispatch(ctx context.Context, req domain.TranslationRequest) (translated string, err error) {
	if req.Text == "" {
		return "", badRequest(MsgMissingText)
	}

	source, err := d.sourceLang(req)
	if err != nil {
		return "", err
	}
	target := req.TargetLang

	defer func() {
		if r := recover(); r != nil {
			translated = ""
			err = fmt.Errorf("%v", r)
		}
	}()

	// Spanish → Quechua never goes through the route table
	if router.IsQuechua(source, target) {
		return d.quechua.Translate(ctx, req.Text)
	}

	if model, ok := router.Lookup(source, target); ok {
		return d.translateGeneric(ctx, model, req.Text)
	}

	return "", badRequest(msgUnsupported, req.SourceLang, req.TargetLang)
}

func (d *Dispatcher) translateGeneric(ctx context.Context, model, text string) (string, error) {
	pipeline := d.resolve(model)
	candidates, err := pipeline.Translate(ctx, text)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%s returned no translation candidates", model)
	}
	return candidates[0].TranslationText, nil
}

func (d *Dispatcher) sourceLang(req domain.TranslationRequest) (string, error) {
	if req.SourceLang != detector.Auto || d.detector == nil {
		return req.SourceLang, nil
	}

	lang, _, err := d.detector.Detect(req.Text)
	if err != nil {
		return "", &RequestError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	return lang, nil
}
