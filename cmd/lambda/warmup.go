// Package main contains the Lambda warmup handler for preventing cold starts.
// CloudWatch Events trigger this handler periodically to keep Lambda instances
// warm and the Quechua model loaded.
package main

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/pricofy/translation-dispatcher/internal/app"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// WarmupSource identifies warmup events from CloudWatch
	WarmupSource = "warmup"

	// WarmupDelay ensures instances overlap to create true concurrency
	WarmupDelay = 75 * time.Millisecond
)

// WarmupEvent represents the CloudWatch Event payload for warmup
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is the response returned by warmup operations
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
	ModelLoaded     bool   `json:"modelLoaded"`
}

// invoker is the part of the Lambda client used for self-invocation.
type invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// newInvoker is replaced in tests.
var newInvoker = func(ctx context.Context) (invoker, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return lambdasdk.NewFromConfig(cfg), nil
}

// IsWarmupEvent reports whether event is a warmup ping. Concurrency is
// optional and read leniently: numbers are truncated, integer strings are
// accepted and anything else (negative included) means 0.
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var eventMap map[string]interface{}
	if err := json.Unmarshal(event, &eventMap); err != nil {
		return nil, false
	}

	source, ok := eventMap["source"].(string)
	if !ok || source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: source}

	var concurrency float64
	switch v := eventMap["concurrency"].(type) {
	case float64:
		concurrency = v
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		concurrency = float64(n)
	}
	if concurrency > 0 {
		warmup.Concurrency = int(concurrency)
	}

	return warmup, true
}

// HandleWarmup makes sure the Quechua model is loaded on this instance and,
// when asked, wakes up warmup.Concurrency more instances.
func HandleWarmup(ctx context.Context, a *app.App, warmup *WarmupEvent) (interface{}, error) {
	logger := logrus.WithFields(logrus.Fields{
		"component":   "warmup",
		"concurrency": warmup.Concurrency,
	})

	resp := WarmupResponse{Status: "warm", InstancesWarmed: 1, ModelLoaded: true}

	if err := a.Preload(ctx); err != nil {
		logger.Warnf("quechua model preload failed: %v", err)
		resp.ModelLoaded = false
	}

	if warmup.Concurrency > 0 {
		if err := selfInvoke(ctx, warmup.Concurrency); err != nil {
			logger.Warnf("self invocation failed: %v", err)
		} else {
			resp.InstancesWarmed += warmup.Concurrency
		}
	}

	// Keep this instance busy long enough for the children to land elsewhere
	time.Sleep(WarmupDelay)

	logger.Debugf("%d instances warmed", resp.InstancesWarmed)
	return map[string]interface{}{
		"statusCode": 200,
		"body":       resp,
	}, nil
}

// selfInvoke fires count asynchronous warmup events at this function so
// that count more instances stay warm.
func selfInvoke(ctx context.Context, count int) error {
	client, err := newInvoker(ctx)
	if err != nil {
		return err
	}

	// Children get concurrency 0 so they never fan out again
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	input := &lambdasdk.InvokeInput{
		FunctionName:   aws.String(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	}

	var g errgroup.Group
	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := client.Invoke(ctx, input)
			return err
		})
	}
	return g.Wait()
}
