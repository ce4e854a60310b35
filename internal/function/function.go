// Package function adapts Lambda events to the dispatcher.
// It understands API Gateway REST proxy events, HTTP API / function URL
// events and direct invocations carrying the translation request itself.
package function

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pricofy/translation-dispatcher/internal/domain"
	"github.com/pricofy/translation-dispatcher/internal/handler"
	"github.com/sirupsen/logrus"
)

const msgMethodNotAllowed = "Método no permitido"

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// DirectResponse is returned to direct (non-HTTP) invocations.
type DirectResponse struct {
	StatusCode int                      `json:"statusCode"`
	Body       domain.TranslationResult `json:"body"`
}

// probe is just enough of an event to tell the formats apart.
type probe struct {
	Version        string `json:"version"`
	HTTPMethod     string `json:"httpMethod"`
	RequestContext struct {
		HTTP struct {
			Method string `json:"method"`
		} `json:"http"`
	} `json:"requestContext"`
}

// Handler serves Lambda invocations.
type Handler struct {
	dispatcher *handler.Dispatcher
	logger     *logrus.Entry
}

// New creates a Handler.
func New(d *handler.Dispatcher) *Handler {
	return &Handler{
		dispatcher: d,
		logger:     logrus.WithField("component", "function"),
	}
}

// Handle routes the raw event to the matching adapter.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (interface{}, error) {
	var p probe
	if err := json.Unmarshal(event, &p); err != nil {
		// Not an object: let the dispatcher report the malformed body
		return h.direct(ctx, event), nil
	}

	switch {
	case p.Version == "2.0" && p.RequestContext.HTTP.Method != "":
		var req events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(event, &req); err != nil {
			h.logger.Warnf("malformed http api event: %v", err)
			reply := malformed()
			return events.APIGatewayV2HTTPResponse{
				StatusCode: reply.Status,
				Headers:    jsonHeaders,
				Body:       encode(reply.Result),
			}, nil
		}
		return h.httpAPI(ctx, req), nil

	case p.HTTPMethod != "":
		var req events.APIGatewayProxyRequest
		if err := json.Unmarshal(event, &req); err != nil {
			h.logger.Warnf("malformed api gateway event: %v", err)
			reply := malformed()
			return events.APIGatewayProxyResponse{
				StatusCode: reply.Status,
				Headers:    jsonHeaders,
				Body:       encode(reply.Result),
			}, nil
		}
		return h.restAPI(ctx, req), nil
	}

	return h.direct(ctx, event), nil
}

func (h *Handler) direct(ctx context.Context, event json.RawMessage) DirectResponse {
	h.logger.Debug("direct invocation")
	reply := h.dispatcher.HandleJSON(ctx, event)
	return DirectResponse{StatusCode: reply.Status, Body: reply.Result}
}

func (h *Handler) restAPI(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	h.logger.WithField("path", req.Path).Debug("api gateway invocation")
	reply := h.serve(ctx, req.HTTPMethod, req.Body, req.IsBase64Encoded)
	return events.APIGatewayProxyResponse{
		StatusCode: reply.Status,
		Headers:    jsonHeaders,
		Body:       encode(reply.Result),
	}
}

func (h *Handler) httpAPI(ctx context.Context, req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	h.logger.WithField("path", req.RawPath).Debug("http api invocation")
	reply := h.serve(ctx, req.RequestContext.HTTP.Method, req.Body, req.IsBase64Encoded)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: reply.Status,
		Headers:    jsonHeaders,
		Body:       encode(reply.Result),
	}
}

func (h *Handler) serve(ctx context.Context, method, body string, isBase64 bool) handler.Reply {
	if method != http.MethodPost {
		return handler.Reply{
			Status: http.StatusMethodNotAllowed,
			Result: domain.Failure(msgMethodNotAllowed),
		}
	}

	raw := []byte(body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return malformed()
		}
		raw = decoded
	}

	return h.dispatcher.HandleJSON(ctx, raw)
}

func malformed() handler.Reply {
	return handler.Reply{
		Status: http.StatusBadRequest,
		Result: domain.Failure(handler.MsgMalformedJSON),
	}
}

// encode cannot fail: TranslationResult only holds strings.
func encode(result domain.TranslationResult) string {
	out, _ := json.Marshal(result)
	return string(out)
}
