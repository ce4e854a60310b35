package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// maxFunctionNameLen is the AWS limit on Lambda function names.
const maxFunctionNameLen = 64

// LambdaAPI is the subset of the Lambda client used by LambdaInvoker.
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaInvoker reaches model workers deployed as one Lambda per model.
type LambdaInvoker struct {
	client LambdaAPI
	prefix string
}

// NewLambdaInvoker creates a LambdaInvoker from the default AWS config.
func NewLambdaInvoker(ctx context.Context, prefix string) (*LambdaInvoker, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewLambdaInvokerWithClient(lambda.NewFromConfig(cfg), prefix), nil
}

// NewLambdaInvokerWithClient wraps an existing Lambda client.
func NewLambdaInvokerWithClient(client LambdaAPI, prefix string) *LambdaInvoker {
	return &LambdaInvoker{
		client: client,
		prefix: prefix,
	}
}

// FunctionName maps a model identifier onto the Lambda hosting it.
// "Helsinki-NLP/opus-mt-en-es" with prefix "translator-dev" becomes
// "translator-dev-helsinki-nlp-opus-mt-en-es".
func FunctionName(prefix, modelID string) string {
	name := strings.ToLower(modelID)
	name = strings.NewReplacer("/", "-", ".", "-", "_", "-").Replace(name)
	if prefix != "" {
		name = prefix + "-" + name
	}
	if len(name) > maxFunctionNameLen {
		name = strings.TrimRight(name[:maxFunctionNameLen], "-")
	}
	return name
}

// Invoke calls the model Lambda synchronously.
func (l *LambdaInvoker) Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error) {
	functionName := FunctionName(l.prefix, modelID)

	result, err := l.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(functionName),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", functionName, err)
	}

	// Check for Lambda errors
	if result.FunctionError != nil {
		return nil, fmt.Errorf("lambda error: %s: %s", *result.FunctionError, string(result.Payload))
	}

	return result.Payload, nil
}
