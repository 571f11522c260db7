package illustrator

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/KirkDiggler/tentcards/internal/errors"
)

const (
	DefaultModel = openai.CreateImageModelDallE3
	DefaultSize  = openai.CreateImageSize1024x1024
)

// OpenAIConfig holds the configuration for the OpenAI images provider
type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the public API endpoint
	BaseURL    string
	Model      string
	Size       string
	HTTPClient *http.Client
}

// Validate ensures the API key is present
func (c *OpenAIConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("APIKey", c.APIKey, vb)
	return vb.Build()
}

type openAIIllustrator struct {
	client *openai.Client
	model  string
	size   string
}

// NewOpenAI creates an Illustrator backed by the OpenAI images API
func NewOpenAI(cfg *OpenAIConfig) (Illustrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	size := cfg.Size
	if size == "" {
		size = DefaultSize
	}

	return &openAIIllustrator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		size:   size,
	}, nil
}

func (o *openAIIllustrator) Illustrate(ctx context.Context, prompt string) (*Illustration, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.InvalidArgument("prompt is required")
	}

	slog.Info("Requesting illustration", "model", o.model, "size", o.size)
	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          o.model,
		Size:           o.size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	})
	if err != nil {
		return nil, providerError(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.Unavailable("provider returned no image data")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "provider returned undecodable image data")
	}

	return &Illustration{Data: data, Ext: "png"}, nil
}

func providerError(err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		code := errors.CodeUnavailable
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			code = errors.CodeResourceExhausted
		case http.StatusBadRequest:
			code = errors.CodeInvalidArgument
		}
		return errors.WrapWithCode(err, code, "illustration provider rejected the request").
			WithMeta("provider_status", apiErr.HTTPStatusCode)
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.FromContext(err, "illustration provider call aborted")
	}
	return errors.WrapWithCode(err, errors.CodeUnavailable, "illustration provider request failed")
}
