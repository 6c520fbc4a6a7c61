package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, apperrors.Configuration("OpenAI API key is required (set OPENAI_API_KEY or llm.api_key)")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = util.NewHTTPClient(timeoutOf(config, 60*time.Second), config.HTTPProxy, config.HTTPSProxy, config.NoProxy)

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Analyze runs one analysis through the Chat Completions API
func (p *OpenAIProvider) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	if err := checkContent(req.Request); err != nil {
		return nil, err
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Request)
	}

	modelName := resolveModel(req.Model, p.config.Model, openai.GPT4oMini)

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.Request.ContentType == model.ContentImage {
		user.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURL(req.Request),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	} else {
		user.Content = prompt
	}

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			user,
		},
		MaxTokens:   resolveMaxTokens(req.MaxTokens, p.config.MaxTokens),
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, apperrors.Network(err, "OpenAI API error")
	}

	if len(resp.Choices) == 0 {
		return nil, apperrors.Network(fmt.Errorf("empty choices"), "no response from OpenAI")
	}

	return &AnalyzeResponse{
		Raw:        strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// dataURL embeds an uploaded image for the vision API
func dataURL(req model.AnalysisRequest) string {
	return fmt.Sprintf("data:%s;base64,%s", mediaType(req), base64.StdEncoding.EncodeToString(req.Media))
}

func timeoutOf(config Config, fallback time.Duration) time.Duration {
	if config.Timeout > 0 {
		return time.Duration(config.Timeout) * time.Second
	}
	return fallback
}
