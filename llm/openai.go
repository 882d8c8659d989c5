package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"go.aimuz.me/viajero/internal/types"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openaiGenerator implements Generator for OpenAI and compatible chat APIs.
// It serves text and JSON requests only; maps grounding is ignored since
// the prompt already carries the place or coordinates.
type openaiGenerator struct {
	client      openai.Client
	model       string
	temperature float64
}

func newOpenAI(opts Options) *openaiGenerator {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	model := opts.Model
	if !isOpenAIModel(model) {
		model = defaultOpenAIModel
	}
	return &openaiGenerator{
		client:      openai.NewClient(reqOpts...),
		model:       model,
		temperature: opts.Temperature,
	}
}

func (g *openaiGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	params, err := g.buildParams(req)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrEmptyResponse
	}

	return &Response{
		Text: resp.Choices[0].Message.Content,
		Usage: types.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func (g *openaiGenerator) buildParams(req Request) (openai.ChatCompletionNewParams, error) {
	if req.WantsAudio() {
		return openai.ChatCompletionNewParams{}, ErrUnsupported
	}

	var user strings.Builder
	for _, p := range req.Parts {
		if p.IsBlob() {
			return openai.ChatCompletionNewParams{}, ErrUnsupported
		}
		if user.Len() > 0 {
			user.WriteString("\n")
		}
		user.WriteString(p.Text)
	}

	system := req.System
	if req.Schema != nil {
		hint, err := json.Marshal(schemaDoc(req.Schema))
		if err != nil {
			return openai.ChatCompletionNewParams{}, fmt.Errorf("marshal schema: %w", err)
		}
		system = strings.TrimSpace(system + "\nResponde solo con JSON que cumpla este esquema: " + string(hint))
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(user.String()))

	model := g.model
	if isOpenAIModel(req.Model) {
		model = req.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if g.temperature > 0 {
		params.Temperature = openai.Float(g.temperature)
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	return params, nil
}

// isOpenAIModel reports whether name can be sent to a chat completions API.
func isOpenAIModel(name string) bool {
	return name != "" && !strings.HasPrefix(name, "gemini")
}

// schemaDoc renders s as a plain JSON schema document.
func schemaDoc(s *Schema) map[string]any {
	if s == nil {
		return nil
	}
	doc := map[string]any{"type": strings.ToLower(string(s.Type))}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = schemaDoc(prop)
		}
		doc["properties"] = props
	}
	if s.Items != nil {
		doc["items"] = schemaDoc(s.Items)
	}
	if len(s.Required) > 0 {
		doc["required"] = s.Required
	}
	return doc
}
