package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"go.aimuz.me/viajero/internal/types"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiGenerator implements Generator on the Gemini API.
type geminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float64
}

func newGemini(ctx context.Context, opts Options) (*geminiGenerator, error) {
	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiGenerator{client: client, model: model, temperature: opts.Temperature}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	model := g.model
	if req.Model != "" {
		model = req.Model
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, buildGeminiContents(req), g.buildConfig(req))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return fromGeminiResponse(resp)
}

// buildGeminiContents turns request parts into a single user turn.
func buildGeminiContents(req Request) []*genai.Content {
	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsBlob() {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func (g *geminiGenerator) buildConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if g.temperature > 0 && !req.WantsAudio() {
		cfg.Temperature = genai.Ptr(float32(g.temperature))
	}

	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGeminiSchema(req.Schema)
	}

	if req.WantsAudio() {
		cfg.ResponseModalities = []string{string(genai.ModalityAudio)}
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		}
	}

	if req.MapsGrounding {
		cfg.Tools = []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}}
		if req.Coords != nil {
			cfg.ToolConfig = &genai.ToolConfig{
				RetrievalConfig: &genai.RetrievalConfig{
					LatLng: &genai.LatLng{
						Latitude:  genai.Ptr(req.Coords.Lat),
						Longitude: genai.Ptr(req.Coords.Lng),
					},
				},
			}
		}
	}

	return cfg
}

func toGeminiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:     genai.Type(s.Type),
		Required: s.Required,
		Items:    toGeminiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	return out
}

// fromGeminiResponse normalizes the first candidate of resp.
func fromGeminiResponse(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}
	cand := resp.Candidates[0]

	out := &Response{Usage: geminiToUsage(resp.UsageMetadata)}

	var text strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			if p.InlineData != nil && len(p.InlineData.Data) > 0 && out.Audio == nil {
				out.Audio = p.InlineData.Data
				out.AudioMIME = p.InlineData.MIMEType
				continue
			}
			text.WriteString(p.Text)
		}
	}
	out.Text = text.String()

	if gm := cand.GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if src, ok := groundingSource(chunk); ok {
				out.Grounding = append(out.Grounding, src)
			}
		}
	}

	if out.Text == "" && out.Audio == nil && len(out.Grounding) == 0 {
		return nil, ErrEmptyResponse
	}
	return out, nil
}

func groundingSource(chunk *genai.GroundingChunk) (GroundingSource, bool) {
	if chunk == nil {
		return GroundingSource{}, false
	}
	if m := chunk.Maps; m != nil && m.Title != "" && m.URI != "" {
		return GroundingSource{Title: m.Title, URI: m.URI}, true
	}
	if w := chunk.Web; w != nil && w.Title != "" && w.URI != "" {
		return GroundingSource{Title: w.Title, URI: w.URI}, true
	}
	return GroundingSource{}, false
}

func geminiToUsage(u *genai.GenerateContentResponseUsageMetadata) types.Usage {
	if u == nil {
		return types.Usage{}
	}
	return types.Usage{
		PromptTokens:     int(u.PromptTokenCount),
		CompletionTokens: int(u.CandidatesTokenCount),
		TotalTokens:      int(u.TotalTokenCount),
	}
}
