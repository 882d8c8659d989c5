package llm

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"go.aimuz.me/viajero/internal/types"
)

func TestNewGeneratorValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "missing key", opts: Options{Provider: ProviderGemini}, wantErr: true},
		{name: "unknown provider", opts: Options{Provider: "claude", APIKey: "k"}, wantErr: true},
		{name: "openai", opts: Options{Provider: ProviderOpenAI, APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(context.Background(), tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGenerator() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGeminiBuildConfig(t *testing.T) {
	g := &geminiGenerator{model: defaultGeminiModel, temperature: 0.4}

	t.Run("json schema", func(t *testing.T) {
		cfg := g.buildConfig(Request{
			System: "sys",
			Schema: &Schema{
				Type:       TypeObject,
				Properties: map[string]*Schema{"translated": {Type: TypeString}},
				Required:   []string{"translated"},
			},
		})
		if cfg.ResponseMIMEType != "application/json" {
			t.Errorf("ResponseMIMEType = %q", cfg.ResponseMIMEType)
		}
		if cfg.ResponseSchema == nil || cfg.ResponseSchema.Type != genai.TypeObject {
			t.Fatalf("ResponseSchema = %+v", cfg.ResponseSchema)
		}
		if cfg.ResponseSchema.Properties["translated"].Type != genai.TypeString {
			t.Errorf("property type = %v", cfg.ResponseSchema.Properties["translated"].Type)
		}
		if cfg.SystemInstruction == nil {
			t.Error("SystemInstruction not set")
		}
		if cfg.Temperature == nil || *cfg.Temperature != float32(0.4) {
			t.Errorf("Temperature = %v", cfg.Temperature)
		}
	})

	t.Run("speech", func(t *testing.T) {
		cfg := g.buildConfig(Request{Voice: "Kore"})
		if len(cfg.ResponseModalities) != 1 || cfg.ResponseModalities[0] != "AUDIO" {
			t.Errorf("ResponseModalities = %v", cfg.ResponseModalities)
		}
		if got := cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; got != "Kore" {
			t.Errorf("voice = %q", got)
		}
		if cfg.Temperature != nil {
			t.Error("Temperature should not be set for speech")
		}
	})

	t.Run("maps grounding", func(t *testing.T) {
		cfg := g.buildConfig(Request{MapsGrounding: true, Coords: &types.Coords{Lat: 41.89, Lng: 12.49}})
		if len(cfg.Tools) != 1 || cfg.Tools[0].GoogleMaps == nil {
			t.Fatalf("Tools = %+v", cfg.Tools)
		}
		ll := cfg.ToolConfig.RetrievalConfig.LatLng
		if *ll.Latitude != 41.89 || *ll.Longitude != 12.49 {
			t.Errorf("LatLng = %v,%v", *ll.Latitude, *ll.Longitude)
		}
	})

	t.Run("maps without coords", func(t *testing.T) {
		cfg := g.buildConfig(Request{MapsGrounding: true})
		if cfg.ToolConfig != nil {
			t.Error("ToolConfig should be nil without coordinates")
		}
	})
}

func TestBuildGeminiContents(t *testing.T) {
	contents := buildGeminiContents(Request{Parts: []Part{
		BlobPart([]byte{1, 2, 3}, "audio/webm"),
		TextPart("hola"),
	}})
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	parts := contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}
	if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "audio/webm" {
		t.Errorf("first part = %+v", parts[0])
	}
	if parts[1].Text != "hola" {
		t.Errorf("second part text = %q", parts[1].Text)
	}
}

func TestFromGeminiResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "pensando", Thought: true},
				{Text: "Ciao"},
				{InlineData: &genai.Blob{Data: []byte{0, 1}, MIMEType: "audio/L16;rate=24000"}},
			}},
			GroundingMetadata: &genai.GroundingMetadata{GroundingChunks: []*genai.GroundingChunk{
				{Maps: &genai.GroundingChunkMaps{Title: "Colosseo", URI: "https://maps.google.com/?cid=1"}},
				{Web: &genai.GroundingChunkWeb{Title: "", URI: "https://x"}},
				nil,
			}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount: 10, CandidatesTokenCount: 5, TotalTokenCount: 15,
		},
	}

	got, err := fromGeminiResponse(resp)
	if err != nil {
		t.Fatalf("fromGeminiResponse() error = %v", err)
	}
	if got.Text != "Ciao" {
		t.Errorf("Text = %q, want %q", got.Text, "Ciao")
	}
	if len(got.Audio) != 2 || got.AudioMIME != "audio/L16;rate=24000" {
		t.Errorf("Audio = %v (%s)", got.Audio, got.AudioMIME)
	}
	if len(got.Grounding) != 1 || got.Grounding[0].Title != "Colosseo" {
		t.Errorf("Grounding = %+v", got.Grounding)
	}
	if got.Usage.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d", got.Usage.TotalTokens)
	}
}

func TestFromGeminiResponseEmpty(t *testing.T) {
	for _, resp := range []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
	} {
		if _, err := fromGeminiResponse(resp); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("fromGeminiResponse(%+v) error = %v, want ErrEmptyResponse", resp, err)
		}
	}
}

func TestOpenAIBuildParams(t *testing.T) {
	g := newOpenAI(Options{APIKey: "k", Temperature: 0.2})

	unsupported := []Request{
		{Voice: "Kore"},
		{Parts: []Part{BlobPart([]byte{1}, "image/png")}},
	}
	for _, req := range unsupported {
		if _, err := g.buildParams(req); !errors.Is(err, ErrUnsupported) {
			t.Errorf("buildParams(%+v) error = %v, want ErrUnsupported", req, err)
		}
	}

	params, err := g.buildParams(Request{
		System: "sys",
		Parts:  []Part{TextPart("uno"), TextPart("dos")},
		Schema: &Schema{Type: TypeObject},
	})
	if err != nil {
		t.Fatalf("buildParams() error = %v", err)
	}
	if len(params.Messages) != 2 {
		t.Errorf("got %d messages, want 2", len(params.Messages))
	}
	if params.ResponseFormat.OfJSONObject == nil {
		t.Error("JSON response format not set")
	}
	if _, err := g.buildParams(Request{MapsGrounding: true, Parts: []Part{TextPart("Roma")}}); err != nil {
		t.Errorf("maps grounding request error = %v", err)
	}
	if string(params.Model) != defaultOpenAIModel {
		t.Errorf("Model = %q", params.Model)
	}
}

func TestOpenAIModelSelection(t *testing.T) {
	tests := []struct {
		name      string
		optsModel string
		reqModel  string
		want      string
	}{
		{"gemini everywhere", "gemini-2.5-flash", "gemini-2.5-flash", defaultOpenAIModel},
		{"configured model", "gpt-4o", "", "gpt-4o"},
		{"gemini request falls back to configured", "gpt-4o", "gemini-2.5-flash", "gpt-4o"},
		{"request model wins", "gpt-4o", "gpt-4.1-mini", "gpt-4.1-mini"},
		{"nothing set", "", "", defaultOpenAIModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newOpenAI(Options{APIKey: "k", Model: tt.optsModel})
			params, err := g.buildParams(Request{Model: tt.reqModel, Parts: []Part{TextPart("ciao")}})
			if err != nil {
				t.Fatalf("buildParams() error = %v", err)
			}
			if string(params.Model) != tt.want {
				t.Errorf("Model = %q, want %q", params.Model, tt.want)
			}
		})
	}
}

func TestSchemaDoc(t *testing.T) {
	doc := schemaDoc(&Schema{
		Type:  TypeArray,
		Items: &Schema{Type: TypeObject, Required: []string{"name"}},
	})
	if doc["type"] != "array" {
		t.Errorf("type = %v", doc["type"])
	}
	items, ok := doc["items"].(map[string]any)
	if !ok || items["type"] != "object" {
		t.Errorf("items = %v", doc["items"])
	}
}
