// Package llm provides clients for the generative AI service.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.aimuz.me/viajero/internal/types"
)

// ErrUnsupported is returned when a provider cannot serve a request feature
// (audio input or speech output).
var ErrUnsupported = errors.New("llm: feature not supported by provider")

// ErrEmptyResponse is returned when the service answered without content.
var ErrEmptyResponse = errors.New("llm: empty response")

// Part is one piece of user content: text or an inline binary payload.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// TextPart returns a text part.
func TextPart(s string) Part { return Part{Text: s} }

// BlobPart returns an inline binary part (audio, image).
func BlobPart(data []byte, mimeType string) Part {
	return Part{Data: data, MIMEType: mimeType}
}

// IsBlob reports whether the part carries binary data.
func (p Part) IsBlob() bool { return len(p.Data) > 0 }

// SchemaType names a JSON schema type.
type SchemaType string

const (
	TypeString SchemaType = "STRING"
	TypeNumber SchemaType = "NUMBER"
	TypeArray  SchemaType = "ARRAY"
	TypeObject SchemaType = "OBJECT"
)

// Schema is the subset of JSON schema used for constrained output.
type Schema struct {
	Type       SchemaType
	Properties map[string]*Schema
	Items      *Schema
	Required   []string
}

// Request is a single generation round trip.
type Request struct {
	Parts  []Part
	Schema *Schema // JSON object output when set
	Coords *types.Coords

	Model  string // Overrides the client's default model when set
	System string
	Voice  string // Speech output voice; non-empty requests audio output

	MapsGrounding bool
}

// WantsAudio reports whether the request asks for speech output.
func (r Request) WantsAudio() bool { return r.Voice != "" }

// GroundingSource is an entity the service used to substantiate its answer.
type GroundingSource struct {
	Title string
	URI   string
}

// Response is the normalized service answer.
type Response struct {
	Text      string
	Audio     []byte // Raw audio payload when speech was requested
	AudioMIME string
	Grounding []GroundingSource
	Usage     types.Usage
}

// Generator performs generation round trips against the AI service.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Provider selects the backend implementation.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Options configures a Generator.
type Options struct {
	Provider    Provider
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	HTTPClient  *http.Client
}

// NewGenerator creates a Generator for the configured provider.
func NewGenerator(ctx context.Context, opts Options) (Generator, error) {
	if opts.APIKey == "" {
		return nil, errors.New("llm: api key required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	switch opts.Provider {
	case ProviderGemini, "":
		return newGemini(ctx, opts)
	case ProviderOpenAI:
		return newOpenAI(opts), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Provider)
	}
}
