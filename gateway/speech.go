package gateway

import (
	"context"
	"strings"

	"go.aimuz.me/viajero/cache"
	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/llm"
)

// Speak synthesizes text with the configured voice and returns raw
// 16-bit PCM at 24 kHz. It degrades to a nil payload.
func (g *Gateway) Speak(ctx context.Context, text string) types.Result[[]byte] {
	if strings.TrimSpace(text) == "" {
		return types.Degrade[[]byte](nil, errMissingField)
	}

	key := cache.GenerateKey("speech", g.cfg.SpeechModel, g.cfg.Voice, text)
	if val, ok := g.cached(key); ok {
		return types.Success(val)
	}

	resp, err := g.call(ctx, "speak", llm.Request{
		Model: g.cfg.SpeechModel,
		Parts: []llm.Part{llm.TextPart(text)},
		Voice: g.cfg.Voice,
	})
	if err != nil {
		degraded("speak", err)
		return types.Degrade[[]byte](nil, err)
	}
	if len(resp.Audio) == 0 {
		degraded("speak", errNoAudio)
		return types.Degrade[[]byte](nil, errNoAudio)
	}

	g.store(key, resp.Audio)
	return types.Success(resp.Audio)
}
