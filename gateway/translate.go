package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"go.aimuz.me/viajero/cache"
	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/llm"
)

// Sentinel values rendered when a translation degrades.
const (
	ErrorTranslation = "Error"

	UnintelligibleOriginal   = "(Audio ininteligible)"
	UnintelligibleTranslated = "No pudimos entender el audio."
	UnintelligiblePhonetics  = "-"
)

type rawTranslation struct {
	Original      string `json:"original"`
	Translated    string `json:"translated"`
	Pronunciation string `json:"pronunciation"`
	Context       string `json:"context"`
}

// Translate translates text between two languages with a phonetic guide.
// It degrades to a result whose Translated field is "Error".
func (g *Gateway) Translate(ctx context.Context, text, from, to string) types.Result[types.TranslationResult] {
	sentinel := types.TranslationResult{Original: text, Translated: ErrorTranslation}

	key := cache.GenerateKey("translate", g.cfg.TextModel, from, to, text)
	if val, ok := g.cached(key); ok {
		var res types.TranslationResult
		if err := json.Unmarshal(val, &res); err == nil {
			return types.Success(res)
		}
	}

	resp, err := g.call(ctx, "translate", llm.Request{
		Model:  g.cfg.TextModel,
		Parts:  []llm.Part{llm.TextPart(translatePrompt(text, from, to))},
		Schema: translationSchema,
	})
	if err != nil {
		degraded("translate", err)
		return types.Degrade(sentinel, err)
	}

	var raw rawTranslation
	if err := decodeObject(resp.Text, &raw); err != nil {
		degraded("translate", err)
		return types.Degrade(sentinel, err)
	}
	if strings.TrimSpace(raw.Translated) == "" {
		degraded("translate", errMissingField)
		return types.Degrade(sentinel, errMissingField)
	}

	res := types.TranslationResult{
		Original:      text,
		Translated:    raw.Translated,
		Pronunciation: raw.Pronunciation,
		Context:       raw.Context,
	}
	if val, err := json.Marshal(res); err == nil {
		g.store(key, val)
	}
	return types.Success(res)
}

// TranslateAudio transcribes spoken audio and translates the transcript.
// It degrades to the fixed unintelligible-audio result.
func (g *Gateway) TranslateAudio(ctx context.Context, audio []byte, mimeType, from, to string) types.Result[types.TranslationResult] {
	sentinel := types.TranslationResult{
		Original:      UnintelligibleOriginal,
		Translated:    UnintelligibleTranslated,
		Pronunciation: UnintelligiblePhonetics,
	}
	if len(audio) == 0 {
		degraded("translate audio", errNoAudio)
		return types.Degrade(sentinel, errNoAudio)
	}

	resp, err := g.call(ctx, "translate audio", llm.Request{
		Model: g.cfg.TextModel,
		Parts: []llm.Part{
			llm.BlobPart(audio, mimeType),
			llm.TextPart(audioPrompt(from, to)),
		},
		Schema: audioTranslationSchema,
	})
	if err != nil {
		degraded("translate audio", err)
		return types.Degrade(sentinel, err)
	}

	var raw rawTranslation
	if err := decodeObject(resp.Text, &raw); err != nil {
		degraded("translate audio", err)
		return types.Degrade(sentinel, err)
	}
	if strings.TrimSpace(raw.Translated) == "" {
		degraded("translate audio", errMissingField)
		return types.Degrade(sentinel, errMissingField)
	}

	return types.Success(types.TranslationResult{
		Original:      raw.Original,
		Translated:    raw.Translated,
		Pronunciation: raw.Pronunciation,
		Context:       raw.Context,
	})
}
