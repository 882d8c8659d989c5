package gateway

import (
	"context"
	"slices"
	"strings"

	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/llm"
	"go.aimuz.me/viajero/themes"
)

// FallbackChallenge is served whenever a quiz round cannot be generated.
func FallbackChallenge() types.LanguageChallenge {
	return types.LanguageChallenge{
		Question:        "Como se dice Hola?",
		Options:         []string{"Ciao", "Adios", "Hello"},
		Answer:          "Ciao",
		Explanation:     "Fallback question.",
		DifficultyLevel: 1,
	}
}

type rawChallenge struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Challenge generates a quiz round for dest at level on a random topic.
// It degrades to FallbackChallenge.
func (g *Gateway) Challenge(ctx context.Context, dest types.Destination, level int) types.Result[types.LanguageChallenge] {
	language := string(dest)
	if t, ok := themes.Lookup(dest); ok {
		language = t.QuizLanguage
	}
	topic := quizTopics[g.intn(len(quizTopics))]

	resp, err := g.call(ctx, "challenge", llm.Request{
		Model:  g.cfg.TextModel,
		Parts:  []llm.Part{llm.TextPart(challengePrompt(language, difficulty(level), topic))},
		Schema: challengeSchema,
	})
	if err != nil {
		degraded("challenge", err)
		return types.Degrade(FallbackChallenge(), err)
	}

	var raw rawChallenge
	if err := decodeObject(resp.Text, &raw); err != nil {
		degraded("challenge", err)
		return types.Degrade(FallbackChallenge(), err)
	}
	if strings.TrimSpace(raw.Question) == "" || len(raw.Options) < 2 || raw.Answer == "" {
		degraded("challenge", errMissingField)
		return types.Degrade(FallbackChallenge(), errMissingField)
	}
	if !slices.Contains(raw.Options, raw.Answer) {
		degraded("challenge", errBadChallenge)
		return types.Degrade(FallbackChallenge(), errBadChallenge)
	}

	return types.Success(types.LanguageChallenge{
		Question:        raw.Question,
		Options:         raw.Options,
		Answer:          raw.Answer,
		Explanation:     raw.Explanation,
		DifficultyLevel: level,
	})
}
