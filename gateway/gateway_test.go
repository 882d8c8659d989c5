package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/llm"
)

// fakeGenerator records requests and replays a canned answer.
type fakeGenerator struct {
	mu    sync.Mutex
	reqs  []llm.Request
	resp  *llm.Response
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeGenerator) last() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqs[len(f.reqs)-1]
}

// mapCache is an in-memory Cache.
type mapCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (c *mapCache) Get(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *mapCache) Set(key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[string][]byte)
	}
	c.m[key] = val
	return nil
}

var errService = errors.New("service unavailable")

func text(s string) *llm.Response { return &llm.Response{Text: s} }

func TestRecommendSearch(t *testing.T) {
	gen := &fakeGenerator{resp: text("```json\n" + `[
		{"name": "Coliseo", "description": "Anfiteatro", "category": "Cultura", "rating": 4.8},
		{"name": "Trattoria da Enzo", "description": "Cocina romana", "category": "Comida", "rating": "4.6"},
		{"name": "Coliseo", "description": "duplicado"},
		{"name": "Mercato Monti", "description": "Mercado"},
		{"name": "Teatro Argentina", "category": "Show", "rating": 4.4},
		{"name": "Foro Romano", "category": "Cultura", "rating": 4.7},
		{"name": "Via Condotti", "category": "Compras", "rating": 4.3}
	]` + "\n```")}
	g := New(gen, Config{})

	res := g.Recommend(context.Background(), Query{Text: "Coliseo"}, types.Italy)
	require.True(t, res.OK(), "reason: %v", res.Reason)
	require.Len(t, res.Value, MaxPlaces)

	assert.Equal(t, 1, gen.calls)
	req := gen.last()
	assert.True(t, req.MapsGrounding)
	assert.Nil(t, req.Coords)
	assert.Contains(t, req.Parts[0].Text, `"Coliseo"`)
	assert.Contains(t, req.Parts[0].Text, "Italia")

	first := res.Value[0]
	assert.Equal(t, "Coliseo", first.Name)
	assert.Equal(t, "Anfiteatro", first.Description)
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=Coliseo", first.MapsURI)
	assert.Contains(t, first.PhotoURL, "https://image.pollinations.ai/prompt/Travel%20photography%20of%20Coliseo%20in%20Italy%20Cultura")
	assert.Equal(t, 4.6, res.Value[1].Rating)

	market := res.Value[2]
	assert.Equal(t, "Mercato Monti", market.Name)
	assert.Equal(t, defaultCategory, market.Category)
	assert.Equal(t, defaultRating, market.Rating)

	names := map[string]bool{}
	for _, p := range res.Value {
		assert.False(t, names[p.Name], "duplicate %s", p.Name)
		names[p.Name] = true
	}
}

func TestRecommendNearby(t *testing.T) {
	gen := &fakeGenerator{resp: text(`Aquí tienes: [{"name": "Khan el-Khalili", "category": "Compras", "rating": 4.5}] ¡Disfruta!`)}
	g := New(gen, Config{})

	res := g.Recommend(context.Background(), Query{Coords: &types.Coords{Lat: 30.04, Lng: 31.26}}, types.Egypt)
	require.True(t, res.OK())
	require.Len(t, res.Value, 1)
	assert.Contains(t, res.Value[0].PhotoURL, "in%20Egypt")

	req := gen.last()
	require.NotNil(t, req.Coords)
	assert.Equal(t, 30.04, req.Coords.Lat)
	assert.Contains(t, req.Parts[0].Text, "30.04, 31.26")
	assert.Contains(t, req.Parts[0].Text, "Egipto")
}

func TestRecommendGroundingFallback(t *testing.T) {
	gen := &fakeGenerator{resp: &llm.Response{
		Text: "No puedo devolver JSON.",
		Grounding: []llm.GroundingSource{
			{Title: "Pantheon", URI: "https://maps.google.com/?cid=1"},
			{Title: "Pantheon", URI: "https://maps.google.com/?cid=2"},
			{Title: "", URI: "https://maps.google.com/?cid=3"},
			{Title: "Piazza Navona", URI: "https://maps.google.com/?cid=4"},
		},
	}}
	g := New(gen, Config{})

	res := g.Recommend(context.Background(), Query{Text: "Roma"}, types.Italy)
	require.True(t, res.OK())
	require.Len(t, res.Value, 2)

	p := res.Value[0]
	assert.Equal(t, "Pantheon", p.Name)
	assert.Equal(t, "https://maps.google.com/?cid=1", p.MapsURI)
	assert.Equal(t, groundedDescription, p.Description)
	assert.Equal(t, groundedCategory, p.Category)
	assert.Equal(t, defaultRating, p.Rating)
	assert.Contains(t, p.PhotoURL, "Pantheon%20travel%20landmark")
}

func TestRecommendDegrades(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "service error", gen: &fakeGenerator{err: errService}},
		{name: "unparseable without grounding", gen: &fakeGenerator{resp: text("lo siento")}},
		{name: "empty array", gen: &fakeGenerator{resp: text("[]")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.gen, Config{}).Recommend(context.Background(), Query{Text: "x"}, types.Italy)
			assert.True(t, res.Degraded)
			assert.Error(t, res.Reason)
			assert.NotNil(t, res.Value)
			assert.Empty(t, res.Value)
		})
	}
}

func TestUniquePlaces(t *testing.T) {
	var in []types.Place
	for _, n := range []string{"a", "b", "a", "c", "d", "b", "e", "f", "g"} {
		in = append(in, types.Place{Name: n})
	}
	out := uniquePlaces(in, MaxPlaces)

	var names []string
	for _, p := range out {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
}

func TestTranslate(t *testing.T) {
	gen := &fakeGenerator{resp: text(`{"translated": "Buongiorno", "pronunciation": "buon-yór-no", "context": "Se usa hasta la tarde."}`)}
	c := &mapCache{}
	g := New(gen, Config{}, WithCache(c))

	res := g.Translate(context.Background(), "Buenos días", "Español", "Italiano")
	require.True(t, res.OK())
	assert.Equal(t, types.TranslationResult{
		Original:      "Buenos días",
		Translated:    "Buongiorno",
		Pronunciation: "buon-yór-no",
		Context:       "Se usa hasta la tarde.",
	}, res.Value)

	req := gen.last()
	assert.Equal(t, translationSchema, req.Schema)
	assert.Contains(t, req.Parts[0].Text, "Origen: Español")
	assert.Contains(t, req.Parts[0].Text, "Destino: Italiano")

	again := g.Translate(context.Background(), "Buenos días", "Español", "Italiano")
	assert.Equal(t, res.Value, again.Value)
	assert.Equal(t, 1, gen.calls, "second call should be served from cache")
}

func TestTranslateDegrades(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "service error", gen: &fakeGenerator{err: errService}},
		{name: "malformed json", gen: &fakeGenerator{resp: text("{translated:")}},
		{name: "missing translated", gen: &fakeGenerator{resp: text(`{"pronunciation": "x"}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &mapCache{}
			res := New(tt.gen, Config{}, WithCache(c)).Translate(context.Background(), "hola", "Español", "Italiano")
			assert.True(t, res.Degraded)
			assert.Equal(t, "Error", res.Value.Translated)
			assert.Empty(t, res.Value.Pronunciation)
			assert.Equal(t, "hola", res.Value.Original)
			assert.Empty(t, c.m, "degraded results are not cached")
		})
	}
}

func TestTranslateAudio(t *testing.T) {
	gen := &fakeGenerator{resp: text(`{"original": "Dov'è la stazione?", "translated": "¿Dónde está la estación?", "pronunciation": "dóve la statsióne", "context": ""}`)}
	g := New(gen, Config{})

	res := g.TranslateAudio(context.Background(), []byte{0x1a, 0x45}, "audio/webm", "Italiano", "Español")
	require.True(t, res.OK())
	assert.Equal(t, "Dov'è la stazione?", res.Value.Original)
	assert.Equal(t, "¿Dónde está la estación?", res.Value.Translated)

	req := gen.last()
	require.Len(t, req.Parts, 2)
	assert.True(t, req.Parts[0].IsBlob())
	assert.Equal(t, "audio/webm", req.Parts[0].MIMEType)
	assert.Contains(t, req.Parts[1].Text, "hablado en Italiano")
	assert.Equal(t, audioTranslationSchema, req.Schema)
}

func TestTranslateAudioDegrades(t *testing.T) {
	want := types.TranslationResult{
		Original:      "(Audio ininteligible)",
		Translated:    "No pudimos entender el audio.",
		Pronunciation: "-",
	}

	t.Run("service error", func(t *testing.T) {
		res := New(&fakeGenerator{err: errService}, Config{}).
			TranslateAudio(context.Background(), []byte{1}, "audio/webm", "Español", "Italiano")
		assert.True(t, res.Degraded)
		assert.Equal(t, want, res.Value)
	})

	t.Run("empty audio", func(t *testing.T) {
		gen := &fakeGenerator{}
		res := New(gen, Config{}).TranslateAudio(context.Background(), nil, "audio/webm", "Español", "Italiano")
		assert.True(t, res.Degraded)
		assert.Equal(t, want, res.Value)
		assert.Zero(t, gen.calls)
	})
}

func TestSpeak(t *testing.T) {
	pcm := []byte{0x00, 0x40, 0x00, 0xc0}
	gen := &fakeGenerator{resp: &llm.Response{Audio: pcm, AudioMIME: "audio/L16;rate=24000"}}
	g := New(gen, Config{}, WithCache(&mapCache{}))

	res := g.Speak(context.Background(), "Buongiorno")
	require.True(t, res.OK())
	assert.Equal(t, pcm, res.Value)

	req := gen.last()
	assert.Equal(t, DefaultVoice, req.Voice)
	assert.Equal(t, DefaultSpeechModel, req.Model)

	g.Speak(context.Background(), "Buongiorno")
	assert.Equal(t, 1, gen.calls)
}

func TestSpeakDegrades(t *testing.T) {
	for _, gen := range []*fakeGenerator{
		{err: errService},
		{resp: text("no audio")},
	} {
		res := New(gen, Config{}).Speak(context.Background(), "ciao")
		assert.True(t, res.Degraded)
		assert.Nil(t, res.Value)
	}
}

func TestChallenge(t *testing.T) {
	gen := &fakeGenerator{resp: text(`{"question": "¿Cómo se dice gracias?", "options": ["Grazie", "Prego", "Scusi"], "answer": "Grazie", "explanation": "Grazie significa gracias."}`)}
	g := New(gen, Config{}, WithRand(func(int) int { return 5 }))

	res := g.Challenge(context.Background(), types.Italy, 7)
	require.True(t, res.OK())
	assert.Equal(t, 7, res.Value.DifficultyLevel)
	assert.Equal(t, "Grazie", res.Value.Answer)

	prompt := gen.last().Parts[0].Text
	assert.Contains(t, prompt, "aprender Italiano")
	assert.Contains(t, prompt, "Intermedio (A2)")
	assert.Contains(t, prompt, "Tema: Regateo")
	assert.Equal(t, challengeSchema, gen.last().Schema)
}

func TestChallengeQuizLanguage(t *testing.T) {
	gen := &fakeGenerator{err: errService}
	New(gen, Config{}).Challenge(context.Background(), types.Egypt, 1)
	assert.Contains(t, gen.last().Parts[0].Text, "aprender Árabe Egipcio")
}

func TestChallengeDegrades(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "service error", gen: &fakeGenerator{err: errService}},
		{name: "malformed", gen: &fakeGenerator{resp: text("pregunta")}},
		{name: "answer not an option", gen: &fakeGenerator{resp: text(`{"question": "q", "options": ["a", "b"], "answer": "c", "explanation": "e"}`)}},
		{name: "too few options", gen: &fakeGenerator{resp: text(`{"question": "q", "options": ["a"], "answer": "a", "explanation": "e"}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.gen, Config{}).Challenge(context.Background(), types.Italy, 12)
			assert.True(t, res.Degraded)
			assert.Equal(t, FallbackChallenge(), res.Value)
			assert.Equal(t, 1, res.Value.DifficultyLevel)
		})
	}
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "Principiante (A1)"},
		{4, "Principiante (A1)"},
		{5, "Intermedio (A2)"},
		{9, "Intermedio (A2)"},
		{10, "Avanzado (B1)"},
		{30, "Avanzado (B1)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, difficulty(tt.level), "level %d", tt.level)
	}
}

func TestAnalyzeImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	gen := &fakeGenerator{resp: text("  Es un cartel que dice «Uscita»: salida.  ")}
	g := New(gen, Config{})

	res := g.AnalyzeImage(context.Background(), png, "", types.Italy)
	require.True(t, res.OK())
	assert.Equal(t, "Es un cartel que dice «Uscita»: salida.", res.Value)

	req := gen.last()
	assert.Equal(t, "image/png", req.Parts[0].MIMEType)
	assert.Contains(t, req.Parts[1].Text, "tomada en Italia")

	bad := New(&fakeGenerator{err: errService}, Config{}).AnalyzeImage(context.Background(), png, "image/png", types.Egypt)
	assert.True(t, bad.Degraded)
	assert.Equal(t, ImageApology, bad.Value)
}

func TestTimeout(t *testing.T) {
	gen := &deadlineGenerator{}
	g := New(gen, Config{Timeout: time.Minute})
	g.Speak(context.Background(), "ciao")
	assert.True(t, gen.hadDeadline)

	gen = &deadlineGenerator{}
	New(gen, Config{}).Speak(context.Background(), "ciao")
	assert.False(t, gen.hadDeadline)
}

type deadlineGenerator struct{ hadDeadline bool }

func (d *deadlineGenerator) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	_, d.hadDeadline = ctx.Deadline()
	return nil, errService
}
