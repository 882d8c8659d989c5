package gateway

import (
	"fmt"

	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/llm"
	"go.aimuz.me/viajero/themes"
)

const systemInstruction = `Eres "Viajero Cultural", un asistente experto para viajeros hispanohablantes en Italia y Egipto.
Tu tono es útil, educativo y culturalmente consciente. Siempre respondes en español.`

const placeCategories = "Cultura (museos, historia), Espectáculos (teatro, música), Comida (restaurantes típicos), Compras (mercados, tiendas)"

const placeFormat = `IMPORTANTE: Devuelve la respuesta en formato JSON estrictamente como una lista de objetos con estas propiedades:
name, description (incluye qué lo hace especial), category (Cultura, Show, Comida, Compras), rating (número real o estimado).`

var quizTopics = []string{"Comida", "Transporte", "Saludos", "Emergencia", "Números", "Regateo", "Historia"}

func countryName(d types.Destination) string {
	if t, ok := themes.Lookup(d); ok {
		return t.Name
	}
	return string(d)
}

func countryEnglishName(d types.Destination) string {
	if t, ok := themes.Lookup(d); ok {
		return t.EnglishName
	}
	return string(d)
}

func nearbyPrompt(c types.Coords, d types.Destination) string {
	return fmt.Sprintf(`Estoy en las coordenadas %g, %g en %s.
Busca 5 lugares cercanos variados incluyendo: %s.
Usa Google Maps para verificar que existan, obtener su calificación real y ubicación exacta.

%s`, c.Lat, c.Lng, countryName(d), placeCategories, placeFormat)
}

func searchPrompt(query string, d types.Destination) string {
	return fmt.Sprintf(`El usuario quiere visitar: %q en %s.
Busca en esa zona específica 5 lugares recomendados variados: %s.
Usa Google Maps para obtener información real, ratings y ubicación.

%s`, query, countryName(d), placeCategories, placeFormat)
}

func translatePrompt(text, from, to string) string {
	return fmt.Sprintf(`Actúa como traductor experto.
Origen: %s
Destino: %s
Texto: %q

Devuelve SOLO un objeto JSON con:
- translated: la traducción exacta.
- pronunciation: cómo se pronuncia fonéticamente para un hispanohablante.
- context: nota cultural breve.`, from, to, text)
}

func audioPrompt(from, to string) string {
	return fmt.Sprintf(`Transcribe el audio (hablado en %s) y tradúcelo a %s.
Devuelve JSON: { "original": "texto transcrito", "translated": "texto traducido", "pronunciation": "fonética", "context": "nota cultural" }`, from, to)
}

func challengePrompt(language, difficulty, topic string) string {
	return fmt.Sprintf(`Genera una pregunta de trivia única para aprender %s.
Nivel: %s.
Tema: %s.

La respuesta correcta debe ser exactamente una de las opciones.
Devuelve JSON.`, language, difficulty, topic)
}

func imagePrompt(d types.Destination) string {
	return fmt.Sprintf("Analiza esta imagen tomada en %s. Traduce textos visibles o identifica objetos culturales.", countryName(d))
}

// difficulty maps a quiz level to its tier label.
func difficulty(level int) string {
	switch {
	case level < 5:
		return "Principiante (A1)"
	case level < 10:
		return "Intermedio (A2)"
	default:
		return "Avanzado (B1)"
	}
}

var translationSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"translated":    {Type: llm.TypeString},
		"pronunciation": {Type: llm.TypeString},
		"context":       {Type: llm.TypeString},
	},
}

var audioTranslationSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"original":      {Type: llm.TypeString},
		"translated":    {Type: llm.TypeString},
		"pronunciation": {Type: llm.TypeString},
		"context":       {Type: llm.TypeString},
	},
}

var challengeSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"question":    {Type: llm.TypeString},
		"options":     {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeString}},
		"answer":      {Type: llm.TypeString},
		"explanation": {Type: llm.TypeString},
	},
	Required: []string{"question", "options", "answer", "explanation"},
}
