// Package themes holds the static presentation configuration per destination.
package themes

import "go.aimuz.me/viajero/internal/types"

// Colors are CSS utility classes consumed by the frontend.
type Colors struct {
	Gradient  string `json:"gradient"`
	Glass     string `json:"glass"`
	Accent    string `json:"accent"`
	TextMain  string `json:"textMain"`
	TextLight string `json:"textLight"`
	Button    string `json:"button"`
}

// Theme is the read-only display record of a destination.
type Theme struct {
	ID          types.Destination `json:"id"`
	Name        string            `json:"name"`        // Spanish display name
	EnglishName string            `json:"englishName"` // Used in image prompts
	Tagline     string            `json:"tagline"`
	FontHeading string            `json:"fontHeading"`
	FontBody    string            `json:"fontBody"`
	Colors      Colors            `json:"colors"`
	Greeting    string            `json:"greeting"`
	Flag        string            `json:"flag"`
	HeroImage   string            `json:"heroImage"`

	// Language is the destination language as named in the translator.
	Language string `json:"language"`
	// LanguageCode is the ISO 639-1 code of Language.
	LanguageCode string `json:"languageCode"`
	// QuizLanguage is the language named in quiz prompts.
	QuizLanguage string `json:"quizLanguage"`
}

var registry = map[types.Destination]Theme{
	types.Italy: {
		ID:          types.Italy,
		Name:        "Italia",
		EnglishName: "Italy",
		Tagline:     "La Dolce Vita",
		FontHeading: "font-serif",
		FontBody:    "font-sans",
		Colors: Colors{
			Gradient:  "bg-gradient-to-br from-emerald-900 via-emerald-700 to-red-900",
			Glass:     "bg-white/80 backdrop-blur-xl border border-white/20 shadow-2xl",
			Accent:    "text-emerald-800",
			TextMain:  "text-gray-900",
			TextLight: "text-gray-600",
			Button:    "bg-gradient-to-r from-emerald-600 to-emerald-800 text-white shadow-lg shadow-emerald-500/30",
		},
		Greeting:     "Ciao",
		Flag:         "🇮🇹",
		HeroImage:    "https://images.unsplash.com/photo-1552832230-c0197dd311b5?q=80&w=1000&auto=format&fit=crop",
		Language:     "Italiano",
		LanguageCode: "it",
		QuizLanguage: "Italiano",
	},
	types.Egypt: {
		ID:          types.Egypt,
		Name:        "Egipto",
		EnglishName: "Egypt",
		Tagline:     "Historia Viva",
		FontHeading: "font-serif",
		FontBody:    "font-sans",
		Colors: Colors{
			Gradient:  "bg-gradient-to-br from-blue-900 via-amber-700 to-amber-900",
			Glass:     "bg-black/40 backdrop-blur-xl border border-white/10 shadow-2xl",
			Accent:    "text-amber-400",
			TextMain:  "text-white",
			TextLight: "text-amber-100",
			Button:    "bg-gradient-to-r from-amber-500 to-amber-700 text-white shadow-lg shadow-amber-500/30",
		},
		Greeting:     "Ahlan",
		Flag:         "🇪🇬",
		HeroImage:    "https://images.unsplash.com/photo-1539650116455-251d9a6952dd?q=80&w=1000&auto=format&fit=crop",
		Language:     "Árabe",
		LanguageCode: "ar",
		QuizLanguage: "Árabe Egipcio",
	},
}

// Lookup returns the theme of d.
func Lookup(d types.Destination) (Theme, bool) {
	t, ok := registry[d]
	return t, ok
}

// MustLookup is Lookup for destinations already validated by the caller.
func MustLookup(d types.Destination) Theme {
	t, ok := registry[d]
	if !ok {
		panic("themes: unknown destination " + string(d))
	}
	return t
}

// All returns the themes in selector order.
func All() []Theme {
	out := make([]Theme, 0, len(types.Destinations))
	for _, d := range types.Destinations {
		out = append(out, registry[d])
	}
	return out
}
