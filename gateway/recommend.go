package gateway

import (
	"context"
	"strings"

	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/llm"
)

// MaxPlaces caps a recommendation result set.
const MaxPlaces = 5

const (
	defaultCategory = "General"
	defaultRating   = 4.5

	groundedDescription = "Recomendado por Google Maps."
	groundedCategory    = "Recomendado"
)

// Query is either a free-text place query or a coordinate pair.
type Query struct {
	Text   string
	Coords *types.Coords
}

type rawPlace struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Rating      flexFloat `json:"rating"`
}

// Recommend returns up to MaxPlaces places with unique names near q.
// It degrades to an empty list.
func (g *Gateway) Recommend(ctx context.Context, q Query, dest types.Destination) types.Result[[]types.Place] {
	req := llm.Request{
		System:        systemInstruction,
		Model:         g.cfg.TextModel,
		MapsGrounding: true,
	}
	if q.Coords != nil {
		req.Coords = q.Coords
		req.Parts = []llm.Part{llm.TextPart(nearbyPrompt(*q.Coords, dest))}
	} else {
		req.Parts = []llm.Part{llm.TextPart(searchPrompt(q.Text, dest))}
	}

	resp, err := g.call(ctx, "recommend", req)
	if err != nil {
		degraded("recommend", err)
		return types.Degrade([]types.Place{}, err)
	}

	places, err := parsePlaces(resp.Text, dest)
	if err != nil || len(places) == 0 {
		places = groundedPlaces(resp.Grounding)
	}
	places = uniquePlaces(places, MaxPlaces)

	if len(places) == 0 {
		if err == nil {
			err = ErrNoPlaces
		}
		degraded("recommend", err)
		return types.Degrade([]types.Place{}, err)
	}
	return types.Success(places)
}

func parsePlaces(text string, dest types.Destination) ([]types.Place, error) {
	var raw []rawPlace
	if err := decodeArray(text, &raw); err != nil {
		return nil, err
	}

	places := make([]types.Place, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		p := types.Place{
			Name:        name,
			Description: r.Description,
			Category:    r.Category,
			Rating:      float64(r.Rating),
			MapsURI:     directionsURL(name),
		}
		if p.Category == "" {
			p.Category = defaultCategory
		}
		if p.Rating <= 0 {
			p.Rating = defaultRating
		}
		p.PhotoURL = photoURL("Travel photography of " + name + " in " + countryEnglishName(dest) + " " + p.Category + " cinematic lighting 8k")
		places = append(places, p)
	}
	return places, nil
}

// groundedPlaces builds places from the sources the service cited.
func groundedPlaces(sources []llm.GroundingSource) []types.Place {
	places := make([]types.Place, 0, len(sources))
	for _, s := range sources {
		if s.Title == "" || s.URI == "" {
			continue
		}
		places = append(places, types.Place{
			Name:        s.Title,
			Description: groundedDescription,
			Category:    groundedCategory,
			Rating:      defaultRating,
			PhotoURL:    photoURL(s.Title + " travel landmark"),
			MapsURI:     s.URI,
		})
	}
	return places
}

// uniquePlaces keeps the first place of each name, up to limit entries.
func uniquePlaces(places []types.Place, limit int) []types.Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]types.Place, 0, min(len(places), limit))
	for _, p := range places {
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

func photoURL(prompt string) string {
	return "https://image.pollinations.ai/prompt/" + encodeComponent(prompt) + "?width=600&height=400&nologo=true"
}

func directionsURL(name string) string {
	return "https://www.google.com/maps/dir/?api=1&destination=" + encodeComponent(name)
}
