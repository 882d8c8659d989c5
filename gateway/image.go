package gateway

import (
	"context"
	"net/http"
	"strings"

	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/llm"
)

// ImageApology is shown when an image cannot be analyzed.
const ImageApology = "No pude analizar la imagen. Intenta de nuevo."

// AnalyzeImage describes or translates what an image taken in dest shows.
// An empty mimeType is sniffed from the data.
func (g *Gateway) AnalyzeImage(ctx context.Context, image []byte, mimeType string, dest types.Destination) types.Result[string] {
	if len(image) == 0 {
		degraded("analyze image", errMissingField)
		return types.Degrade(ImageApology, errMissingField)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	resp, err := g.call(ctx, "analyze image", llm.Request{
		Model: g.cfg.TextModel,
		Parts: []llm.Part{
			llm.BlobPart(image, mimeType),
			llm.TextPart(imagePrompt(dest)),
		},
	})
	if err != nil {
		degraded("analyze image", err)
		return types.Degrade(ImageApology, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		degraded("analyze image", errMissingField)
		return types.Degrade(ImageApology, errMissingField)
	}
	return types.Success(text)
}
