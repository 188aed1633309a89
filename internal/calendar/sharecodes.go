package calendar

import (
	"context"
	"log"
)

// CodeGenerator produces a scannable image for a URL.
type CodeGenerator interface {
	Generate(ctx context.Context, url string) ([]byte, error)
}

// BuildShareCodes generates the footer images for the menu source page and
// the project page. Empty URLs are skipped; a failed image is logged and left
// out.
func BuildShareCodes(ctx context.Context, gen CodeGenerator, sourceURL, projectURL string) []ShareCode {
	if gen == nil {
		return nil
	}
	targets := []ShareCode{
		{Caption: "This menu online", URL: sourceURL},
		{Caption: "Make your own calendar", URL: projectURL},
	}

	var codes []ShareCode
	for _, t := range targets {
		if t.URL == "" {
			continue
		}
		png, err := gen.Generate(ctx, t.URL)
		if err != nil {
			log.Printf("Failed to generate share code for %s: %v", t.URL, err)
			continue
		}
		t.PNG = png
		codes = append(codes, t)
	}
	return codes
}
