package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/prodboard/internal/domain"
)

// resolveProduct looks a product up by short ID (case-insensitive), full
// UUID, or unambiguous UUID prefix. Archived products are included.
func resolveProduct(ctx context.Context, app *App, input string) (*domain.Product, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("product ID is required")
	}

	products, err := app.Products.List(ctx, true)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		if strings.EqualFold(p.ShortID, input) {
			return p, nil
		}
	}
	for _, p := range products {
		if p.ID == input {
			return p, nil
		}
	}

	var matches []*domain.Product
	for _, p := range products {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("product not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("product ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveFeature looks a feature up from one of:
//   - "CRM01#4": product short ID and sequence number
//   - "#4" or "4": sequence number, requires productInput
//   - a UUID or unambiguous UUID prefix, scoped to productInput when given
func resolveFeature(ctx context.Context, app *App, productInput, input string) (*domain.Feature, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("feature ID is required")
	}

	if prefix, seqPart, ok := strings.Cut(input, "#"); ok && prefix != "" {
		productInput, input = prefix, "#"+seqPart
	}

	if seq, ok := parseSeq(input); ok {
		if productInput == "" {
			return nil, fmt.Errorf("feature #%d requires product context (use --product or PRODUCT#%d)", seq, seq)
		}
		product, err := resolveProduct(ctx, app, productInput)
		if err != nil {
			return nil, err
		}
		features, err := app.Features.ListByProduct(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		for _, f := range features {
			if f.Seq == seq {
				return f, nil
			}
		}
		return nil, fmt.Errorf("feature #%d not found in %s", seq, product.DisplayID())
	}

	if productInput == "" {
		f, err := app.Features.GetByID(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", input, err)
		}
		return f, nil
	}

	product, err := resolveProduct(ctx, app, productInput)
	if err != nil {
		return nil, err
	}
	features, err := app.Features.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Feature
	for _, f := range features {
		if f.ID == input {
			return f, nil
		}
		if strings.HasPrefix(f.ID, input) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("feature not found in %s: %q", product.DisplayID(), input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("feature ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveFeatureIDs resolves each reference against the same product.
func resolveFeatureIDs(ctx context.Context, app *App, productInput string, inputs []string) ([]string, error) {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		f, err := resolveFeature(ctx, app, productInput, in)
		if err != nil {
			return nil, err
		}
		ids = append(ids, f.ID)
	}
	return ids, nil
}

func parseSeq(input string) (int, bool) {
	seq, err := strconv.Atoi(strings.TrimPrefix(input, "#"))
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}
