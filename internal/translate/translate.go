package translate

import (
	"context"
	"fmt"
)

type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// All translates every item on its own, in order. The first failure
// aborts the whole batch.
func All(ctx context.Context, t Translator, items []string) ([]string, error) {
	out := make([]string, len(items))
	for i, item := range items {
		translated, err := t.Translate(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("translate item %d (%q): %w", i, item, err)
		}
		out[i] = translated
	}
	return out, nil
}
