package content

import "context"

// rewriteRule replaces a stale literal at path with its current wording.
type rewriteRule struct {
	path []string
	from string
	to   string
}

var rewriteRules = []rewriteRule{
	{path: []string{"shop", "header", "eyebrow"}, from: "Butikk", to: "Tilbud"},
	{path: []string{"productsPage", "header", "eyebrow"}, from: "Butikk", to: "Produkter"},
	{path: []string{"collectionsPage", "cta", "primaryCta", "label"}, from: "Gå til butikk", to: "Gå til tilbud"},
}

// ApplyRewrites returns doc with every matching rule applied and whether anything changed.
func ApplyRewrites(doc Value) (Value, bool) {
	out := doc.Clone()
	changed := false
	for _, rule := range rewriteRules {
		current, ok := out.Path(rule.path...).AsString()
		if !ok || current != rule.from {
			continue
		}
		out = setPath(out, rule.path, String(rule.to))
		changed = true
	}
	return out, changed
}

func setPath(v Value, path []string, leaf Value) Value {
	if len(path) == 1 {
		return v.With(path[0], leaf)
	}
	return v.With(path[0], setPath(v.Get(path[0]), path[1:], leaf))
}

// Migrate rewrites known stale wording in the stored document and saves it when
// something changed. Running it again is a no-op.
func (s *Store) Migrate(ctx context.Context) (bool, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	updated, changed := ApplyRewrites(doc)
	if !changed {
		return false, nil
	}
	if _, err := s.Save(ctx, updated); err != nil {
		return false, err
	}
	if s.logg != nil {
		s.logg.Info(ctx, "content.migrated")
	}
	return true, nil
}
