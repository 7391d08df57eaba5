// Package pattern implements ordered regex strategy cascades: several
// incompatible heading conventions are tried in priority order and the first
// one that produces anything wins.
package pattern

// Item is one titled span produced by a strategy.
type Item struct {
	Number  string
	Title   string
	Content string
}

// Strategy is a named matching rule. Attempt returns nil or an empty slice
// when the rule does not apply to the text.
type Strategy struct {
	Name    string
	Attempt func(text string) []Item
}

// Cascade is an ordered list of strategies.
type Cascade []Strategy

// Result records which strategy produced the items. An empty Strategy name
// means nothing matched, which is a valid outcome.
type Result struct {
	Strategy string
	Items    []Item
}

// Matched reports whether any strategy produced items.
func (r Result) Matched() bool {
	return len(r.Items) > 0
}

// Run tries each strategy in order and returns the first non-empty result.
// Results from different strategies are never merged.
func (c Cascade) Run(text string) Result {
	for _, s := range c {
		if s.Attempt == nil {
			continue
		}
		if items := s.Attempt(text); len(items) > 0 {
			return Result{Strategy: s.Name, Items: items}
		}
	}
	return Result{}
}

// Names lists the strategy names in priority order.
func (c Cascade) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name
	}
	return names
}
