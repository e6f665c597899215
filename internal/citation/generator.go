package citation

import "strings"

// AttemptsPerFragment bounds Generate to len(pool)*AttemptsPerFragment tries.
const AttemptsPerFragment = 3

// Registry is the membership-test-and-insert view of the used-hash set.
type Registry interface {
	Has(hash string) bool
	Add(hash string) bool
}

// attributions are picked uniformly; the empty one yields no attribution.
var attributions = []func(Source) string{
	func(s Source) string { return "», selon " + s.FullName() },
	func(s Source) string { return "», rappelle " + s.LastName() },
	func(s Source) string { return "», souligne " + s.FirstName() },
	func(s Source) string { return "», " + s.CatchPhrase() },
	func(Source) string { return "" },
}

// insertions are picked uniformly; the empty one yields no insertion.
var insertions = []func(Source) string{
	func(Source) string { return "" },
	func(s Source) string { return s.Sentence(2) },
	func(s Source) string { return s.Words(3) },
}

// Report describes one Generate call.
type Report struct {
	Variants   []Variant
	Requested  int
	Attempts   int
	Collisions int
}

// Exhausted reports whether the attempt budget ran out before Requested
// variants were accepted.
func (r Report) Exhausted() bool { return len(r.Variants) < r.Requested }

// Generator produces citation variants. It is not safe for concurrent use
// because the registry it is handed is mutated in place.
type Generator struct {
	source Source
}

// NewGenerator creates a Generator drawing randomness from source.
func NewGenerator(source Source) *Generator {
	return &Generator{source: source}
}

// Generate returns up to count variants whose hashes were absent from reg,
// adding each accepted hash to reg.
func (g *Generator) Generate(pool []string, reg Registry, count int) []Variant {
	return g.Run(pool, reg, count).Variants
}

// Run is Generate with attempt accounting.
func (g *Generator) Run(pool []string, reg Registry, count int) Report {
	report := Report{Variants: []Variant{}, Requested: max(count, 0)}
	if len(pool) == 0 {
		return report
	}

	budget := len(pool) * AttemptsPerFragment
	for len(report.Variants) < count && report.Attempts < budget {
		report.Attempts++

		v := g.compose(pool)
		if reg.Has(v.Hash) {
			report.Collisions++
			continue
		}
		reg.Add(v.Hash)
		report.Variants = append(report.Variants, v)
	}
	return report
}

func (g *Generator) compose(pool []string) Variant {
	base := strings.TrimSpace(pool[g.source.IntN(len(pool))])
	attribution := attributions[g.source.IntN(len(attributions))](g.source)
	insertion := insertions[g.source.IntN(len(insertions))](g.source)
	id := Fingerprint(g.source.UUID())

	var text string
	if insertion != "" {
		text = base + " " + insertion + " " + attribution + " — ID " + id
	} else {
		text = base + " " + attribution + " — ID " + id
	}
	return Variant{Text: text, ID: id, Hash: Fingerprint(text)}
}
