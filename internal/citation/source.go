package citation

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// Source supplies every random choice the generator makes.
type Source interface {
	// IntN returns a uniform integer in [0, n). n is always > 0.
	IntN(n int) int
	FullName() string
	FirstName() string
	LastName() string
	CatchPhrase() string
	// Sentence returns a short lorem sentence of the given word count.
	Sentence(words int) string
	// Words returns n space-separated lorem words.
	Words(n int) string
	// UUID returns a fresh random UUID string.
	UUID() string
}

// FakerSource is the production Source backed by gofakeit and google/uuid.
type FakerSource struct {
	faker *gofakeit.Faker
}

// NewFakerSource creates a FakerSource. A zero seed draws a random seed.
func NewFakerSource(seed uint64) *FakerSource {
	return &FakerSource{faker: gofakeit.New(seed)}
}

func (s *FakerSource) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	return s.faker.Number(0, n-1)
}

func (s *FakerSource) FullName() string    { return s.faker.Name() }
func (s *FakerSource) FirstName() string   { return s.faker.FirstName() }
func (s *FakerSource) LastName() string    { return s.faker.LastName() }
func (s *FakerSource) CatchPhrase() string { return s.faker.Slogan() }

func (s *FakerSource) Sentence(words int) string {
	return s.faker.LoremIpsumSentence(words)
}

func (s *FakerSource) Words(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = s.faker.LoremIpsumWord()
	}
	return strings.Join(words, " ")
}

// Paragraph returns a lorem paragraph of a few sentences.
func (s *FakerSource) Paragraph() string {
	return s.faker.LoremIpsumParagraph(1, 3+s.IntN(4), 6+s.IntN(8), " ")
}

// Sentences returns n lorem sentences joined by spaces.
func (s *FakerSource) Sentences(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = s.faker.LoremIpsumSentence(6 + s.IntN(8))
	}
	return strings.Join(out, " ")
}

// UUID uses google/uuid so identifiers stay unique even for seeded sources.
func (s *FakerSource) UUID() string { return uuid.NewString() }
