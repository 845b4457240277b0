// Package randgen produces the randomized field values for seeded records:
// names from fixed vocabularies, emails, phone numbers, numeric ranges and
// jittered clock times. All randomness flows through an explicitly seeded
// generator so runs are reproducible and tests deterministic.
package randgen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

var firstNames = []string{
	"Ahmed", "Mohamed", "Ali", "Hassan", "Omar", "Youssef", "Khaled", "Mostafa",
	"Hany", "Karim", "Laila", "Nour", "Hagar", "Mariam", "Aya", "Nada",
	"Asmaa", "Sara", "Dina", "Reem",
}

var lastNames = []string{
	"Hassan", "Fathy", "Said", "Nasser", "Mansour", "Farag", "Anwar", "Mahmoud",
	"Mostafa", "Salem", "Ali", "Yehia", "Kamel", "Zaki", "Ashraf", "Ibrahim",
	"Hamed", "Fouad", "Gaber", "Rashed",
}

var phonePrefixes = []string{"010", "011", "012", "015"}

// EmailDomain is appended to every generated address.
const EmailDomain = "gmail.com"

// Generator wraps a seeded pseudo-random source.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator from a seed. The same seed replays the same run.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Pick returns a uniformly random element of a non-empty list.
func (g *Generator) Pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

// Index returns a uniformly random index below n.
// PRE: n > 0
func (g *Generator) Index(n int) int {
	return g.rng.Intn(n)
}

// IntBetween returns a uniformly random integer in [min, max], inclusive.
// PRE: min <= max
func (g *Generator) IntBetween(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

// Float returns a uniformly random float in [0, 1).
func (g *Generator) Float() float64 {
	return g.rng.Float64()
}

// FullName concatenates one random first name and one random last name.
func (g *Generator) FullName() string {
	return g.Pick(firstNames) + " " + g.Pick(lastNames)
}

// Email derives an address from a name: lower-cased, letters only, with a
// numeric suffix guaranteeing uniqueness across the generated batch.
// POST: Result is a syntactically valid address even for empty names
func (g *Generator) Email(name string, index int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s%d@%s", base, index, EmailDomain)
}

// Phone concatenates a random prefix with two random numeric groups.
func (g *Generator) Phone() string {
	return fmt.Sprintf("%s-%d-%d", g.Pick(phonePrefixes), g.IntBetween(100, 999), g.IntBetween(1000, 9999))
}

// Clock returns a time on the given day at baseHour local time, shifted by a
// uniform jitter of at most varianceMin minutes in either direction.
func (g *Generator) Clock(day time.Time, baseHour, varianceMin int) time.Time {
	base := time.Date(day.Year(), day.Month(), day.Day(), baseHour, 0, 0, 0, day.Location())
	offset := g.IntBetween(-varianceMin, varianceMin)
	return base.Add(time.Duration(offset) * time.Minute)
}
