// Package resolve maps free-text party names, typically produced by the
// photo scanner, onto the known-party directory by approximate string
// matching. It reduces duplicate-party proliferation from handwriting
// variance; it does not guarantee correctness, which is why scan imports
// go through a human review step before anything is persisted.
package resolve

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/gautampharma/ledger/pkg/models"
)

// DefaultCutoff is the minimum similarity for a match to be accepted.
// Tunable, not a contract.
const DefaultCutoff = 0.6

// Resolver matches scanned names against a fixed set of known names.
type Resolver struct {
	known  []string
	cutoff float64
}

// New builds a resolver over the given known names. A cutoff of 0 selects
// DefaultCutoff.
func New(known []string, cutoff float64) *Resolver {
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	return &Resolver{known: known, cutoff: cutoff}
}

// FromParties builds a resolver over a party directory.
func FromParties(parties []models.Party, cutoff float64) *Resolver {
	names := make([]string, 0, len(parties))
	for _, p := range parties {
		names = append(names, p.Name)
	}
	return New(names, cutoff)
}

// Resolve returns the known name most similar to scanned when the
// similarity clears the cutoff, otherwise scanned unchanged (an implicit
// new party). An exact key match short-circuits, which also makes the
// operation idempotent: resolving a resolved name returns it as-is.
func (r *Resolver) Resolve(scanned string) string {
	in := strings.TrimSpace(scanned)
	if in == "" {
		return scanned
	}

	key := models.PartyKey(in)
	best, bestScore := "", 0.0
	for _, name := range r.known {
		if models.PartyKey(name) == key {
			return name
		}
		if score := similarity(key, models.PartyKey(name)); score > bestScore {
			best, bestScore = name, score
		}
	}

	if bestScore >= r.cutoff {
		return best
	}
	return in
}

// similarity is 1 - levenshtein/maxlen, in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
