package network

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ppiankov/reformcast/internal/model"
)

// ErrMalformedEntry is returned by Build for a curated entry that cannot be
// placed in the table.
var ErrMalformedEntry = errors.New("malformed curated entry")

// Interpolation constants. Changing any of them silently shifts every
// interpolated probability, so they are fixed.
const (
	interpBase   = 0.05
	interpScale  = 0.35
	interpDivide = 10.0
	interpMin    = 0.01
	interpMax    = 0.45

	// FallbackProbability is returned for a slot that was never filled.
	FallbackProbability = 0.05
)

// favorabilityWeights are indexed by factor. The challenge factor counts
// when it is absent.
var favorabilityWeights = [model.NumFactors]float64{1, 1, 1, 1, 0.5}

// Table is the conditional probability table P(success | factors).
// It is immutable after Build and safe for concurrent readers.
type Table struct {
	probs  [model.NumAssignments]float64
	source [model.NumAssignments]model.Provenance
	misses atomic.Int64
}

// FavorabilityScore counts favorable conditions with fixed weights:
// legislative majority, judicial change, union cooperation and the absence
// of a constitutional challenge each add 1; a deepening crisis adds 0.5.
func FavorabilityScore(a model.Assignment) float64 {
	score := 0.0
	for _, f := range model.Factors() {
		favorable := a.Get(f)
		if f == model.ConstitutionalChallengeFiled {
			favorable = !favorable
		}
		if favorable {
			score += favorabilityWeights[f]
		}
	}
	return score
}

// Interpolate maps an assignment to p = clamp(0.05 + score/10*0.35, 0.01, 0.45).
func Interpolate(a model.Assignment) float64 {
	p := interpBase + (FavorabilityScore(a)/interpDivide)*interpScale
	return math.Max(interpMin, math.Min(interpMax, p))
}

// Build constructs a total table. Curated entries are placed verbatim;
// every remaining assignment is interpolated. A nil curated slice means
// an empty curated set, not the default one.
func Build(curated []model.CuratedEntry) (*Table, error) {
	t := &Table{}

	for i, e := range curated {
		a, err := model.AssignmentFromSlice(e.Factors)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedEntry, i, err)
		}
		p := e.Probability
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w: entry %d (%s): probability %v outside [0,1]", ErrMalformedEntry, i, a, p)
		}
		idx := a.Index()
		if t.source[idx] != "" {
			return nil, fmt.Errorf("%w: entry %d: duplicate assignment %s", ErrMalformedEntry, i, a)
		}
		t.probs[idx] = p
		t.source[idx] = model.ProvenanceCurated
	}

	for i := range t.probs {
		if t.source[i] != "" {
			continue
		}
		t.probs[i] = Interpolate(model.AssignmentFromIndex(uint8(i)))
		t.source[i] = model.ProvenanceInterpolated
	}

	return t, nil
}

// Probability returns P(success | a). The boolean reports whether the slot
// was filled; an unfilled slot yields FallbackProbability.
func (t *Table) Probability(a model.Assignment) (float64, bool) {
	idx := a.Index()
	if t.source[idx] == "" {
		return FallbackProbability, false
	}
	return t.probs[idx], true
}

// Provenance reports whether the entry for a is curated or interpolated.
func (t *Table) Provenance(a model.Assignment) model.Provenance {
	return t.source[a.Index()]
}

// Misses returns how many lookups hit an unfilled slot. Non-zero means the
// table was not produced by Build.
func (t *Table) Misses() int64 {
	return t.misses.Load()
}

// Entries lists all 32 rows in index order.
func (t *Table) Entries() []model.TableEntry {
	entries := make([]model.TableEntry, 0, model.NumAssignments)
	for _, a := range model.AllAssignments() {
		p, _ := t.Probability(a)
		entries = append(entries, model.TableEntry{
			Assignment:   a,
			Probability:  p,
			Provenance:   t.Provenance(a),
			Favorability: FavorabilityScore(a),
		})
	}
	return entries
}

// Counts returns the number of curated and interpolated entries.
func (t *Table) Counts() (curated, interpolated int) {
	for _, src := range t.source {
		switch src {
		case model.ProvenanceCurated:
			curated++
		case model.ProvenanceInterpolated:
			interpolated++
		}
	}
	return curated, interpolated
}
