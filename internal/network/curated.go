package network

import "github.com/ppiankov/reformcast/internal/model"

func entry(leg, judicial, union, challenge, crisis bool, p float64, label string) model.CuratedEntry {
	return model.CuratedEntry{
		Factors:     []bool{leg, judicial, union, challenge, crisis},
		Probability: p,
		Label:       label,
	}
}

const (
	yes = true
	no  = false
)

// DefaultCurated returns the expert-assigned table values. Tuples are
// (legislative majority, judicial change, union cooperation,
// constitutional challenge, economic crisis).
// Six combinations are absent and get interpolated.
func DefaultCurated() []model.CuratedEntry {
	return []model.CuratedEntry{
		entry(yes, yes, yes, no, yes, 0.45, "best case"),

		entry(yes, yes, yes, no, no, 0.38, "very good"),
		entry(yes, yes, no, no, yes, 0.35, "very good"),
		entry(yes, no, yes, no, yes, 0.31, "very good"),

		entry(yes, yes, yes, yes, yes, 0.28, "good"),
		entry(yes, yes, no, no, no, 0.27, "good"),
		entry(yes, no, yes, no, no, 0.24, "good"),
		entry(no, yes, yes, no, yes, 0.22, "good"),

		entry(yes, yes, no, yes, yes, 0.19, "moderate"),
		entry(yes, no, yes, yes, yes, 0.18, "moderate"),
		entry(yes, no, no, no, yes, 0.16, "moderate"),
		entry(no, yes, yes, no, no, 0.15, "moderate"),
		entry(yes, yes, no, yes, no, 0.14, "moderate"),

		entry(yes, no, no, yes, yes, 0.11, "below average"),
		entry(no, yes, no, no, yes, 0.10, "below average"),
		entry(yes, no, no, yes, no, 0.09, "below average"),
		entry(no, no, yes, no, yes, 0.08, "below average"),
		entry(yes, no, no, no, no, 0.07, "below average"),

		entry(no, yes, no, yes, yes, 0.06, "bad"),
		entry(no, no, yes, yes, yes, 0.05, "bad"),
		entry(no, no, no, no, yes, 0.04, "bad"),
		entry(yes, no, yes, yes, no, 0.04, "bad"),
		entry(no, yes, no, yes, no, 0.04, "bad"),

		entry(no, no, no, yes, yes, 0.02, "worst"),
		entry(no, no, no, yes, no, 0.01, "worst"),
		entry(no, no, no, no, no, 0.03, "low but not zero (no challenge)"),
	}
}
