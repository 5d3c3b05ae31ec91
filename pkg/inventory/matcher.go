package inventory

import "strings"

// Tier identifies which matching strategy produced a result set. The reply
// lead-in phrasing depends on it.
type Tier string

const (
	TierNone       Tier = "none"
	TierRaw        Tier = "raw"
	TierNormalized Tier = "normalized"
	TierFuzzy      Tier = "fuzzy"
)

// Limits are the tunable caps of the matching pipeline. Zero values fall
// back to the defaults.
type Limits struct {
	ReplyCap      int     `yaml:"reply_cap"`
	SuggestLimit  int     `yaml:"suggest_limit"`
	SuggestCutoff float64 `yaml:"suggest_cutoff"`
	FuzzyMaxQuery int     `yaml:"fuzzy_max_query"`
}

// DefaultLimits returns the shipped tuning.
func DefaultLimits() Limits {
	return Limits{
		ReplyCap:      10,
		SuggestLimit:  8,
		SuggestCutoff: 0.6,
		FuzzyMaxQuery: 64,
	}
}

// MatchResult is an ordered set of matched records plus the tier that
// produced it. Records keep dataset insertion order and carry no duplicates:
// exactly one tier fires and each tier scans every row once.
type MatchResult struct {
	Tier    Tier
	Records []Record
}

// Empty reports whether no tier matched.
func (m MatchResult) Empty() bool { return len(m.Records) == 0 }

// Total is the full match count, before any display cap.
func (m MatchResult) Total() int { return len(m.Records) }

// Find runs the tiered search over the dataset snapshot. Tiers escalate from
// strict to permissive and short-circuit: the first tier with hits wins.
//
//  1. raw: case-insensitive substring over the original part number, so a
//     query typed with the exact separators of the source data still hits;
//  2. normalized: substring over the separator-free forms;
//  3. fuzzy: the normalized query's characters must appear in order in the
//     candidate's normalized form, gaps allowed.
//
// "No matches" is a normal empty result, never an error.
func Find(ds *Dataset, query string, limits Limits) MatchResult {
	query = strings.TrimSpace(query)
	if ds == nil || query == "" {
		return MatchResult{Tier: TierNone}
	}

	lower := strings.ToLower(query)
	if recs := scan(ds, func(r Record) bool {
		return strings.Contains(strings.ToLower(r.PartNumber), lower)
	}); len(recs) > 0 {
		return MatchResult{Tier: TierRaw, Records: recs}
	}

	nq := Normalize(query)
	if nq == "" {
		// An all-separator query must not degenerate into matching every row.
		return MatchResult{Tier: TierNone}
	}
	if recs := scan(ds, func(r Record) bool {
		return strings.Contains(r.Normalized, nq)
	}); len(recs) > 0 {
		return MatchResult{Tier: TierNormalized, Records: recs}
	}

	maxFuzzy := limits.FuzzyMaxQuery
	if maxFuzzy <= 0 {
		maxFuzzy = DefaultLimits().FuzzyMaxQuery
	}
	if len(nq) > maxFuzzy {
		return MatchResult{Tier: TierNone}
	}
	if recs := scan(ds, func(r Record) bool {
		return isSubsequence(nq, r.Normalized)
	}); len(recs) > 0 {
		return MatchResult{Tier: TierFuzzy, Records: recs}
	}

	return MatchResult{Tier: TierNone}
}

func scan(ds *Dataset, pred func(Record) bool) []Record {
	var out []Record
	for _, rec := range ds.Records {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// isSubsequence reports whether every rune of needle appears in hay in
// order, with arbitrary runes permitted between them. Two-pointer walk,
// linear in len(hay), no per-query pattern compilation.
func isSubsequence(needle, hay string) bool {
	if needle == "" {
		return false
	}
	nr := []rune(needle)
	i := 0
	for _, ch := range hay {
		if ch == nr[i] {
			i++
			if i == len(nr) {
				return true
			}
		}
	}
	return false
}
