package inventory

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// Suggest proposes near-miss part numbers for a query that no matching tier
// hit. Candidates are the distinct normalized forms in the dataset, ranked
// by Levenshtein ratio (1 - distance/maxLen) against the normalized query;
// only candidates at or above the cutoff survive. Each accepted normalized
// key expands back to all original spellings that produced it, deduplicated,
// capped at the suggestion limit. An empty result is a normal outcome.
func Suggest(ds *Dataset, query string, limits Limits) []string {
	nq := Normalize(query)
	if ds == nil || nq == "" {
		return nil
	}

	cutoff := limits.SuggestCutoff
	if cutoff <= 0 {
		cutoff = DefaultLimits().SuggestCutoff
	}
	limit := limits.SuggestLimit
	if limit <= 0 {
		limit = DefaultLimits().SuggestLimit
	}

	// Distinct normalized forms in first-seen order, each mapped back to
	// every original spelling that normalizes to it.
	var order []string
	spellings := make(map[string][]string)
	for _, rec := range ds.Records {
		if rec.Normalized == "" {
			continue
		}
		if _, ok := spellings[rec.Normalized]; !ok {
			order = append(order, rec.Normalized)
		}
		spellings[rec.Normalized] = appendUnique(spellings[rec.Normalized], rec.PartNumber)
	}

	type candidate struct {
		key   string
		score float64
	}
	qLen := len([]rune(nq))
	var ranked []candidate
	for _, key := range order {
		maxLen := qLen
		if l := len([]rune(key)); l > maxLen {
			maxLen = l
		}
		if maxLen == 0 {
			continue
		}
		dist := levenshtein.ComputeDistance(nq, key)
		sim := 1 - float64(dist)/float64(maxLen)
		if sim >= cutoff {
			ranked = append(ranked, candidate{key: key, score: sim})
		}
	}

	// Best first; stable sort keeps first-seen order on score ties.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var out []string
	for _, c := range ranked {
		for _, original := range spellings[c.key] {
			out = appendUnique(out, original)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}

func appendUnique(dst []string, s string) []string {
	for _, v := range dst {
		if v == s {
			return dst
		}
	}
	return append(dst, s)
}
