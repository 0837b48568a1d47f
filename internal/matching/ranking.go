package matching

import "sort"

// Rank orders results best-first with every no_go result after every feasible
// one, then truncates to the normalized limit. Ties break on price, then SKU,
// so the order is deterministic.
func Rank(results []MatchResult, limit int) []MatchResult {
	ranked := make([]MatchResult, 0, len(results))
	var noGo []MatchResult

	for _, r := range results {
		if r.FitRating == FitNoGo {
			noGo = append(noGo, r)
		} else {
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if !a.Product.Price.Equal(b.Product.Price) {
			return a.Product.Price.LessThan(b.Product.Price)
		}
		return a.Product.SKU < b.Product.SKU
	})
	sort.SliceStable(noGo, func(i, j int) bool {
		return noGo[i].Product.SKU < noGo[j].Product.SKU
	})

	ranked = append(ranked, noGo...)

	limit = NormalizeLimit(limit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
