package matching

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"sink_quoter/internal/models"
)

type Matcher struct {
	thresholds Thresholds
	addOns     AddOnPricing
}

func NewMatcher(thresholds Thresholds, addOns AddOnPricing) *Matcher {
	return &Matcher{thresholds: thresholds, addOns: addOns}
}

// Match scores every candidate against the measurement and returns the ranked,
// truncated list. Candidates are independent, so each is scored in its own
// goroutine writing to its own slot.
func (m *Matcher) Match(candidates []models.Product, ms *models.Measurement, prefs Preferences, limit int) []MatchResult {
	results := make([]MatchResult, len(candidates))

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.Evaluate(&candidates[i], ms, prefs)
		}(i)
	}
	wg.Wait()

	return Rank(results, limit)
}

// Evaluate produces the full match result for one product.
func (m *Matcher) Evaluate(p *models.Product, ms *models.Measurement, prefs Preferences) MatchResult {
	res := MatchResult{
		Product:          p,
		HardGateFailures: []string{},
		Warnings:         []string{},
		AddOns:           []AddOnService{},
		Clearances: Clearances{
			Width:  round2(ms.CabinetWidth - p.Width),
			Depth:  round2(ms.CabinetDepth - p.Depth),
			Height: round2(ms.CabinetHeight - p.Height),
		},
	}

	methods := m.EvaluateInstallMethods(p, ms)
	res.FeasibleMethods = methods.Feasible
	res.EliminatedMethods = methods.Eliminated

	res.HardGateFailures = append(res.HardGateFailures, m.hardGates(p, ms)...)
	if len(res.HardGateFailures) > 0 {
		res.FitRating = FitNoGo
		res.OverallScore = 0
	} else {
		score, warnings := m.softScore(p, ms, prefs, len(methods.Feasible), res.Clearances)
		res.Warnings = append(res.Warnings, warnings...)
		res.OverallScore = score
		res.FitRating = ratingFor(score)

		if len(methods.Feasible) == 0 {
			res.FitRating = FitNoGo
			res.OverallScore = 0
			res.Warnings = append(res.Warnings, "no install method is feasible for this cabinet")
		}
	}

	m.addContext(&res, ms)
	return res
}

// hardGates returns every disqualifying reason; evaluation order does not matter.
func (m *Matcher) hardGates(p *models.Product, ms *models.Measurement) []string {
	var failures []string

	if minWidth, ok := p.EffectiveMinCabinetWidth(); ok && ms.CabinetWidth < minWidth {
		source := "manufacturer"
		if p.FieldMinCabinetWidth != nil {
			source = "field-tested"
		}
		failures = append(failures, fmt.Sprintf(
			"cabinet width %.2fin is below the %s minimum of %.2fin", ms.CabinetWidth, source, minWidth))
	}

	if isCastIron(ms) && ms.CabinetWidth < m.thresholds.CastIronMinCabinetWidth {
		failures = append(failures, fmt.Sprintf(
			"cast iron removal is not possible in a cabinet narrower than %.2fin", m.thresholds.CastIronMinCabinetWidth))
	}

	if p.Width > ms.CabinetWidth {
		failures = append(failures, fmt.Sprintf(
			"sink width %.2fin exceeds cabinet width %.2fin", p.Width, ms.CabinetWidth))
	}

	return failures
}

func (m *Matcher) softScore(p *models.Product, ms *models.Measurement, prefs Preferences, feasible int, c Clearances) (int, []string) {
	var warnings []string
	score := 0

	switch {
	case c.Width >= 6:
		score += 25
	case c.Width >= 3:
		score += 20
	case c.Width >= 1:
		score += 12
	default:
		score += 5
	}

	switch {
	case c.Depth >= 4:
		score += 20
	case c.Depth >= 2:
		score += 15
	case c.Depth >= 0:
		score += 8
	default:
		warnings = append(warnings, fmt.Sprintf("sink is %.2fin deeper than the cabinet", -c.Depth))
	}

	score += mountingPoints(p.MountingStyle, ms.MountingStylePreference)
	score += bowlPoints(p, ms, prefs)

	score += min(10, 3*feasible)
	if feasible == 1 {
		warnings = append(warnings, "only one install method is feasible")
	}

	if prefs.Color != nil && strings.EqualFold(strings.TrimSpace(*prefs.Color), strings.TrimSpace(p.Color)) {
		score += 5
	} else {
		score += 3
	}

	if prefs.Workstation != nil && *prefs.Workstation == p.IsWorkstation {
		score += 5
	}

	switch {
	case prefs.MaxPrice == nil:
		score += 3
	case p.Price.LessThanOrEqual(*prefs.MaxPrice):
		score += 5
	default:
		over := p.Price.Sub(*prefs.MaxPrice)
		warnings = append(warnings, fmt.Sprintf("price %s is %s over budget", p.Price.StringFixed(2), over.StringFixed(2)))
	}

	switch {
	case prefs.InstallationType == nil:
		score += 3
	case p.InstallationType == *prefs.InstallationType || p.InstallationType == models.InstallUniversal:
		score += 5
	}

	return clampScore(score), warnings
}

// compatibleMounts lists mounting styles that satisfy each other's preference
// without being identical.
var compatibleMounts = map[models.MountingStyle]models.MountingStyle{
	models.MountDropIn: models.MountFlush,
	models.MountFlush:  models.MountDropIn,
}

func mountingPoints(style models.MountingStyle, pref *models.MountingStyle) int {
	switch {
	case pref == nil:
		return 10
	case style == *pref:
		return 15
	case compatibleMounts[style] == *pref:
		return 12
	default:
		return 5
	}
}

func bowlPoints(p *models.Product, ms *models.Measurement, prefs Preferences) int {
	if prefs.BowlConfiguration != nil {
		if p.BowlConfiguration == *prefs.BowlConfiguration {
			return 10
		}
		return 3
	}
	if ms.ExistingSinkBowlCount != nil {
		if p.BowlCount == *ms.ExistingSinkBowlCount {
			return 10
		}
		return 4
	}
	return 7
}

func ratingFor(score int) FitRating {
	switch {
	case score >= 80:
		return FitExcellent
	case score >= 55:
		return FitGood
	default:
		return FitMarginal
	}
}

// addContext attaches site warnings and add-on services regardless of score.
func (m *Matcher) addContext(res *MatchResult, ms *models.Measurement) {
	if isCastIron(ms) {
		res.Warnings = append(res.Warnings, "existing cast iron sink must be removed; expect extra labor and disposal")
		res.AddOns = append(res.AddOns, AddOnService{
			Code:   AddOnCastIronRemoval,
			Name:   "Cast iron sink removal",
			Price:  m.addOns.CastIronRemoval,
			Reason: "existing sink is cast iron",
		})
	}

	if ms.CabinetIntegrity != nil {
		switch *ms.CabinetIntegrity {
		case models.IntegrityQuestionable:
			res.AddOns = append(res.AddOns, AddOnService{
				Code:   AddOnCabinetReinforcement,
				Name:   "Cabinet reinforcement",
				Price:  m.addOns.CabinetReinforcement,
				Reason: "cabinet integrity is questionable",
			})
		case models.IntegrityCompromised:
			res.AddOns = append(res.AddOns, AddOnService{
				Code:   AddOnFloorReplacement,
				Name:   "Cabinet floor replacement",
				Price:  m.addOns.FloorReplacement,
				Reason: "cabinet integrity is compromised",
			})
		}
	}

	if ms.HasROSystem {
		res.Warnings = append(res.Warnings, "reverse osmosis system under the sink; confirm bowl depth leaves room for the tank and lines")
	}
}

func isCastIron(ms *models.Measurement) bool {
	return ms.ExistingSinkMaterial != nil &&
		strings.EqualFold(strings.TrimSpace(*ms.ExistingSinkMaterial), models.SinkMaterialCastIron)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
