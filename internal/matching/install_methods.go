package matching

import (
	"fmt"
	"math"
	"strings"

	"sink_quoter/internal/models"
)

// EvaluateInstallMethods reports every install method as feasible or
// eliminated. It does not look at hard gates, so disqualified products still
// get a full diagnostic.
func (m *Matcher) EvaluateInstallMethods(p *models.Product, ms *models.Measurement) InstallMethodEvaluation {
	eval := InstallMethodEvaluation{
		Feasible:   []InstallMethodResult{},
		Eliminated: []InstallMethodResult{},
	}
	for _, method := range AllInstallMethods {
		res := m.evaluateMethod(method, p, ms)
		if res.Feasible {
			eval.Feasible = append(eval.Feasible, res)
		} else {
			eval.Eliminated = append(eval.Eliminated, res)
		}
	}
	return eval
}

func (m *Matcher) evaluateMethod(method InstallMethod, p *models.Product, ms *models.Measurement) InstallMethodResult {
	var problems []string
	var ok string

	switch method {
	case BowlSwap:
		problems, ok = m.bowlSwap(p, ms)
	case CutAndPolish:
		problems, ok = m.cutAndPolish(p, ms)
	case TopMount:
		problems, ok = m.topMount(p, ms)
	case ApronFront:
		problems, ok = m.apronFront(p, ms)
	default:
		problems = []string{fmt.Sprintf("unknown install method %q", method)}
	}

	if len(problems) > 0 {
		return InstallMethodResult{Method: method, Feasible: false, Reason: strings.Join(problems, "; ")}
	}
	return InstallMethodResult{Method: method, Feasible: true, Reason: ok}
}

func (m *Matcher) bowlSwap(p *models.Product, ms *models.Measurement) ([]string, string) {
	var problems []string
	tol := m.thresholds.CutoutTolerance

	if ms.ExistingCutoutWidth == nil || ms.ExistingCutoutDepth == nil {
		problems = append(problems, "no existing cutout measured")
	} else {
		dw := math.Abs(*ms.ExistingCutoutWidth - p.Width)
		dd := math.Abs(*ms.ExistingCutoutDepth - p.Depth)
		if dw > tol || dd > tol {
			problems = append(problems, fmt.Sprintf(
				"existing cutout %.2fx%.2f is not within %.2fin of sink %.2fx%.2f",
				*ms.ExistingCutoutWidth, *ms.ExistingCutoutDepth, tol, p.Width, p.Depth))
		}
	}
	if ms.CabinetIntegrity != nil && *ms.CabinetIntegrity == models.IntegrityCompromised {
		problems = append(problems, "cabinet integrity is compromised")
	}
	return problems, fmt.Sprintf("existing cutout is within %.2fin of the sink", tol)
}

func (m *Matcher) cutAndPolish(p *models.Product, ms *models.Measurement) ([]string, string) {
	var problems []string

	if ms.CountertopThickness != nil && *ms.CountertopThickness > m.thresholds.MaxCutCountertopThickness {
		problems = append(problems, fmt.Sprintf(
			"countertop thickness %.2fin exceeds %.2fin", *ms.CountertopThickness, m.thresholds.MaxCutCountertopThickness))
	}
	clearance := ms.CabinetWidth - p.Width
	if clearance < m.thresholds.MinCutWidthClearance {
		problems = append(problems, fmt.Sprintf(
			"width clearance %.2fin is below %.2fin", clearance, m.thresholds.MinCutWidthClearance))
	}
	return problems, "countertop can be cut and polished for the new sink"
}

func (m *Matcher) topMount(p *models.Product, ms *models.Measurement) ([]string, string) {
	var problems []string

	if !p.SupportsTopMount() {
		problems = append(problems, "sink is not rated for top mounting")
	}
	if p.Width > ms.CabinetWidth {
		problems = append(problems, fmt.Sprintf("sink width %.2fin exceeds cabinet width %.2fin", p.Width, ms.CabinetWidth))
	}
	return problems, "sink drops in from above the counter"
}

func (m *Matcher) apronFront(p *models.Product, ms *models.Measurement) ([]string, string) {
	var problems []string

	if !p.IsApronStyle() {
		problems = append(problems, "sink has no apron front")
	}
	if ms.CabinetWidth < m.thresholds.ApronFrontMinCabinetWidth {
		problems = append(problems, fmt.Sprintf(
			"cabinet width %.2fin is below %.2fin required for apron front", ms.CabinetWidth, m.thresholds.ApronFrontMinCabinetWidth))
	}
	return problems, "cabinet front can be cut for the apron"
}
