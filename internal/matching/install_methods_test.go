package matching

import (
	"testing"

	"sink_quoter/internal/models"
)

func methodByName(eval InstallMethodEvaluation, method InstallMethod) (InstallMethodResult, bool) {
	for _, r := range eval.Feasible {
		if r.Method == method {
			return r, true
		}
	}
	for _, r := range eval.Eliminated {
		if r.Method == method {
			return r, false
		}
	}
	return InstallMethodResult{}, false
}

func TestBowlSwap(t *testing.T) {
	cases := []struct {
		name      string
		cutoutW   *float64
		cutoutD   *float64
		integrity *models.CabinetIntegrity
		want      bool
	}{
		{"no cutout", nil, nil, nil, false},
		{"exact cutout", fptr(30), fptr(20), nil, true},
		{"within tolerance", fptr(31), fptr(19), nil, true},
		{"width off by more than an inch", fptr(31.5), fptr(20), nil, false},
		{"depth off by more than an inch", fptr(30), fptr(21.25), nil, false},
		{"compromised cabinet", fptr(30), fptr(20), integrityPtr(models.IntegrityCompromised), false},
		{"questionable cabinet still ok", fptr(30), fptr(20), integrityPtr(models.IntegrityQuestionable), true},
	}
	for _, tc := range cases {
		ms := baseMeasurement()
		ms.ExistingCutoutWidth = tc.cutoutW
		ms.ExistingCutoutDepth = tc.cutoutD
		ms.CabinetIntegrity = tc.integrity
		res, ok := methodByName(newMatcher().EvaluateInstallMethods(baseProduct(), ms), BowlSwap)
		if ok != tc.want {
			t.Fatalf("%s: expected feasible=%v, got %v (%s)", tc.name, tc.want, ok, res.Reason)
		}
		if res.Reason == "" {
			t.Fatalf("%s: expected a reason", tc.name)
		}
	}
}

func TestCutAndPolish(t *testing.T) {
	cases := []struct {
		name      string
		cabinet   float64
		thickness *float64
		want      bool
	}{
		{"thin counter wide cabinet", 36, fptr(1.25), true},
		{"unknown thickness", 36, nil, true},
		{"thickness at limit", 36, fptr(2.25), true},
		{"thick counter", 36, fptr(2.5), false},
		{"clearance exactly two", 32, nil, true},
		{"clearance below two", 31.5, nil, false},
	}
	for _, tc := range cases {
		ms := baseMeasurement()
		ms.CabinetWidth = tc.cabinet
		ms.CountertopThickness = tc.thickness
		_, ok := methodByName(newMatcher().EvaluateInstallMethods(baseProduct(), ms), CutAndPolish)
		if ok != tc.want {
			t.Fatalf("%s: expected feasible=%v", tc.name, tc.want)
		}
	}
}

func TestTopMount(t *testing.T) {
	p := baseProduct()
	ms := baseMeasurement()
	if _, ok := methodByName(newMatcher().EvaluateInstallMethods(p, ms), TopMount); ok {
		t.Fatalf("undermount-only sink should not top mount")
	}
	p.MountingStyle = models.MountDropIn
	if _, ok := methodByName(newMatcher().EvaluateInstallMethods(p, ms), TopMount); !ok {
		t.Fatalf("drop-in sink should top mount")
	}
	p.Width = 37
	if _, ok := methodByName(newMatcher().EvaluateInstallMethods(p, ms), TopMount); ok {
		t.Fatalf("oversized sink should not top mount")
	}
}

func TestApronFrontUsesItsOwnThreshold(t *testing.T) {
	p := baseProduct()
	p.MountingStyle = models.MountFarmhouse
	p.Width = 27
	ms := baseMeasurement()
	ms.CabinetWidth = 30

	if _, ok := methodByName(newMatcher().EvaluateInstallMethods(p, ms), ApronFront); !ok {
		t.Fatalf("30in cabinet should allow apron front")
	}

	th := DefaultThresholds()
	th.ApronFrontMinCabinetWidth = 33
	strict := NewMatcher(th, DefaultAddOnPricing())
	if _, ok := methodByName(strict.EvaluateInstallMethods(p, ms), ApronFront); ok {
		t.Fatalf("raised apron threshold should eliminate apron front")
	}
	if th.CastIronMinCabinetWidth != 30 {
		t.Fatalf("cast iron threshold must not follow the apron threshold")
	}
}

func TestEvaluateInstallMethodsCoversEveryMethod(t *testing.T) {
	eval := newMatcher().EvaluateInstallMethods(baseProduct(), baseMeasurement())
	seen := map[InstallMethod]bool{}
	for _, r := range append(eval.Feasible, eval.Eliminated...) {
		seen[r.Method] = true
	}
	for _, m := range AllInstallMethods {
		if !seen[m] {
			t.Fatalf("method %s missing from evaluation", m)
		}
	}
}
