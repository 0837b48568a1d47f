// Package matching decides which sinks can be installed in a measured cabinet
// and how well they fit. Everything here is pure: no storage, no clocks.
package matching

import (
	"sink_quoter/internal/models"

	"github.com/shopspring/decimal"
)

type InstallMethod string

const (
	BowlSwap     InstallMethod = "bowl_swap"
	CutAndPolish InstallMethod = "cut_and_polish"
	TopMount     InstallMethod = "top_mount"
	ApronFront   InstallMethod = "apron_front"
)

// AllInstallMethods is evaluated in this order for every candidate.
var AllInstallMethods = []InstallMethod{BowlSwap, CutAndPolish, TopMount, ApronFront}

type InstallMethodResult struct {
	Method   InstallMethod `json:"method"`
	Feasible bool          `json:"feasible"`
	Reason   string        `json:"reason"`
}

type InstallMethodEvaluation struct {
	Feasible   []InstallMethodResult `json:"feasible"`
	Eliminated []InstallMethodResult `json:"eliminated"`
}

type FitRating string

const (
	FitExcellent FitRating = "excellent"
	FitGood      FitRating = "good"
	FitMarginal  FitRating = "marginal"
	FitNoGo      FitRating = "no_go"
)

type AddOnService struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Reason string          `json:"reason"`
}

// Clearances are cabinet minus product, signed.
type Clearances struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

type MatchResult struct {
	Product           *models.Product       `json:"product"`
	OverallScore      int                   `json:"overall_score"`
	FitRating         FitRating             `json:"fit_rating"`
	FeasibleMethods   []InstallMethodResult `json:"feasible_methods"`
	EliminatedMethods []InstallMethodResult `json:"eliminated_methods"`
	HardGateFailures  []string              `json:"hard_gate_failures"`
	Warnings          []string              `json:"warnings"`
	AddOns            []AddOnService        `json:"add_ons"`
	Clearances        Clearances            `json:"clearances"`
}

// Preferences are optional buyer wishes; nil means "no preference".
type Preferences struct {
	BowlConfiguration *models.BowlConfiguration `json:"bowl_configuration"`
	Color             *string                   `json:"color"`
	Workstation       *bool                     `json:"workstation"`
	MaxPrice          *decimal.Decimal          `json:"max_price"`
	InstallationType  *models.InstallationType  `json:"installation_type"`
}

// Thresholds are the physical limits used by the gates and install methods.
// CastIronMinCabinetWidth and ApronFrontMinCabinetWidth share a default but
// are tuned independently.
type Thresholds struct {
	CastIronMinCabinetWidth   float64
	ApronFrontMinCabinetWidth float64
	CutoutTolerance           float64
	MaxCutCountertopThickness float64
	MinCutWidthClearance      float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		CastIronMinCabinetWidth:   30,
		ApronFrontMinCabinetWidth: 30,
		CutoutTolerance:           1,
		MaxCutCountertopThickness: 2.25,
		MinCutWidthClearance:      2,
	}
}

// AddOnPricing holds the list prices for suggested add-on services.
type AddOnPricing struct {
	CastIronRemoval      decimal.Decimal
	CabinetReinforcement decimal.Decimal
	FloorReplacement     decimal.Decimal
}

func DefaultAddOnPricing() AddOnPricing {
	return AddOnPricing{
		CastIronRemoval:      decimal.NewFromInt(150),
		CabinetReinforcement: decimal.NewFromInt(125),
		FloorReplacement:     decimal.NewFromInt(350),
	}
}

const (
	AddOnCastIronRemoval      = "cast_iron_removal"
	AddOnCabinetReinforcement = "cabinet_reinforcement"
	AddOnFloorReplacement     = "cabinet_floor_replacement"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50

	// CandidateMargin widens the candidate query past the cabinet so that
	// oversized sinks still come back as no_go instead of disappearing.
	CandidateMargin = 12.0
)

// NormalizeLimit clamps a requested result count to [1, MaxLimit].
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// WithinCandidateBounds mirrors the repository's candidate query.
func WithinCandidateBounds(p *models.Product, m *models.Measurement) bool {
	return p.IsActive &&
		p.Width <= m.CabinetWidth+CandidateMargin &&
		p.Depth <= m.CabinetDepth+CandidateMargin
}
