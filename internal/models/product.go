package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sink in a company's catalog. Dimensions are inches.
type Product struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID uint   `json:"company_id" gorm:"not null;uniqueIndex:idx_product_company_sku"`
	SKU       string `json:"sku" gorm:"not null;uniqueIndex:idx_product_company_sku"`
	Name      string `json:"name" gorm:"not null"`
	Brand     string `json:"brand"`
	Material  string `json:"material"`
	Color     string `json:"color"`

	Width  float64 `json:"width" gorm:"type:decimal(6,2);not null"`
	Depth  float64 `json:"depth" gorm:"type:decimal(6,2);not null"`
	Height float64 `json:"height" gorm:"type:decimal(6,2);not null"`

	MountingStyle     MountingStyle     `json:"mounting_style" gorm:"not null"`
	TopMountCapable   bool              `json:"top_mount_capable" gorm:"default:false"`
	BowlCount         int               `json:"bowl_count" gorm:"not null;default:1"`
	BowlConfiguration BowlConfiguration `json:"bowl_configuration"`
	InstallationType  InstallationType  `json:"installation_type" gorm:"default:'universal'"`
	IsWorkstation     bool              `json:"is_workstation" gorm:"default:false"`

	MinCabinetWidth      *float64 `json:"min_cabinet_width" gorm:"type:decimal(6,2)"`
	FieldMinCabinetWidth *float64 `json:"field_min_cabinet_width" gorm:"type:decimal(6,2)"`
	ApronDepth           *float64 `json:"apron_depth" gorm:"type:decimal(6,2)"`

	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	LaborCost decimal.Decimal `json:"labor_cost" gorm:"type:decimal(12,2);not null;default:0"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type MountingStyle string

const (
	MountUndermount MountingStyle = "undermount"
	MountDropIn     MountingStyle = "drop_in"
	MountFlush      MountingStyle = "flush_mount"
	MountFarmhouse  MountingStyle = "farmhouse"
)

// Valid reports whether s is one of the known mounting styles.
func (s MountingStyle) Valid() bool {
	switch s {
	case MountUndermount, MountDropIn, MountFlush, MountFarmhouse:
		return true
	}
	return false
}

type BowlConfiguration string

const (
	BowlSingle     BowlConfiguration = "single"
	BowlDouble5050 BowlConfiguration = "double_50_50"
	BowlDouble6040 BowlConfiguration = "double_60_40"
	BowlDouble7030 BowlConfiguration = "double_70_30"
	BowlTriple     BowlConfiguration = "triple"
)

type InstallationType string

const (
	InstallRetrofit        InstallationType = "retrofit"
	InstallNewConstruction InstallationType = "new_construction"
	InstallUniversal       InstallationType = "universal"
)

// SupportsTopMount reports whether the sink can be set on top of the counter.
func (p *Product) SupportsTopMount() bool {
	return p.TopMountCapable || p.MountingStyle == MountDropIn
}

// IsApronStyle reports whether the sink has an exposed apron front.
func (p *Product) IsApronStyle() bool {
	return p.MountingStyle == MountFarmhouse || p.ApronDepth != nil
}

// EffectiveMinCabinetWidth prefers the field-tested minimum over the
// manufacturer's stated one.
func (p *Product) EffectiveMinCabinetWidth() (float64, bool) {
	if p.FieldMinCabinetWidth != nil {
		return *p.FieldMinCabinetWidth, true
	}
	if p.MinCabinetWidth != nil {
		return *p.MinCabinetWidth, true
	}
	return 0, false
}
