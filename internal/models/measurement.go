package models

import (
	"time"

	"gorm.io/gorm"
)

// Measurement describes the cabinet and countertop at an install site.
// All lengths are inches.
type Measurement struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	CompanyID  uint `json:"company_id" gorm:"not null;index"`
	CustomerID uint `json:"customer_id" gorm:"not null;index"`

	CabinetWidth  float64 `json:"cabinet_width" gorm:"type:decimal(6,2);not null"`
	CabinetDepth  float64 `json:"cabinet_depth" gorm:"type:decimal(6,2);not null"`
	CabinetHeight float64 `json:"cabinet_height" gorm:"type:decimal(6,2);not null"`

	CountertopMaterial  *string  `json:"countertop_material"`
	CountertopThickness *float64 `json:"countertop_thickness" gorm:"type:decimal(6,2)"`
	OverhangFront       *float64 `json:"overhang_front" gorm:"type:decimal(6,2)"`
	OverhangSides       *float64 `json:"overhang_sides" gorm:"type:decimal(6,2)"`

	MountingStylePreference *MountingStyle `json:"mounting_style_preference"`

	ExistingSinkWidth     *float64 `json:"existing_sink_width" gorm:"type:decimal(6,2)"`
	ExistingSinkDepth     *float64 `json:"existing_sink_depth" gorm:"type:decimal(6,2)"`
	ExistingSinkBowlCount *int     `json:"existing_sink_bowl_count"`
	ExistingSinkMaterial  *string  `json:"existing_sink_material"`

	CabinetIntegrity *CabinetIntegrity `json:"cabinet_integrity"`
	HasROSystem      bool              `json:"has_ro_system" gorm:"default:false"`

	ExistingCutoutWidth *float64 `json:"existing_cutout_width" gorm:"type:decimal(6,2)"`
	ExistingCutoutDepth *float64 `json:"existing_cutout_depth" gorm:"type:decimal(6,2)"`

	Notes     string         `json:"notes" gorm:"type:text"`
	CreatedBy uint           `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type CabinetIntegrity string

const (
	IntegrityGood         CabinetIntegrity = "good"
	IntegrityQuestionable CabinetIntegrity = "questionable"
	IntegrityCompromised  CabinetIntegrity = "compromised"
)

// SinkMaterialCastIron is the existing-sink material that triggers removal handling.
const SinkMaterialCastIron = "cast_iron"
