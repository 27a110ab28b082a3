// Package resources holds the farm-data records the API serves once the
// key guard has admitted a caller. These are plain CRUD passthroughs;
// every row is scoped to the owning account's email.
package resources

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Farm is a managed growing site
type Farm struct {
	bun.BaseModel `bun:"table:farms,alias:frm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerEmail    string     `bun:"owner_email,notnull" json:"owner_email,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Location      string     `bun:"location" json:"location,omitempty"`
	AreaHectares  float64    `bun:"area_hectares" json:"area_hectares,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Crop is a cultivated plant variety on a farm
type Crop struct {
	bun.BaseModel `bun:"table:crops,alias:crp"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerEmail    string     `bun:"owner_email,notnull" json:"owner_email,omitempty"`
	FarmID        *uuid.UUID `bun:"farm_id" json:"farm_id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Variety       string     `bun:"variety" json:"variety,omitempty"`
	PlantedAt     *time.Time `bun:"planted_at,nullzero" json:"planted_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Pest is an observed pest or disease affecting a crop
type Pest struct {
	bun.BaseModel `bun:"table:pests,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerEmail    string     `bun:"owner_email,notnull" json:"owner_email,omitempty"`
	CropID        *uuid.UUID `bun:"crop_id" json:"crop_id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Severity      string     `bun:"severity" json:"severity,omitempty"`
	ObservedAt    *time.Time `bun:"observed_at,nullzero" json:"observed_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Record is a free-form field log entry
type Record struct {
	bun.BaseModel `bun:"table:records,alias:rec"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerEmail    string     `bun:"owner_email,notnull" json:"owner_email,omitempty"`
	FarmID        *uuid.UUID `bun:"farm_id" json:"farm_id,omitempty"`
	Kind          string     `bun:"kind" json:"kind,omitempty"`
	Body          string     `bun:"body" json:"body,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Comment is a remark attached to a record
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerEmail    string     `bun:"owner_email,notnull" json:"owner_email,omitempty"`
	RecordID      *uuid.UUID `bun:"record_id" json:"record_id,omitempty"`
	Body          string     `bun:"body,notnull" json:"body,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
