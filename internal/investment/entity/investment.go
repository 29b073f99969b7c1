package entity

import "time"

// Investment is one owner-scoped record in the `investments` table.
type Investment struct {
	ID              string    `db:"id" json:"id"`
	OwnerID         string    `db:"owner_id" json:"ownerId"`
	ProjectName     string    `db:"project_name" json:"projectName"`
	AmountInvested  float64   `db:"amount_invested" json:"amountInvested"`
	EnergyGenerated float64   `db:"energy_generated" json:"energyGenerated"`
	Returns         float64   `db:"returns" json:"returns"`
	Date            time.Time `db:"date" json:"date"`
}

// Patch lists the fields an owner may change. Nil fields are left as is;
// ID and OwnerID are never updatable.
type Patch struct {
	ProjectName     *string    `json:"projectName"`
	AmountInvested  *float64   `json:"amountInvested"`
	EnergyGenerated *float64   `json:"energyGenerated"`
	Returns         *float64   `json:"returns"`
	Date            *time.Time `json:"date"`
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.ProjectName == nil && p.AmountInvested == nil && p.EnergyGenerated == nil &&
		p.Returns == nil && p.Date == nil
}
