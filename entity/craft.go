package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Craft is the wire and file shape of a catalog item.
type Craft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Supplies    []string `json:"supplies"`
}

// Clone returns a copy that shares no slice memory with c.
func (c Craft) Clone() Craft {
	c.Supplies = append([]string{}, c.Supplies...)
	return c
}

// CraftDocument is one row of the document-collection backend. ID only
// fixes insertion order; lookups are always by Name.
type CraftDocument struct {
	ID          uint                        `json:"-" gorm:"primaryKey;autoIncrement"`
	Name        string                      `json:"name" gorm:"type:varchar(255);not null;index"`
	Description string                      `json:"description" gorm:"type:text;not null"`
	Image       string                      `json:"image" gorm:"type:varchar(1024);not null"`
	Supplies    datatypes.JSONSlice[string] `json:"supplies" gorm:"not null"`
	CreatedAt   time.Time                   `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CraftDocument) TableName() string {
	return "crafts"
}

func NewCraftDocument(craft Craft) *CraftDocument {
	return &CraftDocument{
		Name:        craft.Name,
		Description: craft.Description,
		Image:       craft.Image,
		Supplies:    datatypes.NewJSONSlice(append([]string{}, craft.Supplies...)),
	}
}

func (d *CraftDocument) ToCraft() Craft {
	supplies := make([]string, 0, len(d.Supplies))
	supplies = append(supplies, d.Supplies...)
	return Craft{
		Name:        d.Name,
		Description: d.Description,
		Image:       d.Image,
		Supplies:    supplies,
	}
}
