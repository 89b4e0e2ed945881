package domain

import "strings"

// Ingredient is one consumable recorded for a meal category. QuantityPerPerson
// is a unit-less magnitude; Unit and Category are free text.
type Ingredient struct {
	ID                int64   `gorm:"primaryKey;autoIncrement" json:"id" form:"id"`
	Name              string  `gorm:"not null" json:"name" form:"name"`
	QuantityPerPerson float64 `gorm:"not null" json:"quantity_per_person" form:"quantity_per_person"`
	Unit              string  `gorm:"not null" json:"unit" form:"unit"`
	Category          string  `gorm:"not null;index" json:"category" form:"category"`
}

// TableName Specify table name
func (Ingredient) TableName() string {
	return "ingredients"
}

// IngredientInput is the user-supplied part of an ingredient. Presence is
// the only rule: every text field non-blank, quantity given and not negative.
type IngredientInput struct {
	Name              string   `json:"name" validate:"required"`
	QuantityPerPerson *float64 `json:"quantity_per_person" validate:"required,gte=0"`
	Unit              string   `json:"unit" validate:"required"`
	Category          string   `json:"category" validate:"required"`
}

// Normalize trims surrounding whitespace from the text fields.
func (in *IngredientInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	in.Category = strings.TrimSpace(in.Category)
}

// Ingredient builds the record with the given id.
func (in IngredientInput) Ingredient(id int64) Ingredient {
	var qty float64
	if in.QuantityPerPerson != nil {
		qty = *in.QuantityPerPerson
	}
	return Ingredient{
		ID:                id,
		Name:              in.Name,
		QuantityPerPerson: qty,
		Unit:              in.Unit,
		Category:          in.Category,
	}
}
