package medicines

// BaseUnit es la unidad en que se cuenta una dosis del medicamento.
// @Enum tablet, capsule, ml, teaspoon, drop, injection_pen, sachet, pump_press, vial, pre_filled_syringe, gram, unit
type BaseUnit string

const (
	UnitTablet           BaseUnit = "tablet"
	UnitCapsule          BaseUnit = "capsule"
	UnitML               BaseUnit = "ml"
	UnitTeaspoon         BaseUnit = "teaspoon" // dosis de 5ml
	UnitDrop             BaseUnit = "drop"
	UnitInjectionPen     BaseUnit = "injection_pen"
	UnitSachet           BaseUnit = "sachet"
	UnitPumpPress        BaseUnit = "pump_press"
	UnitVial             BaseUnit = "vial"
	UnitPreFilledSyringe BaseUnit = "pre_filled_syringe"
	UnitGram             BaseUnit = "gram"
	UnitGeneric          BaseUnit = "unit"
)

var baseUnits = map[BaseUnit]struct{}{
	UnitTablet: {}, UnitCapsule: {}, UnitML: {}, UnitTeaspoon: {}, UnitDrop: {}, UnitInjectionPen: {},
	UnitSachet: {}, UnitPumpPress: {}, UnitVial: {}, UnitPreFilledSyringe: {}, UnitGram: {}, UnitGeneric: {},
}

func (u BaseUnit) Valid() bool {
	_, ok := baseUnits[u]
	return ok
}

// IngredientUnit es la unidad de masa/actividad del principio activo.
// @Enum mg, g, µg, IU, unit
type IngredientUnit string

const (
	IngredientMG      IngredientUnit = "mg"
	IngredientG       IngredientUnit = "g"
	IngredientMCG     IngredientUnit = "µg"
	IngredientIU      IngredientUnit = "IU"
	IngredientGeneric IngredientUnit = "unit"
)

func (u IngredientUnit) Valid() bool {
	switch u {
	case IngredientMG, IngredientG, IngredientMCG, IngredientIU, IngredientGeneric:
		return true
	}
	return false
}

// ActiveIngredient: cantidad por unidad base (p.ej. 200mg por comprimido).
type ActiveIngredient struct {
	Name   string         `json:"name"`
	Amount float64        `json:"amount"`
	Unit   IngredientUnit `json:"unit"`
}

// Medicine es una entrada del catálogo. Se persiste con active_ingredients como JSON.
type Medicine struct {
	ID                string
	Name              string
	BaseUnit          BaseUnit
	ActiveIngredients []ActiveIngredient
}
