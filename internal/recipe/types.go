// Package recipe defines the extracted recipe document model, the canonical
// schema that describes it, and the normalization rules that guarantee every
// document leaving the pipeline satisfies the schema's invariants.
package recipe

// ComponentType classifies a preparation unit of a recipe.
type ComponentType string

const (
	ComponentProtein   ComponentType = "protein"
	ComponentStarch    ComponentType = "starch"
	ComponentVegetable ComponentType = "vegetable"
	ComponentSauce     ComponentType = "sauce"
)

// DefaultComponentType is applied when the source data carries a missing or
// unrecognized category. Protein is a conservative default inherited from the
// original extraction behavior, not a semantic judgement.
const DefaultComponentType = ComponentProtein

// ComponentTypes lists the closed set of valid component categories.
var ComponentTypes = []ComponentType{
	ComponentProtein,
	ComponentStarch,
	ComponentVegetable,
	ComponentSauce,
}

// Valid reports whether t is one of the four recognized categories.
func (t ComponentType) Valid() bool {
	switch t {
	case ComponentProtein, ComponentStarch, ComponentVegetable, ComponentSauce:
		return true
	}
	return false
}

// UnknownRecipeName is substituted when the source text yields no name.
const UnknownRecipeName = "Unknown Recipe"

// Document is the root of an extracted recipe. Every field is always present
// in the serialized form; absence in the source is represented by a
// type-appropriate default, never null.
type Document struct {
	RecipeName string      `json:"recipe_name"`
	Chef       string      `json:"chef"`
	YieldCount float64     `json:"yield_count"`
	Allergens  []string    `json:"allergens"`
	Components []Component `json:"components"`
}

// Component is one preparation unit of the recipe.
type Component struct {
	Name               string        `json:"name"`
	Type               ComponentType `json:"type"`
	PrepTimeMinutes    int           `json:"prep_time_minutes"`
	CookTimeMinutes    int           `json:"cook_time_minutes"`
	CookTempFahrenheit int           `json:"cook_temp_fahrenheit"` // 0 doubles as "not specified"
	CookMethod         string        `json:"cook_method"`
	PortionWeightGrams float64       `json:"portion_weight_grams"`
	Ingredients        []Ingredient  `json:"ingredients"`
}

// Ingredient is a node in a two-level ownership tree. SubIngredients is
// serialized only when it has at least one entry; a mixture with zero
// constituents is indistinguishable from a plain ingredient.
type Ingredient struct {
	Name                  string          `json:"name"`
	AmountPerPortionGrams float64         `json:"amount_per_portion_grams"`
	SubIngredients        []SubIngredient `json:"sub_ingredients,omitempty"`
}

// SubIngredient is a leaf constituent of a mixture ingredient. Nesting depth
// is fixed at two levels; a SubIngredient cannot itself be a mixture.
type SubIngredient struct {
	Name                  string  `json:"name"`
	AmountPerPortionGrams float64 `json:"amount_per_portion_grams"`
}
