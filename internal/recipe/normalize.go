package recipe

// Normalization repairs schema deviations deterministically instead of
// rejecting them. It is total over any parsed JSON object: missing or
// null scalars become type-appropriate defaults, negative numbers are
// clamped to zero, unrecognized component categories fall back to the
// default, and empty sub_ingredients collections are pruned so the key
// is absent rather than empty. The only hard failure boundary in the
// pipeline is JSON parsing itself (see parse.go).

// Normalize builds a Document from an arbitrary parsed JSON object. It never
// fails and never produces a document that violates the schema invariants.
func Normalize(raw map[string]any) *Document {
	name := stringField(raw, "recipe_name")
	if name == "" {
		name = UnknownRecipeName
	}

	return &Document{
		RecipeName: name,
		Chef:       stringField(raw, "chef"),
		YieldCount: numberField(raw, "yield_count"),
		Allergens:  stringSliceField(raw, "allergens"),
		Components: normalizeComponents(raw["components"]),
	}
}

func normalizeComponents(v any) []Component {
	items, _ := v.([]any)
	components := make([]Component, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		components = append(components, normalizeComponent(m))
	}
	return components
}

func normalizeComponent(m map[string]any) Component {
	return Component{
		Name:               stringField(m, "name"),
		Type:               componentTypeField(m, "type"),
		PrepTimeMinutes:    intField(m, "prep_time_minutes"),
		CookTimeMinutes:    intField(m, "cook_time_minutes"),
		CookTempFahrenheit: intField(m, "cook_temp_fahrenheit"),
		CookMethod:         stringField(m, "cook_method"),
		PortionWeightGrams: numberField(m, "portion_weight_grams"),
		Ingredients:        normalizeIngredients(m["ingredients"]),
	}
}

func normalizeIngredients(v any) []Ingredient {
	items, _ := v.([]any)
	ingredients := make([]Ingredient, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ingredients = append(ingredients, normalizeIngredient(m))
	}
	return ingredients
}

// normalizeIngredient keeps sub_ingredients only when the source holds at
// least one usable entry. A present-but-empty collection is pruned by
// leaving the slice nil, which drops the key from the serialized form.
func normalizeIngredient(m map[string]any) Ingredient {
	ing := Ingredient{
		Name:                  stringField(m, "name"),
		AmountPerPortionGrams: numberField(m, "amount_per_portion_grams"),
	}

	subs, _ := m["sub_ingredients"].([]any)
	for _, item := range subs {
		sm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ing.SubIngredients = append(ing.SubIngredients, SubIngredient{
			Name:                  stringField(sm, "name"),
			AmountPerPortionGrams: numberField(sm, "amount_per_portion_grams"),
		})
	}
	return ing
}

// stringField returns the value at key if it is a string, else "".
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// numberField returns the value at key clamped to >= 0, or 0 when the value
// is missing, null or not numeric.
func numberField(m map[string]any, key string) float64 {
	f, ok := m[key].(float64)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// intField truncates a numeric value to an integer, clamped to >= 0.
func intField(m map[string]any, key string) int {
	return int(numberField(m, key))
}

func stringSliceField(m map[string]any, key string) []string {
	items, _ := m[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func componentTypeField(m map[string]any, key string) ComponentType {
	t := ComponentType(stringField(m, key))
	if !t.Valid() {
		return DefaultComponentType
	}
	return t
}
