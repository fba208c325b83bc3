package usda

import "github.com/ConferInc/usda-mapping-agent/internal/domain"

// USDA nutrient IDs for the handful of macronutrients referenced directly by
// name elsewhere in the pipeline (the full catalog-name-to-canonical-ID table
// lives in the usecase normalizer, C1).
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrates (g)
	NutrientIDTotalFat     = 1004 // Total Fat (g)
)

// FindDetailNutrientValue finds a specific nutrient's measured amount in a
// detail record's nutrient list by USDA nutrient ID, returning (0, false) if
// absent.
func FindDetailNutrientValue(nutrients []domain.DetailFoodNutrient, nutrientID int) (float64, bool) {
	for _, n := range nutrients {
		if n.Nutrient.ID == nutrientID {
			return n.Amount, true
		}
	}
	return 0, false
}

