package usda

import (
	"testing"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

func TestFindDetailNutrientValue(t *testing.T) {
	nutrients := []domain.DetailFoodNutrient{
		{Nutrient: domain.NutrientDescriptor{ID: NutrientIDEnergy, Name: "Energy", UnitName: "kcal"}, Amount: 61},
		{Nutrient: domain.NutrientDescriptor{ID: NutrientIDProtein, Name: "Protein", UnitName: "g"}, Amount: 3.2},
	}

	tests := []struct {
		name       string
		nutrientID int
		wantAmount float64
		wantOK     bool
	}{
		{"finds energy", NutrientIDEnergy, 61, true},
		{"finds protein", NutrientIDProtein, 3.2, true},
		{"missing nutrient", NutrientIDTotalFat, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := FindDetailNutrientValue(nutrients, tt.nutrientID)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", amount, tt.wantAmount)
			}
		})
	}
}

func TestFindDetailNutrientValue_EmptyList(t *testing.T) {
	_, ok := FindDetailNutrientValue(nil, NutrientIDEnergy)
	if ok {
		t.Error("expected ok=false for an empty nutrient list")
	}
}
