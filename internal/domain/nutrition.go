package domain

// DataType is one of the USDA FoodData Central catalog partitions, in
// decreasing order of generic-ness and nutrient completeness.
type DataType string

const (
	DataTypeFoundation DataType = "Foundation"
	DataTypeSRLegacy   DataType = "SR Legacy"
	DataTypeSurveyFNDDS DataType = "Survey (FNDDS)"
	DataTypeBranded    DataType = "Branded"
	DataTypeOther      DataType = "Other"
)

// SearchFoodItem is one row of the USDA /foods/search response.
type SearchFoodItem struct {
	FdcID          int                  `json:"fdcId"`
	Description    string               `json:"description"`
	DataType       string               `json:"dataType"`
	FoodCategory   string               `json:"foodCategory,omitempty"`
	BrandOwner     string               `json:"brandOwner,omitempty"`
	FoodNutrients  []SearchFoodNutrient `json:"foodNutrients,omitempty"`
}

// SearchFoodNutrient is the flattened nutrient shape embedded in search
// results (as opposed to the nested shape used by detail records).
type SearchFoodNutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// USDASearchResponse is the raw /foods/search response body.
type USDASearchResponse struct {
	Foods       []SearchFoodItem `json:"foods"`
	TotalHits   int              `json:"totalHits"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
}

// FoodDetail is the raw /food/{fdcId} response body. Its foodNutrients
// members nest the nutrient descriptor separately from the measured amount,
// unlike the flattened shape returned by search.
type FoodDetail struct {
	FdcID         int                  `json:"fdcId"`
	Description   string               `json:"description"`
	DataType      string               `json:"dataType"`
	FoodCategory  string               `json:"foodCategory,omitempty"`
	BrandOwner    string               `json:"brandOwner,omitempty"`
	FoodNutrients []DetailFoodNutrient `json:"foodNutrients,omitempty"`
}

// DetailFoodNutrient is one entry of a detail record's foodNutrients array.
type DetailFoodNutrient struct {
	Nutrient NutrientDescriptor `json:"nutrient"`
	Amount   float64            `json:"amount"`
}

// NutrientDescriptor identifies a nutrient by USDA's own naming, independent
// of the canonical nutrient ID scheme this system normalizes to.
type NutrientDescriptor struct {
	ID       int    `json:"id"`
	Number   string `json:"number,omitempty"`
	Name     string `json:"name"`
	UnitName string `json:"unitName"`
}
