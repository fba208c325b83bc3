package usecase

import (
	"strings"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"github.com/ConferInc/usda-mapping-agent/internal/infrastructure/usda"
)

// macroIDToCanonical maps the handful of USDA nutrient IDs the catalog client
// already tracks by number (see internal/infrastructure/usda.NutrientID*) to
// their canonical ID. Looking these up by ID first, ahead of the name table,
// sidesteps the name-string drift USDA's own catalog shows across
// Foundation/SR Legacy/Branded records for the same macronutrient.
var macroIDToCanonical = map[int]string{
	usda.NutrientIDEnergy:       "nutrient-calories-energy",
	usda.NutrientIDProtein:      "nutrient-protein",
	usda.NutrientIDCarbohydrate: "nutrient-total-carbohydrates",
	usda.NutrientIDTotalFat:     "nutrient-total-fat",
}

// nutrientEntry pairs a canonical nutrient ID with the unit that nutrient
// ships in. Built-in since no external nutrition_definitions CSV ships
// with this module; this is the runnable-standalone table described in
// SPEC_FULL.md §3.
type nutrientEntry struct {
	id   string
	unit string
}

// catalogNutrientNames maps an exact USDA catalog nutrient name to its
// canonical nutrient ID and native unit. Reproduced from the reference
// nutrient_mapper implementation's USDA_NUTRIENT_MAPPINGS table.
var catalogNutrientNames = map[string]nutrientEntry{
	"Energy":                                {"nutrient-calories-energy", "kcal"},
	"Energy (Atwater General Factors)":      {"nutrient-calories-energy", "kcal"},
	"Energy (Atwater Specific Factors)":     {"nutrient-calories-energy", "kcal"},
	"Protein":                               {"nutrient-protein", "g"},
	"Total lipid (fat)":                     {"nutrient-total-fat", "g"},
	"Carbohydrate, by difference":           {"nutrient-total-carbohydrates", "g"},
	"Fiber, total dietary":                  {"nutrient-dietary-fiber", "g"},
	"Sugars, total including NLEA":          {"nutrient-total-sugars", "g"},
	"Sugars, added":                         {"nutrient-total-sugars", "g"},
	"Water":                                 {"nutrient-water", "g"},

	"Fatty acids, total saturated":          {"nutrient-saturated-fat", "g"},
	"Fatty acids, total trans":              {"nutrient-trans-fat", "g"},
	"Fatty acids, total monounsaturated":    {"nutrient-monounsaturated-fat", "g"},
	"Fatty acids, total polyunsaturated":    {"nutrient-polyunsaturated-fat", "g"},
	"Cholesterol":                           {"nutrient-cholesterol", "mg"},

	"Alcohol, ethyl": {"nutrient-alcohol", "g"},
	"Caffeine":       {"nutrient-caffeine", "mg"},
	"Theobromine":    {"nutrient-theobromine", "mg"},
	"Ash":            {"nutrient-ash", "g"},

	"Vitamin A, RAE":                {"nutrient-vitamin-a-rae", "µg"},
	"Retinol":                       {"nutrient-retinol", "µg"},
	"Vitamin D (D2 + D3)":           {"nutrient-vitamin-d", "µg"},
	"Vitamin E (alpha-tocopherol)":  {"nutrient-vitamin-e-alpha-tocopherol", "mg"},
	"Vitamin K (phylloquinone)":     {"nutrient-vitamin-k-phylloquinone", "µg"},

	"Thiamin":               {"nutrient-thiamin-b1", "mg"},
	"Riboflavin":             {"nutrient-riboflavin-b2", "mg"},
	"Niacin":                 {"nutrient-niacin-b3", "mg"},
	"Pantothenic acid":       {"nutrient-vitamin-b5-pantothenic-acid", "mg"},
	"Vitamin B-6":            {"nutrient-vitamin-b6", "mg"},
	"Folate, total":          {"nutrient-folate-folic-acid", "µg"},
	"Folic acid":             {"nutrient-folate-folic-acid", "µg"},
	"Vitamin B-12":           {"nutrient-vitamin-b12", "µg"},
	"Choline, total":         {"nutrient-choline", "mg"},

	"Vitamin C, total ascorbic acid": {"nutrient-vitamin-c-ascorbic-acid", "mg"},

	"Calcium, Ca":    {"nutrient-calcium", "mg"},
	"Magnesium, Mg":  {"nutrient-magnesium", "mg"},
	"Phosphorus, P":  {"nutrient-phosphorus", "mg"},
	"Potassium, K":   {"nutrient-potassium", "mg"},
	"Sodium, Na":     {"nutrient-sodium", "mg"},

	"Iron, Fe":      {"nutrient-iron", "mg"},
	"Zinc, Zn":      {"nutrient-zinc", "mg"},
	"Copper, Cu":    {"nutrient-copper", "mg"},
	"Selenium, Se":  {"nutrient-selenium", "µg"},
	"Manganese, Mn": {"nutrient-manganese", "mg"},
	"Fluoride, F":   {"nutrient-fluoride", "µg"},

	"Beta-carotene":        {"nutrient-beta-carotene", "µg"},
	"Alpha-carotene":       {"nutrient-alpha-carotene", "µg"},
	"Cryptoxanthin, beta":  {"nutrient-cryptoxanthin", "µg"},
	"Lycopene":             {"nutrient-lycopene", "µg"},
	"Lutein + zeaxanthin":  {"nutrient-lutein-zeaxanthin", "µg"},

	"4:0":  {"nutrient-sfa-4-0-butyric", "g"},
	"6:0":  {"nutrient-sfa-6-0-caproic", "g"},
	"8:0":  {"nutrient-sfa-8-0-caprylic", "g"},
	"10:0": {"nutrient-sfa-10-0-capric", "g"},
	"12:0": {"nutrient-sfa-12-0-lauric", "g"},
	"14:0": {"nutrient-sfa-14-0-myristic", "g"},
	"16:0": {"nutrient-sfa-16-0-palmitic", "g"},
	"18:0": {"nutrient-sfa-18-0-stearic", "g"},

	"16:1": {"nutrient-mufa-16-1-palmitoleic", "g"},
	"18:1": {"nutrient-mufa-18-1-oleic", "g"},
	"20:1": {"nutrient-mufa-20-1", "g"},
	"22:1": {"nutrient-mufa-22-1", "g"},

	"18:2 n-6 c,c":           {"nutrient-pufa-18-2-linoleic", "g"},
	"18:3 n-3 c,c,c (ALA)":   {"nutrient-pufa-18-3-alpha-linolenic", "g"},
	"18:4":                   {"nutrient-pufa-18-4", "g"},
	"20:4 n-6":                {"nutrient-pufa-20-4-arachidonic", "g"},
	"20:5 n-3 (EPA)":          {"nutrient-pufa-20-5-epa", "g"},
	"22:5 n-3 (DPA)":          {"nutrient-pufa-22-5-dpa", "g"},
	"22:6 n-3 (DHA)":          {"nutrient-pufa-22-6-dha", "g"},

	"Tryptophan":    {"nutrient-tryptophan", "g"},
	"Threonine":     {"nutrient-threonine", "g"},
	"Isoleucine":    {"nutrient-isoleucine", "g"},
	"Leucine":       {"nutrient-leucine", "g"},
	"Lysine":        {"nutrient-lysine", "g"},
	"Methionine":    {"nutrient-methionine", "g"},
	"Phenylalanine": {"nutrient-phenylalanine", "g"},
	"Valine":        {"nutrient-valine", "g"},

	"Arginine":  {"nutrient-arginine", "g"},
	"Histidine": {"nutrient-histidine", "g"},
	"Cystine":   {"nutrient-cystine", "g"},
	"Tyrosine":  {"nutrient-tyrosine", "g"},

	"Alanine":        {"nutrient-alanine", "g"},
	"Aspartic acid":  {"nutrient-aspartic-acid", "g"},
	"Glutamic acid":  {"nutrient-glutamic-acid", "g"},
	"Glycine":        {"nutrient-glycine", "g"},
	"Proline":        {"nutrient-proline", "g"},
	"Serine":         {"nutrient-serine", "g"},
}

// canonicalNutrientIDs is the fixed, ordered set of every ID a Result Record
// carries as a key (nil when the catalog never reported it). This is
// deliberately NOT derived from catalogNutrientNames: the reference
// implementation keeps two distinct tables — USDA_NUTRIENT_MAPPINGS (the
// name-resolution table, reproduced above) and a separate, larger ID
// universe loaded from nutrition_definitions_117.csv that
// extract_all_nutrients() uses to seed its result dict before any name
// matching happens. That CSV does not ship with this module, so its ~117 IDs
// are hardcoded here instead of loaded; every ID resolvable by name above is
// included, plus the remaining FDC nutrient IDs no catalog name in this
// module's table currently maps to (individual sugars, additional fatty
// acid chain lengths, tocopherol/tocotrienol isomers, and the ultra-trace
// minerals), kept as permanently-nil slots until resolve() grows to cover
// them.
var canonicalNutrientIDs = []string{
	// Core energy & macros
	"nutrient-calories-energy", "nutrient-protein", "nutrient-total-fat",
	"nutrient-total-carbohydrates", "nutrient-dietary-fiber",
	"nutrient-total-sugars", "nutrient-water",

	// Individual sugars (no USDA name in this module's table maps to these
	// yet; FDC reports them under separate nutrient IDs from the aggregate
	// "Sugars, total including NLEA")
	"nutrient-sucrose", "nutrient-glucose", "nutrient-fructose",
	"nutrient-lactose", "nutrient-maltose", "nutrient-galactose",
	"nutrient-starch",

	// Fat breakdown
	"nutrient-saturated-fat", "nutrient-trans-fat",
	"nutrient-monounsaturated-fat", "nutrient-polyunsaturated-fat",
	"nutrient-cholesterol",

	// Other components
	"nutrient-alcohol", "nutrient-caffeine", "nutrient-theobromine",
	"nutrient-ash",

	// Vitamins - fat soluble
	"nutrient-vitamin-a-rae", "nutrient-retinol", "nutrient-vitamin-d",
	"nutrient-vitamin-e-alpha-tocopherol", "nutrient-vitamin-k-phylloquinone",
	"nutrient-tocopherol-beta", "nutrient-tocopherol-gamma",
	"nutrient-tocopherol-delta", "nutrient-tocotrienol-alpha",
	"nutrient-tocotrienol-beta", "nutrient-tocotrienol-gamma",
	"nutrient-tocotrienol-delta", "nutrient-menaquinone-4",

	// Vitamins - B-complex
	"nutrient-thiamin-b1", "nutrient-riboflavin-b2", "nutrient-niacin-b3",
	"nutrient-vitamin-b5-pantothenic-acid", "nutrient-vitamin-b6",
	"nutrient-folate-folic-acid", "nutrient-folate-food",
	"nutrient-folate-dfe", "nutrient-vitamin-b12", "nutrient-choline",
	"nutrient-betaine",

	// Vitamin C
	"nutrient-vitamin-c-ascorbic-acid",

	// Minerals - major
	"nutrient-calcium", "nutrient-magnesium", "nutrient-phosphorus",
	"nutrient-potassium", "nutrient-sodium", "nutrient-sulfur",

	// Minerals - trace
	"nutrient-iron", "nutrient-zinc", "nutrient-copper", "nutrient-selenium",
	"nutrient-manganese", "nutrient-fluoride",

	// Minerals - ultra-trace (never reported by name in this module's
	// table; kept as permanently-nil slots pending an expanded name table)
	"nutrient-iodine", "nutrient-molybdenum", "nutrient-chromium",
	"nutrient-boron", "nutrient-nickel", "nutrient-cobalt",
	"nutrient-vanadium",

	// Carotenoids
	"nutrient-beta-carotene", "nutrient-alpha-carotene",
	"nutrient-cryptoxanthin", "nutrient-lycopene",
	"nutrient-lutein-zeaxanthin",

	// Fatty acids - saturated
	"nutrient-sfa-4-0-butyric", "nutrient-sfa-6-0-caproic",
	"nutrient-sfa-8-0-caprylic", "nutrient-sfa-10-0-capric",
	"nutrient-sfa-12-0-lauric", "nutrient-sfa-14-0-myristic",
	"nutrient-sfa-16-0-palmitic", "nutrient-sfa-18-0-stearic",
	"nutrient-sfa-20-0-arachidic", "nutrient-sfa-22-0-behenic",
	"nutrient-sfa-24-0-lignoceric",

	// Fatty acids - monounsaturated
	"nutrient-mufa-16-1-palmitoleic", "nutrient-mufa-18-1-oleic",
	"nutrient-mufa-20-1", "nutrient-mufa-22-1", "nutrient-mufa-24-1",

	// Fatty acids - polyunsaturated
	"nutrient-pufa-18-2-linoleic", "nutrient-pufa-18-3-alpha-linolenic",
	"nutrient-pufa-18-3-gamma-linolenic", "nutrient-pufa-18-4",
	"nutrient-pufa-20-2-n-6", "nutrient-pufa-20-3-n-3",
	"nutrient-pufa-20-3-n-6", "nutrient-pufa-20-4-arachidonic",
	"nutrient-pufa-20-5-epa", "nutrient-pufa-22-5-dpa",
	"nutrient-pufa-22-6-dha",

	// Amino acids - essential
	"nutrient-tryptophan", "nutrient-threonine", "nutrient-isoleucine",
	"nutrient-leucine", "nutrient-lysine", "nutrient-methionine",
	"nutrient-phenylalanine", "nutrient-valine",

	// Amino acids - conditionally essential
	"nutrient-arginine", "nutrient-histidine", "nutrient-cystine",
	"nutrient-tyrosine",

	// Amino acids - non-essential
	"nutrient-alanine", "nutrient-aspartic-acid", "nutrient-glutamic-acid",
	"nutrient-glycine", "nutrient-proline", "nutrient-serine",
}

// Normalizer implements C1: mapping heterogeneous catalog nutrient names to
// the fixed canonical nutrient ID set, filling missing slots with nil.
type Normalizer struct{}

// NewNormalizer constructs a Normalizer. It carries no state: the built-in
// name table is shared, read-only package data.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// CanonicalIDs returns every canonical nutrient ID in the built-in list,
// including the permanently-nil slots no catalog name maps to, in a stable
// order.
func (n *Normalizer) CanonicalIDs() []string {
	return canonicalNutrientIDs
}

// EmptyRow returns a NutrientRow with every canonical ID present and nil.
func (n *Normalizer) EmptyRow() domain.NutrientRow {
	row := make(domain.NutrientRow, len(canonicalNutrientIDs))
	for _, id := range canonicalNutrientIDs {
		row[id] = nil
	}
	return row
}

// Normalize maps a detail record's raw nutrient list onto the canonical
// schema. Amounts of 0 are kept; unmappable names are silently dropped.
// Energy reported in kilojoules is converted to kilocalories.
func (n *Normalizer) Normalize(nutrients []domain.DetailFoodNutrient) domain.NutrientRow {
	row := n.EmptyRow()

	for nutrientID, canonical := range macroIDToCanonical {
		amount, ok := usda.FindDetailNutrientValue(nutrients, nutrientID)
		if !ok {
			continue
		}
		unit, _ := n.unitForID(nutrients, nutrientID)
		if canonical == "nutrient-calories-energy" && strings.EqualFold(unit, "kJ") {
			amount = amount / 4.184
			unit = "kcal"
		}
		row[canonical] = &domain.NutrientValue{Amount: amount, Unit: unit}
	}

	for _, raw := range nutrients {
		id, ok := n.resolve(raw.Nutrient.Name)
		if !ok || row[id] != nil {
			continue
		}

		amount := raw.Amount
		unit := raw.Nutrient.UnitName
		if id == "nutrient-calories-energy" && strings.EqualFold(unit, "kJ") {
			amount = amount / 4.184
			unit = "kcal"
		}

		row[id] = &domain.NutrientValue{Amount: amount, Unit: unit}
	}

	return row
}

// unitForID returns the raw unit USDA reported for nutrientID, used only to
// detect the kJ/kcal energy discrepancy before the ID-priority pass assigns
// its normalized amount.
func (n *Normalizer) unitForID(nutrients []domain.DetailFoodNutrient, nutrientID int) (string, bool) {
	for _, raw := range nutrients {
		if raw.Nutrient.ID == nutrientID {
			return raw.Nutrient.UnitName, true
		}
	}
	return "", false
}

// resolve implements the three-step name resolution: exact match,
// case-insensitive match, then a conservative substring fallback for a small
// fixed set of highly common nutrients.
func (n *Normalizer) resolve(name string) (string, bool) {
	if entry, ok := catalogNutrientNames[name]; ok {
		return entry.id, true
	}

	lower := strings.ToLower(name)
	for known, entry := range catalogNutrientNames {
		if strings.ToLower(known) == lower {
			return entry.id, true
		}
	}

	switch {
	case strings.Contains(lower, "energy"), strings.Contains(lower, "calorie"):
		return "nutrient-calories-energy", true
	case strings.Contains(lower, "protein"):
		return "nutrient-protein", true
	case strings.Contains(lower, "fat") && strings.Contains(lower, "total"):
		return "nutrient-total-fat", true
	case strings.Contains(lower, "carbohydrate"):
		return "nutrient-total-carbohydrates", true
	case strings.Contains(lower, "fiber"), strings.Contains(lower, "fibre"):
		return "nutrient-dietary-fiber", true
	case strings.Contains(lower, "sugar"):
		return "nutrient-total-sugars", true
	case strings.Contains(lower, "sodium"):
		return "nutrient-sodium", true
	case strings.Contains(lower, "calcium"):
		return "nutrient-calcium", true
	case strings.Contains(lower, "iron"):
		return "nutrient-iron", true
	case strings.Contains(lower, "vitamin c"), strings.Contains(lower, "ascorbic"):
		return "nutrient-vitamin-c-ascorbic-acid", true
	}

	return "", false
}
