// internal/integrity/classifier.go
package integrity

import "strings"

// Category names one keyword vocabulary.
type Category string

const (
	CategoryEquipment        Category = "equipment"
	CategoryEquipmentLog     Category = "equipment_log"
	CategoryTemperatureUnit  Category = "temperature_unit"
	CategoryCount            Category = "count"
	CategoryFrosty           Category = "frosty"
	CategoryCriticalProtein  Category = "critical_protein"
	CategorySanitizerMarker  Category = "sanitizer_marker"
	CategoryExpirationMarker Category = "expiration_marker"
	CategoryExemptList       Category = "exempt_list"
	CategoryRelaxedList      Category = "relaxed_list"
	CategoryDaypart1List     Category = "daypart1_list"
	CategoryDaypart3List     Category = "daypart3_list"
	CategoryDaypart5List     Category = "daypart5_list"
	CategoryDailyLogList     Category = "daily_log_list"
	CategoryFoodSafetyList   Category = "food_safety_list"
)

// Vocabulary maps each category to the substrings that select it.
type Vocabulary map[Category][]string

// DefaultVocabulary returns a fresh copy of the built-in keyword table.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		CategoryEquipment:        {"equipment", "cooler", "freezer", "walk-in", "reach-in", "refrigerator", "fryer", "warmer"},
		CategoryEquipmentLog:     {"equipment", "cooler", "freezer", "walk-in", "reach-in", "refrigerator", "fryer", "grill", "warmer", "well"},
		CategoryTemperatureUnit:  {"temp", "°", "℉", "℃", " f ", " c "},
		CategoryCount:            {"count", "number", "amount", "quantity"},
		CategoryFrosty:           {"frosty"},
		CategoryCriticalProtein:  {"beef", "chili", "chicken"},
		CategorySanitizerMarker:  {"Sanitizer"},
		CategoryExpirationMarker: {"Exp. Date"},
		CategoryExemptList:       {"equipment temperature", "fsa - critical", "critical daily focus"},
		CategoryRelaxedList:      {"daypart 1", "breakfast"},
		CategoryDaypart1List:     {"daypart 1"},
		CategoryDaypart3List:     {"daypart 3"},
		CategoryDaypart5List:     {"daypart 5"},
		CategoryDailyLogList:     {"fsl"},
		CategoryFoodSafetyList:   {"🟧", "DFSL", "FSL", "Food Safety"},
	}
}

// Merge returns a copy of v where every category present in overrides is
// replaced by the override list.
func (v Vocabulary) Merge(overrides Vocabulary) Vocabulary {
	out := make(Vocabulary, len(v)+len(overrides))
	for cat, words := range v {
		out[cat] = append([]string(nil), words...)
	}
	for cat, words := range overrides {
		if len(words) == 0 {
			continue
		}
		out[cat] = append([]string(nil), words...)
	}
	return out
}

// caseSensitive lists the categories matched exactly as authored.
// The sanitizer expiration markers and the food-safety list tags keep the
// casing the checklist templates use.
func caseSensitive(cat Category) bool {
	switch cat {
	case CategorySanitizerMarker, CategoryExpirationMarker, CategoryFoodSafetyList:
		return true
	default:
		return false
	}
}

// ItemClass is the set of semantic flags derived from an item prompt.
type ItemClass uint16

const (
	ItemEquipment ItemClass = 1 << iota
	ItemTemperatureUnit
	ItemCountLike
	ItemSanitizerExpiration
	ItemFrosty
	ItemCriticalProtein
	ItemEquipmentLog
)

// Has reports whether every flag in f is set.
func (c ItemClass) Has(f ItemClass) bool {
	return c&f == f
}

// ListClass describes the scoring policy a list name selects.
type ListClass struct {
	Exempt          bool
	Relaxed         bool
	Daypart         int
	DailyLog        bool
	FoodSafety      bool
	Frosty          bool
	CriticalProtein bool
}

// Classifier turns free-text prompts and list names into semantic classes.
type Classifier interface {
	ClassifyItem(prompt string) ItemClass
	ClassifyList(name string) ListClass
}

// KeywordClassifier classifies by substring match against a Vocabulary.
type KeywordClassifier struct {
	vocab Vocabulary
}

// NewKeywordClassifier copies v, lower-casing the case-insensitive categories.
func NewKeywordClassifier(v Vocabulary) *KeywordClassifier {
	normalized := make(Vocabulary, len(v))
	for cat, words := range v {
		list := make([]string, 0, len(words))
		for _, w := range words {
			if w == "" {
				continue
			}
			if !caseSensitive(cat) {
				w = strings.ToLower(w)
			}
			list = append(list, w)
		}
		normalized[cat] = list
	}
	return &KeywordClassifier{vocab: normalized}
}

// Matches reports whether text contains any keyword of the category.
func (k *KeywordClassifier) Matches(cat Category, text string) bool {
	if text == "" {
		return false
	}
	if !caseSensitive(cat) {
		text = strings.ToLower(text)
	}
	return k.contains(cat, text)
}

func (k *KeywordClassifier) contains(cat Category, text string) bool {
	for _, w := range k.vocab[cat] {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func (k *KeywordClassifier) ClassifyItem(prompt string) ItemClass {
	if prompt == "" {
		return 0
	}
	lower := strings.ToLower(prompt)

	var c ItemClass
	if k.contains(CategoryEquipment, lower) {
		c |= ItemEquipment
	}
	if k.contains(CategoryEquipmentLog, lower) {
		c |= ItemEquipmentLog
	}
	if k.contains(CategoryTemperatureUnit, lower) {
		c |= ItemTemperatureUnit
	}
	if k.contains(CategoryCount, lower) {
		c |= ItemCountLike
	}
	if k.contains(CategoryFrosty, lower) {
		c |= ItemFrosty
	}
	if k.contains(CategoryCriticalProtein, lower) {
		c |= ItemCriticalProtein
	}
	if k.contains(CategorySanitizerMarker, prompt) && k.contains(CategoryExpirationMarker, prompt) {
		c |= ItemSanitizerExpiration
	}
	return c
}

func (k *KeywordClassifier) ClassifyList(name string) ListClass {
	if name == "" {
		return ListClass{}
	}
	lower := strings.ToLower(name)

	lc := ListClass{
		Exempt:          k.contains(CategoryExemptList, lower),
		Relaxed:         k.contains(CategoryRelaxedList, lower),
		DailyLog:        k.contains(CategoryDailyLogList, lower),
		FoodSafety:      k.contains(CategoryFoodSafetyList, name),
		Frosty:          k.contains(CategoryFrosty, lower),
		CriticalProtein: k.contains(CategoryCriticalProtein, lower),
	}
	switch {
	case k.contains(CategoryDaypart1List, lower):
		lc.Daypart = 1
	case k.contains(CategoryDaypart3List, lower):
		lc.Daypart = 3
	case k.contains(CategoryDaypart5List, lower):
		lc.Daypart = 5
	}
	return lc
}
