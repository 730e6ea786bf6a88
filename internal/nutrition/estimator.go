package nutrition

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// genericMealEstimate is returned when the text looks like a real meal but
// matches nothing in the food table. A plausible guess beats showing zeros.
var genericMealEstimate = Macros{Calories: 350, Protein: 20, Carbs: 30, Fat: 12}

// ParseFoodText estimates the macros of a free-text meal description. It never
// fails: unknown-but-substantial text yields a fixed generic estimate, empty
// or trivial text yields all zeros.
//
// The first integer in the text is read as a gram quantity when it exceeds 10
// ("200g pollo" scales the 100g reference by 2). Small numbers are unit counts
// like "2 huevos" and leave the portion at one 100g reference serving.
func ParseFoodText(text string) Macros {
	lower := strings.ToLower(text)

	portion := 1.0
	if qty, ok := firstInt(lower); ok && qty > 10 {
		portion = float64(qty) / 100
	}

	var cal, protein, carbs, fat float64
	found := false
	for key, ref := range genericFoodDB {
		if !strings.Contains(lower, key) {
			continue
		}
		found = true
		cal += ref.Cal * portion
		protein += ref.Protein * portion
		carbs += ref.Carbs * portion
		fat += ref.Fat * portion
	}

	if !found {
		if utf8.RuneCountInString(text) > 3 {
			return genericMealEstimate
		}
		return Macros{}
	}

	return Macros{
		Calories: int(math.Round(cal)),
		Protein:  int(math.Round(protein)),
		Carbs:    int(math.Round(carbs)),
		Fat:      int(math.Round(fat)),
	}
}

// firstInt returns the first run of digits in s as an integer.
func firstInt(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(s[start:])
		return n, err == nil
	}
	return 0, false
}
