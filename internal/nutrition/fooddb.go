package nutrition

// foodRef is the per-100g nutrition of one keyword in the generic food table.
type foodRef struct {
	Cal     float64
	Protein float64
	Carbs   float64
	Fat     float64
}

// genericFoodDB maps food keywords (as typed by Spanish-speaking customers) to
// approximate per-100g values. The estimator matches keys as substrings of the
// meal text, so plurals like "huevos" still hit "huevo".
var genericFoodDB = map[string]foodRef{
	"pollo":    {Cal: 165, Protein: 31, Carbs: 0, Fat: 3.6},
	"pechuga":  {Cal: 165, Protein: 31, Carbs: 0, Fat: 3.6},
	"huevo":    {Cal: 155, Protein: 13, Carbs: 1.1, Fat: 11},
	"claras":   {Cal: 52, Protein: 11, Carbs: 0.7, Fat: 0.2},
	"atun":     {Cal: 130, Protein: 28, Carbs: 0, Fat: 1},
	"salmon":   {Cal: 208, Protein: 20, Carbs: 0, Fat: 13},
	"arroz":    {Cal: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
	"avena":    {Cal: 389, Protein: 16.9, Carbs: 66, Fat: 6.9},
	"tortilla": {Cal: 218, Protein: 5.7, Carbs: 45, Fat: 2.9},
	"pan":      {Cal: 265, Protein: 9, Carbs: 49, Fat: 3.2},
	"pasta":    {Cal: 131, Protein: 5, Carbs: 25, Fat: 1.1},
	"manzana":  {Cal: 52, Protein: 0.3, Carbs: 14, Fat: 0.2},
	"platano":  {Cal: 89, Protein: 1.1, Carbs: 23, Fat: 0.3},
	"aguacate": {Cal: 160, Protein: 2, Carbs: 9, Fat: 15},
	"nuez":     {Cal: 654, Protein: 15, Carbs: 14, Fat: 65},
	"yogurt":   {Cal: 59, Protein: 10, Carbs: 3.6, Fat: 0.4},
}
