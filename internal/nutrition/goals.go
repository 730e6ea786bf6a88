package nutrition

import "math"

// Macros is the calorie/protein/carb/fat quadruple used for daily goals, meal
// estimates, and day totals. Values are kcal and grams, rounded to integers.
type Macros struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// Add returns the elementwise sum of two quadruples.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// IsZero reports whether every field is zero.
func (m Macros) IsZero() bool {
	return m == Macros{}
}

// Gender as captured on the profile form.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// ActivityLevel buckets from the profile form.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

// Goal is the user's primary objective.
type Goal string

const (
	GoalLoseFat    Goal = "lose_fat"
	GoalMuscleGain Goal = "muscle_gain"
	GoalMaintain   Goal = "maintain"
)

// UserProfile holds the biometric inputs for the goal calculation. Numeric
// fields must be positive; range validation belongs to the caller.
type UserProfile struct {
	Gender        Gender        `json:"gender"`
	Age           int           `json:"age"`
	Height        float64       `json:"height"` // cm
	Weight        float64       `json:"weight"` // kg
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
	MealsPerDay   int           `json:"meals_per_day"`
}

// activityMultipliers is the single source of truth for valid activity levels.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityModerate:  1.55,
	ActivityActive:    1.725,
}

// CalculateGoals converts a profile into daily macro targets.
//
// BMR via Mifflin-St Jeor, scaled by the activity multiplier, then shifted by
// the goal (-500 kcal lose_fat, +300 kcal muscle_gain). The macro split puts
// protein at 0.35 for muscle_gain and 0.30 otherwise, fat at a fixed 0.30, and
// carbs take the remainder. Each gram figure is rounded independently.
func CalculateGoals(p UserProfile) Macros {
	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		mult = activityMultipliers[ActivitySedentary]
	}
	tdee := bmr * mult

	switch p.Goal {
	case GoalLoseFat:
		tdee -= 500
	case GoalMuscleGain:
		tdee += 300
	}

	proteinRatio := 0.30
	if p.Goal == GoalMuscleGain {
		proteinRatio = 0.35
	}
	fatRatio := 0.30
	carbRatio := 1 - (proteinRatio + fatRatio)

	// 4 kcal per gram of protein/carbs, 9 per gram of fat.
	return Macros{
		Calories: int(math.Round(tdee)),
		Protein:  int(math.Round(tdee * proteinRatio / 4)),
		Fat:      int(math.Round(tdee * fatRatio / 9)),
		Carbs:    int(math.Round(tdee * carbRatio / 4)),
	}
}
