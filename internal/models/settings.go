package models

// ReviewSteps maps each rating to its base review interval in minutes.
type ReviewSteps struct {
	Again float64 `json:"again"`
	Hard  float64 `json:"hard"`
	Good  float64 `json:"good"`
	Easy  float64 `json:"easy"`
}

// Base returns the base interval for a rating.
func (s ReviewSteps) Base(rating Rating) float64 {
	switch rating {
	case RatingAgain:
		return s.Again
	case RatingHard:
		return s.Hard
	case RatingEasy:
		return s.Easy
	default:
		return s.Good
	}
}

// Settings is the application settings document: review intervals plus the
// planner defaults template. Callers load it once and pass it into the
// scheduling core explicitly.
type Settings struct {
	ReviewSteps     ReviewSteps     `json:"reviewSteps"`
	PlannerDefaults PlannerDefaults `json:"plannerDefaults"`
}

// SettingsInput is the partially-specified wire form of Settings.
type SettingsInput struct {
	ReviewSteps     map[string]float64    `json:"reviewSteps"`
	PlannerDefaults *PlannerDefaultsInput `json:"plannerDefaults"`
}
