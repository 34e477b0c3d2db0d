package models

// Level is the difficulty class of a survey question.
type Level string

const (
	LevelBasic       Level = "basic"
	LevelExperience  Level = "experience"
	LevelApplication Level = "application"
)

// ParseLevel maps a submitted level string onto a Level. The Korean
// labels from the legacy question bank are accepted as aliases.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "basic", "기초":
		return LevelBasic, true
	case "experience", "경험":
		return LevelExperience, true
	case "application", "응용":
		return LevelApplication, true
	}
	return "", false
}

// Grade is the proficiency classification derived from a simple average
// of question values on the 1..5 scale.
type Grade string

const (
	GradeBeginner     Grade = "beginner"
	GradeIntermediate Grade = "intermediate"
	GradeAdvanced     Grade = "advanced"
)

// SurveyQuestion is one answered question inside a tag block.
type SurveyQuestion struct {
	No    int     `json:"no"`
	Level Level   `json:"level"`
	Value float64 `json:"value"` // 1..5
}

// AnswerBlock groups the answered questions submitted for one tag.
type AnswerBlock struct {
	Tag       string           `json:"tag"`
	Questions []SurveyQuestion `json:"questions"`
}

// TagScoreReport is the scored outcome for a single tag.
type TagScoreReport struct {
	Tag     string           `json:"tag"`
	Count   int              `json:"count"`
	Sum     float64          `json:"sum"`
	WAvg    float64          `json:"wavg"`
	Grade   Grade            `json:"grade"`
	Details []SurveyQuestion `json:"details"`
}

// OverallScoreReport aggregates across every submitted tag. SumAvg is the
// mean of each tag's raw sum (range 3..15 with three questions per tag),
// kept for dashboard display.
type OverallScoreReport struct {
	Count  int     `json:"count"`
	Avg5   float64 `json:"avg5"`
	WAvg   float64 `json:"wavg"`
	SumAvg float64 `json:"sum_avg"`
	Grade  Grade   `json:"grade"`
}

// ScoreReport is the full survey scoring response.
type ScoreReport struct {
	PerTag  []TagScoreReport   `json:"per_tag"`
	Overall OverallScoreReport `json:"overall"`
}
