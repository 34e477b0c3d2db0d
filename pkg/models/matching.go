package models

// ParticipationWindow describes when and for how long a candidate can
// commit to a study. Supplied per matching request; never owned here.
type ParticipationWindow struct {
	StartTime    string `json:"start_time"` // "HH:MM", 24-hour
	EndTime      string `json:"end_time"`   // "HH:MM", 24-hour
	PeriodLength string `json:"period_length"`
}

// MatchCandidate is one entry of the candidate pool for a matching
// request. TagScores maps canonical tag labels to the candidate's
// proficiency weighted average on the 1..5 scale; OverallScore is the
// candidate's overall weighted average, nil when the candidate has not
// completed any survey yet.
type MatchCandidate struct {
	ID           string               `json:"id"`
	Window       *ParticipationWindow `json:"participation,omitempty"`
	TagScores    map[string]float64   `json:"tag_scores,omitempty"`
	OverallScore *float64             `json:"overall_score,omitempty"`
}

// MatchResult carries the per-candidate sub-scores and the final ranking
// score, all in [0,1] with the final score rounded to two decimals.
type MatchResult struct {
	CandidateID    string  `json:"candidate_id"`
	LifestyleScore float64 `json:"lifestyle_score"`
	TagScore       float64 `json:"tag_score"`
	FinalScore     float64 `json:"final_score"`
}

// Pagination is the page metadata returned alongside match results.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
