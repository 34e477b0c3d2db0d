// Package matching combines per-candidate lifestyle and proficiency
// signals into one ranking score, then sorts and paginates the pool.
package matching

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/teamgrow/studymatch/internal/scoring"
	"github.com/teamgrow/studymatch/pkg/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50

	// scoreParallelism bounds the per-candidate scoring fan-out. Scoring
	// is pure CPU work, so a small bound is plenty.
	scoreParallelism = 8

	// defaultSubScore stands in for any missing signal: unknown lifestyle
	// or an unanswered survey contributes a neutral 0.5.
	defaultSubScore = 0.5
)

// Request describes one matching call. TagName filters the study signal
// to a specific canonical tag; when empty the candidate's overall score
// is used instead. The candidate pool is supplied by the caller;
// RequesterID, when set, removes the requester's own entry from it.
type Request struct {
	RequesterID string                  `json:"requester_id,omitempty"`
	TagName     string                  `json:"tag_name,omitempty"`
	Page        int                     `json:"page,omitempty"`
	Limit       int                     `json:"limit,omitempty"`
	Candidates  []models.MatchCandidate `json:"candidates"`
}

// Response is the ranked, paginated result set.
type Response struct {
	Matches    []models.MatchResult `json:"matches"`
	Pagination models.Pagination    `json:"pagination"`
}

// Engine computes match scores and rankings.
type Engine struct {
	lifestyleWeights scoring.LifestyleWeights
	matchWeights     scoring.MatchWeights
}

// NewEngine creates a matching engine with the default weight mix.
func NewEngine() *Engine {
	return &Engine{
		lifestyleWeights: scoring.DefaultLifestyleWeights(),
		matchWeights:     scoring.DefaultMatchWeights(),
	}
}

// Rank scores every candidate, sorts by final score descending (stable,
// so ties keep input order) and returns the requested page.
func (e *Engine) Rank(ctx context.Context, req Request) (*Response, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, models.InvalidInputf("page must be >= 1, got %d", req.Page)
	}

	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, models.InvalidInputf("limit must be between 1 and %d, got %d", MaxLimit, req.Limit)
	}

	candidates := req.Candidates
	if req.RequesterID != "" {
		candidates = make([]models.MatchCandidate, 0, len(req.Candidates))
		for _, c := range req.Candidates {
			if c.ID == req.RequesterID {
				continue
			}
			candidates = append(candidates, c)
		}
	}

	results := make([]models.MatchResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreParallelism)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.scoreCandidate(candidate, req.TagName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	total := len(results)
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	// A page beyond the result set is empty, not an error.
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &Response{
		Matches: results[start:end],
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// scoreCandidate computes the lifestyle and study sub-scores and combines
// them. Missing or invalid per-candidate data degrades to the neutral
// default instead of failing the whole request.
func (e *Engine) scoreCandidate(candidate models.MatchCandidate, tagName string) models.MatchResult {
	lifestyleScore := defaultSubScore
	if candidate.Window != nil {
		if ls, err := scoring.Lifestyle(*candidate.Window, e.lifestyleWeights); err == nil {
			lifestyleScore = ls.Score
		}
	}

	studyScore := defaultSubScore
	if tagName != "" {
		if wavg, ok := candidate.TagScores[tagName]; ok {
			studyScore = scoring.NormalizeProficiency(wavg)
		}
	} else if candidate.OverallScore != nil {
		studyScore = scoring.NormalizeProficiency(*candidate.OverallScore)
	}

	return models.MatchResult{
		CandidateID:    candidate.ID,
		LifestyleScore: lifestyleScore,
		TagScore:       studyScore,
		FinalScore:     scoring.FinalMatchScore(lifestyleScore, studyScore, e.matchWeights),
	}
}
