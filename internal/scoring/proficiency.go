package scoring

import (
	"sort"
	"strings"

	"github.com/teamgrow/studymatch/pkg/models"
)

// levelWeights are the per-difficulty multipliers applied to question
// values when computing the weighted average.
var levelWeights = map[models.Level]float64{
	models.LevelBasic:       1.0,
	models.LevelExperience:  1.2,
	models.LevelApplication: 1.4,
}

// Grade boundaries on the simple 1..5 average. The weighted average feeds
// matching, the simple average decides the grade.
const (
	avgBoundLow = 2.0
	avgBoundMid = 11.0 / 3.0
)

// GradeFromAvg maps a simple 1..5 average onto a grade label.
func GradeFromAvg(avg5 float64) models.Grade {
	if avg5 <= avgBoundLow {
		return models.GradeBeginner
	}
	if avg5 <= avgBoundMid {
		return models.GradeIntermediate
	}
	return models.GradeAdvanced
}

type tagAggregate struct {
	sum     float64
	wsum    float64
	wtotal  float64
	count   int
	details []models.SurveyQuestion
}

// ScoreBlocks scores a survey submission grouped by tag. Question numbers
// must be unique across the whole submission, values must lie in [1,5],
// and every block needs at least one question.
func ScoreBlocks(blocks []models.AnswerBlock) (*models.ScoreReport, error) {
	if len(blocks) == 0 {
		return nil, models.InvalidInputf("answers are empty")
	}

	seenNo := make(map[int]bool)
	perTag := make(map[string]*tagAggregate)
	var tagOrder []string

	var globalSum, globalWSum, globalWTotal float64
	globalCount := 0

	for _, block := range blocks {
		tag := strings.TrimSpace(block.Tag)
		if tag == "" {
			return nil, models.InvalidInputf("each answer block needs a tag")
		}
		if len(block.Questions) == 0 {
			return nil, models.InvalidInputf("tag %q has no questions", tag)
		}

		for _, q := range block.Questions {
			level, ok := models.ParseLevel(string(q.Level))
			if !ok {
				return nil, models.InvalidInputf("level must be basic/experience/application: no=%d, level=%q", q.No, q.Level)
			}
			weight := levelWeights[level]
			if q.Value < 1 || q.Value > 5 {
				return nil, models.InvalidInputf("value must be between 1 and 5: no=%d, value=%v", q.No, q.Value)
			}
			if seenNo[q.No] {
				return nil, models.InvalidInputf("duplicate answer: no=%d", q.No)
			}
			seenNo[q.No] = true

			agg := perTag[tag]
			if agg == nil {
				agg = &tagAggregate{}
				perTag[tag] = agg
				tagOrder = append(tagOrder, tag)
			}

			// Details carry the canonical level even when an alias was
			// submitted.
			q.Level = level

			agg.sum += q.Value
			agg.wsum += q.Value * weight
			agg.wtotal += weight
			agg.count++
			agg.details = append(agg.details, q)

			globalSum += q.Value
			globalWSum += q.Value * weight
			globalWTotal += weight
			globalCount++
		}
	}

	if globalCount == 0 {
		return nil, models.InvalidInputf("no questions to score")
	}

	sort.Strings(tagOrder)

	reports := make([]models.TagScoreReport, 0, len(tagOrder))
	var sumOfSums float64
	for _, tag := range tagOrder {
		agg := perTag[tag]
		avg5 := agg.sum / float64(agg.count)

		sort.Slice(agg.details, func(i, j int) bool {
			return agg.details[i].No < agg.details[j].No
		})

		reports = append(reports, models.TagScoreReport{
			Tag:     tag,
			Count:   agg.count,
			Sum:     Round2(agg.sum),
			WAvg:    Round2(agg.wsum / agg.wtotal),
			Grade:   GradeFromAvg(avg5),
			Details: agg.details,
		})
		sumOfSums += agg.sum
	}

	overallAvg5 := globalSum / float64(globalCount)

	return &models.ScoreReport{
		PerTag: reports,
		Overall: models.OverallScoreReport{
			Count:  globalCount,
			Avg5:   Round2(overallAvg5),
			WAvg:   Round2(globalWSum / globalWTotal),
			SumAvg: Round2(sumOfSums / float64(len(reports))),
			Grade:  GradeFromAvg(overallAvg5),
		},
	}, nil
}
