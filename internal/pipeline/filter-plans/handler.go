// internal/pipeline/filter-plans/handler.go
package filterplans

import (
	"context"
	"math"
	"strings"

	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/models"
	"plan-advisor/internal/plantext"
)

const TaskType = "filter-plans"

// internationalMarkers qualify a plan for the international stage.
var internationalMarkers = []string{
	"international roaming", "iro", "international call", "global roaming",
}

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute runs the five filter stages in fixed order: voice-only, minimum
// daily data, duration+budget, features, international roaming. Each stage
// feeds the next; a short-circuiting stage ends the pipeline for the request.
// No stage mutates its input slice.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	out := &Output{}
	plans := input.Plans
	qc := input.Context

	// Stage 1: voice-only. An empty result keeps the original set; returning
	// a false empty would hide plans the user could still want.
	if qc.IsVoiceOnly {
		voicePlans := filterVoiceOnly(plans)
		if len(voicePlans) == 0 {
			out.VoiceOnlyRelaxed = true
			h.logger.Info("no strict voice-only plans, continuing unfiltered", map[string]interface{}{
				"candidates": len(plans),
			})
		} else {
			plans = voicePlans
		}
	}

	// Stage 2: minimum daily data.
	if qc.MinDailyData != nil {
		plans = filterMinDailyData(plans, *qc.MinDailyData)
	}

	// Stage 3: duration + budget. An empty result here hands over to the
	// similarity fallback; the feature and international stages never see it.
	plans = FilterDurationBudget(plans, qc.TargetDuration, qc.Budget)
	if len(plans) == 0 {
		out.Plans = nil
		return out, nil
	}

	// Stage 4: features. The availability split is computed over the
	// pre-filter set; it drives the user-facing note even when the filter
	// empties the list.
	if len(qc.RequestedFeatures) > 0 {
		out.AvailableFeatures, out.UnavailableFeatures = featureAvailability(plans, qc.RequestedFeatures)
		plans = filterFeatures(plans, qc.RequestedFeatures)
		if len(plans) == 0 {
			out.FeatureShortCircuit = true
			out.Plans = nil
			return out, nil
		}
	}

	// Stage 5: international roaming; the trigger is looser than the feature
	// keyword (any "international" mention in the query).
	if strings.Contains(strings.ToLower(input.QueryText), "international") {
		plans = filterInternational(plans)
		if len(plans) == 0 {
			out.InternationalShortCircuit = true
			out.Plans = nil
			return out, nil
		}
	}

	out.Plans = plans
	return out, nil
}

// filterVoiceOnly keeps plans with a zero-data allowance whose benefits read
// as calling plans.
func filterVoiceOnly(plans []models.Plan) []models.Plan {
	var result []models.Plan
	for _, p := range plans {
		data := strings.ToLower(strings.TrimSpace(p.Data))
		zeroData := data == "0gb" || data == "no data" || strings.Contains(data, "0gb")
		if !zeroData {
			continue
		}
		benefits := strings.ToLower(p.Benefits)
		if strings.Contains(benefits, "data") || strings.Contains(benefits, "gb") {
			continue
		}
		if strings.Contains(benefits, "voice") || strings.Contains(benefits, "calls") {
			result = append(result, p)
		}
	}
	return result
}

// filterMinDailyData keeps plans whose data allowance per validity day meets
// the threshold. Unlimited data always passes. A plan without a parseable
// data amount is excluded; a plan without a parseable validity is assumed to
// last one day, a conservative floor that penalizes unclear validity.
func filterMinDailyData(plans []models.Plan, minGB float64) []models.Plan {
	var result []models.Plan
	for _, p := range plans {
		gb, ok := plantext.ParseDataGB(p.Data)
		if !ok {
			continue
		}
		if math.IsInf(gb, 1) {
			result = append(result, p)
			continue
		}
		days, ok := plantext.ParseValidityDays(p.Validity)
		if !ok || days < 1 {
			days = 1
		}
		if gb/float64(days) >= minGB {
			result = append(result, p)
		}
	}
	return result
}

// FilterDurationBudget keeps plans whose validity exactly equals the target
// duration (when set) and whose price is within budget (when set). Duration
// match is deliberately exact; the similarity fallback handles the
// over-constrained case. Plans whose relevant field does not parse do not
// match.
func FilterDurationBudget(plans []models.Plan, targetDuration, budget *int) []models.Plan {
	var result []models.Plan
	for _, p := range plans {
		if targetDuration != nil {
			days, ok := plantext.ParseValidityDays(p.Validity)
			if !ok || days != *targetDuration {
				continue
			}
		}
		if budget != nil {
			price, ok := plantext.ParsePrice(p.Price)
			if !ok || price > *budget {
				continue
			}
		}
		result = append(result, p)
	}
	return result
}

// filterFeatures keeps only plans containing every requested feature keyword
// (AND semantics) in their combined benefit text.
func filterFeatures(plans []models.Plan, features []string) []models.Plan {
	var result []models.Plan
	for _, p := range plans {
		text := strings.ToLower(p.BenefitsText())
		all := true
		for _, f := range features {
			if !strings.Contains(text, strings.ToLower(f)) {
				all = false
				break
			}
		}
		if all {
			result = append(result, p)
		}
	}
	return result
}

// featureAvailability splits the requested features into those present in at
// least one candidate plan and those present in none.
func featureAvailability(plans []models.Plan, features []string) (available, unavailable []string) {
	for _, f := range features {
		found := false
		needle := strings.ToLower(f)
		for _, p := range plans {
			if strings.Contains(strings.ToLower(p.BenefitsText()), needle) {
				found = true
				break
			}
		}
		if found {
			available = append(available, f)
		} else {
			unavailable = append(unavailable, f)
		}
	}
	return available, unavailable
}

func filterInternational(plans []models.Plan) []models.Plan {
	var result []models.Plan
	for _, p := range plans {
		text := strings.ToLower(p.BenefitsText())
		for _, marker := range internationalMarkers {
			if strings.Contains(text, marker) {
				result = append(result, p)
				break
			}
		}
	}
	return result
}
