// internal/pipeline/rank-alternatives/handler.go
package rankalternatives

import (
	"context"
	"sort"

	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/models"
	"plan-advisor/internal/plantext"
)

const TaskType = "rank-alternatives"

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

type scoredPlan struct {
	plan models.Plan
	diff int
}

// Execute ranks candidate plans by closeness to the target duration and
// returns the top N. Plans without a parseable validity are skipped; plans
// over budget are excluded when a budget is set. The sort is stable, so ties
// keep catalog order.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	var scored []scoredPlan
	for _, p := range input.Plans {
		days, ok := plantext.ParseValidityDays(p.Validity)
		if !ok {
			continue
		}
		if input.Budget != nil {
			price, ok := plantext.ParsePrice(p.Price)
			if !ok || price > *input.Budget {
				continue
			}
		}
		diff := days - input.TargetDuration
		if diff < 0 {
			diff = -diff
		}
		scored = append(scored, scoredPlan{plan: p, diff: diff})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].diff < scored[j].diff
	})

	n := h.config.MaxAlternatives
	if len(scored) < n {
		n = len(scored)
	}

	alternatives := make([]models.Plan, 0, n)
	for _, s := range scored[:n] {
		alternatives = append(alternatives, s.plan)
	}

	h.logger.Debug("alternatives ranked", map[string]interface{}{
		"candidates":   len(input.Plans),
		"alternatives": len(alternatives),
		"target":       input.TargetDuration,
	})

	return &Output{Alternatives: alternatives}, nil
}
