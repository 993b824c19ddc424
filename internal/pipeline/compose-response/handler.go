// internal/pipeline/compose-response/handler.go
package composeresponse

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/models"
	"plan-advisor/internal/plantext"
)

const TaskType = "compose-response"

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

// Execute renders one reply. Decision order: filtered plans, then
// alternatives, then the no-match messages in priority order
// features > international > budget > duration > generic.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	var b strings.Builder

	if input.Context.UnsupportedOperator != "" {
		fmt.Fprintf(&b, "I don't support %q yet, so I searched across Jio, Airtel and Vi.\n\n",
			input.Context.UnsupportedOperator)
	}

	if len(input.Filtered) > 0 {
		return h.renderPlans(&b, input)
	}

	if len(input.Alternatives) > 0 {
		return h.renderAlternatives(&b, input)
	}

	return h.renderNoMatch(&b, input)
}

func (h *Handler) renderPlans(b *strings.Builder, input *Input) (*Output, error) {
	plans := sortedPlans(input.Filtered, input.Context.SortBy)
	total := len(plans)

	offset := input.Offset
	if offset < 0 || offset >= total {
		offset = 0
	}
	end := offset + h.config.PageSize
	if end > total {
		end = total
	}
	page := plans[offset:end]

	b.WriteString(headerFor(input.Context))
	if input.VoiceOnlyRelaxed {
		b.WriteString("No exact voice-only plans found, showing all matching plans instead.\n")
	}
	b.WriteString("\n")

	for i, p := range page {
		b.WriteString(formatPlan(offset+i+1, p))
	}

	if total > len(page) {
		fmt.Fprintf(b, "\nShowing %d of %d plans. Say \"show more\" for the rest.", len(page), total)
	}

	return &Output{Message: b.String(), Shown: len(page), Total: total}, nil
}

func (h *Handler) renderAlternatives(b *strings.Builder, input *Input) (*Output, error) {
	if input.Context.TargetDuration != nil {
		fmt.Fprintf(b, "No plans with exactly %d days validity. Closest alternatives:\n\n",
			*input.Context.TargetDuration)
	} else {
		b.WriteString("No exact match for your request. You could try these instead:\n\n")
	}

	for i, p := range input.Alternatives {
		b.WriteString(formatPlan(i+1, p))
	}

	return &Output{Message: b.String(), Shown: len(input.Alternatives), Total: len(input.Alternatives)}, nil
}

// renderNoMatch picks the most specific explanation for an empty result.
func (h *Handler) renderNoMatch(b *strings.Builder, input *Input) (*Output, error) {
	qc := input.Context

	switch {
	case input.FeatureShortCircuit:
		fmt.Fprintf(b, "No plans include all of: %s.", strings.Join(qc.RequestedFeatures, ", "))
		if len(input.AvailableFeatures) > 0 && len(input.UnavailableFeatures) > 0 {
			fmt.Fprintf(b, " Plans with %s exist, but none also include %s.",
				strings.Join(input.AvailableFeatures, ", "),
				strings.Join(input.UnavailableFeatures, ", "))
		} else if len(input.UnavailableFeatures) > 0 {
			fmt.Fprintf(b, " %s is not offered in this catalog.",
				strings.Join(input.UnavailableFeatures, ", "))
		}

	case input.InternationalShortCircuit:
		b.WriteString("I couldn't find any plans with international roaming for this search. " +
			"Try a different operator or plan type.")

	case qc.Budget != nil && cheapestAbove(input.AllPlans, *qc.Budget):
		cheapest, _ := cheapestPrice(input.AllPlans)
		fmt.Fprintf(b, "No plans within ₹%d. The cheapest available plan costs ₹%d.",
			*qc.Budget, cheapest)

	case qc.TargetDuration != nil:
		fmt.Fprintf(b, "No plans with exactly %d days validity were found.", *qc.TargetDuration)

	default:
		planType := qc.PlanType
		other := models.PlanTypePostpaid
		if planType == models.PlanTypePostpaid {
			other = models.PlanTypePrepaid
		}
		operator := "this operator"
		if qc.Operator != nil {
			operator = *qc.Operator
		}
		fmt.Fprintf(b, "No %s plans found for %s. You could try %s plans instead.",
			planType, operator, other)
	}

	return &Output{Message: b.String()}, nil
}

// headerFor describes the active filters in the reply header.
func headerFor(qc models.QueryContext) string {
	var parts []string
	if qc.Operator != nil {
		parts = append(parts, titleCase(*qc.Operator))
	} else {
		parts = append(parts, "All operators")
	}
	parts = append(parts, qc.PlanType)
	if qc.IsVoiceOnly {
		parts = append(parts, "voice-only")
	}
	if qc.Budget != nil {
		parts = append(parts, fmt.Sprintf("under ₹%d", *qc.Budget))
	}
	if qc.TargetDuration != nil {
		parts = append(parts, fmt.Sprintf("%d days validity", *qc.TargetDuration))
	}
	switch qc.SortBy {
	case models.SortByPrice:
		parts = append(parts, "cheapest first")
	case models.SortByValue:
		parts = append(parts, "best value first")
	}
	return "Here are " + strings.Join(parts, ", ") + " plans:\n"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatPlan(n int, p models.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. ", n)
	if p.Name != "" {
		fmt.Fprintf(&b, "%s — ", p.Name)
	}
	if price, ok := plantext.ParsePrice(p.Price); ok {
		fmt.Fprintf(&b, "₹%d", price)
	} else {
		b.WriteString("price n/a")
	}
	if p.Data != "" {
		fmt.Fprintf(&b, " | %s", p.Data)
	}
	if days, ok := plantext.ParseValidityDays(p.Validity); ok {
		fmt.Fprintf(&b, " | %d days", days)
	} else if s, isStr := p.Validity.(string); isStr && s != "" {
		fmt.Fprintf(&b, " | %s", s)
	}
	if p.Provider != "" {
		fmt.Fprintf(&b, " (%s)", p.Provider)
	}
	if p.Benefits != "" {
		fmt.Fprintf(&b, "\n   %s", p.Benefits)
	}
	b.WriteString("\n")
	return b.String()
}

// sortedPlans orders a copy of the filtered list: by ascending price for
// "price", by descending data-per-rupee for "value", catalog order otherwise.
// The copy keeps repeated calls with the same context stable for pagination.
func sortedPlans(plans []models.Plan, sortBy string) []models.Plan {
	out := make([]models.Plan, len(plans))
	copy(out, plans)

	switch sortBy {
	case models.SortByPrice:
		sort.SliceStable(out, func(i, j int) bool {
			pi, iok := plantext.ParsePrice(out[i].Price)
			pj, jok := plantext.ParsePrice(out[j].Price)
			if !iok {
				return false
			}
			if !jok {
				return true
			}
			return pi < pj
		})
	case models.SortByValue:
		sort.SliceStable(out, func(i, j int) bool {
			return valueScore(out[i]) > valueScore(out[j])
		})
	}
	return out
}

// valueScore is GB of data per rupee; unlimited data ranks first.
func valueScore(p models.Plan) float64 {
	gb, ok := plantext.ParseDataGB(p.Data)
	if !ok {
		return -1
	}
	if math.IsInf(gb, 1) {
		return math.Inf(1)
	}
	price, ok := plantext.ParsePrice(p.Price)
	if !ok || price <= 0 {
		return -1
	}
	return gb / float64(price)
}

func cheapestPrice(plans []models.Plan) (int, bool) {
	cheapest := 0
	found := false
	for _, p := range plans {
		price, ok := plantext.ParsePrice(p.Price)
		if !ok {
			continue
		}
		if !found || price < cheapest {
			cheapest = price
			found = true
		}
	}
	return cheapest, found
}

func cheapestAbove(plans []models.Plan, budget int) bool {
	cheapest, ok := cheapestPrice(plans)
	return ok && cheapest > budget
}
