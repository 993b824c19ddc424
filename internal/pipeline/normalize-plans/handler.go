// internal/pipeline/normalize-plans/handler.go
package normalizeplans

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/models"
)

const TaskType = "normalize-plans"

// Postpaid catalogs nest up to category → subcategory → sub-subcategory → array.
const maxPostpaidDepth = 3

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute flattens the nested catalog substructure for the requested
// operator/plan type into a flat plan list, stamping each plan with its
// provider. A nil operator means all supported operators, concatenated in
// stable order (never interleaved). A missing operator or plan type yields
// an empty list, not an error.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	operators := models.SupportedOperators
	if input.Operator != nil {
		operators = []string{*input.Operator}
	}

	var all []models.Plan
	for _, op := range operators {
		raw, ok := input.Catalog.PlansFor(op, input.PlanType)
		if !ok {
			continue
		}

		plans, err := h.flatten(raw, input.PlanType)
		if err != nil {
			h.logger.Warn("catalog substructure could not be flattened", map[string]interface{}{
				"operator": op,
				"planType": input.PlanType,
				"error":    err.Error(),
			})
			continue
		}

		for i := range plans {
			plans[i].Provider = op
			if plans[i].Suspect() {
				h.logger.Warn("plan missing both price and data", map[string]interface{}{
					"operator": op,
					"planType": input.PlanType,
					"name":     plans[i].Name,
				})
			}
		}
		all = append(all, plans...)
	}

	return &Output{Plans: all}, nil
}

func (h *Handler) flatten(raw json.RawMessage, planType string) ([]models.Plan, error) {
	if planType == models.PlanTypePostpaid {
		return flattenNested(raw, maxPostpaidDepth)
	}
	// Prepaid allows exactly one level of extra nesting below the category map.
	return flattenNested(raw, 2)
}

// flattenNested walks a raw JSON subtree in document order, concatenating
// every plan array found within maxDepth levels. Go maps are unordered, so
// the walk uses a streaming decoder to honor catalog source order. Scalar
// values and over-deep nesting are skipped.
func flattenNested(raw json.RawMessage, maxDepth int) ([]models.Plan, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var plans []models.Plan
		if err := json.Unmarshal(raw, &plans); err != nil {
			return nil, fmt.Errorf("decode plan array: %w", err)
		}
		return plans, nil
	case '{':
		if maxDepth == 0 {
			return nil, nil
		}
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil { // consume '{'
			return nil, err
		}
		var all []models.Plan
		for dec.More() {
			if _, err := dec.Token(); err != nil { // category key
				return nil, err
			}
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, err
			}
			plans, err := flattenNested(value, maxDepth-1)
			if err != nil {
				return nil, err
			}
			all = append(all, plans...)
		}
		return all, nil
	default:
		// Non-array, non-object values carry no plans.
		return nil, nil
	}
}
