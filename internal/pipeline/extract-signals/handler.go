// internal/pipeline/extract-signals/handler.go
package extractsignals

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/models"
	"plan-advisor/internal/plantext"

	"golang.org/x/text/unicode/norm"
)

const TaskType = "extract-signals"

// operatorCorrections fixes known misspellings before the substring rules run.
var operatorCorrections = map[string]string{
	"geo":       "jio",
	"vodaphone": "vi",
}

// monthExpressions maps query-text month phrases to billing-cycle day counts.
// Indian prepaid validity runs in 28-day cycles, so "1 month" in a query means
// 28 days, not the generic parser's 30. The two paths are intentionally
// separate.
var monthExpressions = []struct {
	phrase string
	days   int
}{
	{"1 month", 28},
	{"one month", 28},
	{"a month", 28},
	{"2 months", 56},
	{"2 month", 56},
	{"two months", 56},
	{"two month", 56},
	{"3 months", 84},
	{"3 month", 84},
	{"three months", 84},
	{"three month", 84},
}

var (
	budgetPattern       = regexp.MustCompile(`(?:under|less than|budget of)\s*(?:rs\.?\s*|₹\s*)?(\d+)`)
	bareDaysPattern     = regexp.MustCompile(`(\d+)\s*days?`)
	minDailyDataPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*gb\s*(?:per day|/day|daily)`)
	viWordPattern       = regexp.MustCompile(`\bvi\b`)
)

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

// Execute derives the query context for one request. No field extraction
// fails: an unparseable value resolves to nil/default.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	if input.Params == nil {
		input.Params = make(map[string]interface{})
	}

	text := NormalizeQuery(input.QueryText)

	qc := models.QueryContext{
		PlanType:          h.config.DefaultPlanType,
		RequestedFeatures: []string{},
	}

	h.extractOperator(text, input.Params, &qc)
	h.extractPlanType(text, input.Params, &qc)
	h.extractBudget(text, input.Params, &qc)
	h.extractDuration(text, input.Params, &qc)
	h.extractMinDailyData(text, &qc)
	h.extractFeatures(text, &qc)
	qc.IsVoiceOnly = isVoiceOnly(text)
	qc.SortBy = sortPreference(text)

	h.logger.Debug("signals extracted", map[string]interface{}{
		"operator":  qc.Operator,
		"planType":  qc.PlanType,
		"budget":    qc.Budget,
		"duration":  qc.TargetDuration,
		"features":  qc.RequestedFeatures,
		"voiceOnly": qc.IsVoiceOnly,
		"sortBy":    qc.SortBy,
	})

	return &Output{Context: qc}, nil
}

// NormalizeQuery canonicalizes the raw query text once: unicode NFKD then
// lowercase. All extraction rules run over this form.
func NormalizeQuery(text string) string {
	return strings.ToLower(norm.NFKD.String(text))
}

// CorrectOperator resolves a raw operator mention to its canonical name.
// Exact-match corrections run first, then the per-operator substring rules.
// An unrecognized value is returned unchanged so callers can surface it.
func CorrectOperator(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := operatorCorrections[s]; ok {
		return c
	}
	switch {
	case strings.Contains(s, "jio") || strings.Contains(s, "geo"):
		return "jio"
	case strings.Contains(s, "airtel") || strings.Contains(s, "artel"):
		return "airtel"
	case strings.Contains(s, "vodafone") || strings.Contains(s, "idea") || strings.Contains(s, "vi"):
		return "vi"
	}
	return s
}

// extractOperator resolves the operator. Unlike the other fields, an explicit
// operator parameter takes priority over the query text.
func (h *Handler) extractOperator(text string, params map[string]interface{}, qc *models.QueryContext) {
	if raw, ok := params["operator"].(string); ok && strings.TrimSpace(raw) != "" {
		resolved := CorrectOperator(raw)
		if models.IsSupportedOperator(resolved) {
			qc.Operator = &resolved
			return
		}
		// Unsupported operator: note it and search all operators instead.
		qc.UnsupportedOperator = strings.TrimSpace(raw)
		h.logger.Info("unsupported operator requested, searching all", map[string]interface{}{
			"requested": raw,
		})
		return
	}

	if op, ok := operatorFromText(text); ok {
		qc.Operator = &op
	}
}

// operatorFromText applies the operator substring rules to query text. The
// two-letter "vi" is matched on word boundaries only; as a bare substring it
// fires inside words like "validity" or "provider".
func operatorFromText(text string) (string, bool) {
	switch {
	case strings.Contains(text, "jio") || strings.Contains(text, "geo"):
		return "jio", true
	case strings.Contains(text, "airtel") || strings.Contains(text, "artel"):
		return "airtel", true
	case strings.Contains(text, "vodafone") || strings.Contains(text, "vodaphone") ||
		strings.Contains(text, "idea") || viWordPattern.MatchString(text):
		return "vi", true
	}
	return "", false
}

func (h *Handler) extractPlanType(text string, params map[string]interface{}, qc *models.QueryContext) {
	if raw, ok := params["plan_type"].(string); ok {
		s := strings.ToLower(strings.TrimSpace(raw))
		if strings.Contains(s, models.PlanTypePostpaid) {
			qc.PlanType = models.PlanTypePostpaid
			return
		}
		if strings.Contains(s, models.PlanTypePrepaid) {
			qc.PlanType = models.PlanTypePrepaid
			return
		}
	}

	if strings.Contains(text, models.PlanTypePostpaid) {
		qc.PlanType = models.PlanTypePostpaid
	} else if strings.Contains(text, models.PlanTypePrepaid) {
		qc.PlanType = models.PlanTypePrepaid
	}
}

func (h *Handler) extractBudget(text string, params map[string]interface{}, qc *models.QueryContext) {
	if raw, ok := params["budget"]; ok {
		if b, ok := budgetFromParam(raw); ok && b > 0 {
			qc.Budget = &b
			return
		}
	}

	if m := budgetPattern.FindStringSubmatch(text); m != nil {
		if b, ok := plantext.FirstInt(m[1]); ok && b > 0 {
			qc.Budget = &b
		}
	}
}

// budgetFromParam accepts the agent platform's entity shapes: a number, an
// object carrying an amount field, or a string containing a number.
func budgetFromParam(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case map[string]interface{}:
		if amount, ok := v["amount"]; ok {
			return budgetFromParam(amount)
		}
		return 0, false
	case string:
		return plantext.FirstInt(v)
	default:
		return 0, false
	}
}

// extractDuration reads the target duration: query text first, structured
// parameter only when text yields nothing.
func (h *Handler) extractDuration(text string, params map[string]interface{}, qc *models.QueryContext) {
	if d, ok := durationFromText(text); ok {
		qc.TargetDuration = &d
		return
	}

	raw, ok := params["duration"]
	if !ok {
		return
	}
	if d, ok := durationFromParam(raw); ok && d > 0 {
		qc.TargetDuration = &d
	}
}

func durationFromText(text string) (int, bool) {
	for _, expr := range monthExpressions {
		if strings.Contains(text, expr.phrase) {
			return expr.days, true
		}
	}
	if m := bareDaysPattern.FindStringSubmatch(text); m != nil {
		if d, ok := plantext.FirstInt(m[1]); ok && d > 0 {
			return d, true
		}
	}
	return 0, false
}

func durationFromParam(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case map[string]interface{}:
		amount, ok := numberFrom(v["amount"])
		if !ok {
			return 0, false
		}
		unit, _ := v["unit"].(string)
		switch strings.ToLower(strings.TrimSpace(unit)) {
		case "month", "months", "mo":
			switch int(amount) {
			case 1:
				return 28, true
			case 2:
				return 56, true
			case 3:
				return 84, true
			default:
				return int(math.Round(amount * 30)), true
			}
		case "week", "weeks", "wk":
			return int(amount * 7), true
		case "year", "years", "yr":
			return int(amount * 365), true
		default:
			// Assume the amount is already a day count.
			return int(amount), true
		}
	case string:
		return plantext.ParseValidityDays(v)
	default:
		return 0, false
	}
}

func numberFrom(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (h *Handler) extractMinDailyData(text string, qc *models.QueryContext) {
	m := minDailyDataPattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	gb, err := strconv.ParseFloat(m[1], 64)
	if err != nil || gb <= 0 {
		return
	}
	qc.MinDailyData = &gb
}

// featureKeywords is the closed vocabulary of feature requests. Order is
// preserved into the requested-feature set for display.
var featureKeywords = []struct {
	trigger   string
	canonical string
}{
	{"international roaming", "international roaming"},
	{"ott", "ott"},
	{"amazon prime", "amazon prime"},
	{"prime video", "amazon prime"},
	{"netflix", "netflix"},
	{"hotstar", "hotstar"},
}

func (h *Handler) extractFeatures(text string, qc *models.QueryContext) {
	add := func(feature string) {
		for _, existing := range qc.RequestedFeatures {
			if existing == feature {
				return
			}
		}
		qc.RequestedFeatures = append(qc.RequestedFeatures, feature)
	}

	for _, kw := range featureKeywords {
		if strings.Contains(text, kw.trigger) {
			add(kw.canonical)
		}
	}

	if strings.Contains(text, "international") && strings.Contains(text, "roaming") {
		add("international roaming")
	}
}

func isVoiceOnly(text string) bool {
	for _, phrase := range []string{
		"voice only", "voice-only", "calling only", "call only", "calling-only",
	} {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	if strings.Contains(text, "only") && !strings.Contains(text, "data") {
		if strings.Contains(text, "call") || strings.Contains(text, "voice") {
			return true
		}
	}
	return false
}

// sortPreference checks "cheapest" before the value keywords, so "cheapest"
// wins when both appear.
func sortPreference(text string) string {
	if strings.Contains(text, "cheapest") {
		return models.SortByPrice
	}
	for _, kw := range []string{"best", "highest", "most"} {
		if strings.Contains(text, kw) {
			return models.SortByValue
		}
	}
	return ""
}
