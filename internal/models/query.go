// internal/models/query.go
package models

// Operators supported by the catalog, in stable iteration order.
var SupportedOperators = []string{"jio", "airtel", "vi"}

const (
	PlanTypePrepaid  = "prepaid"
	PlanTypePostpaid = "postpaid"
)

const (
	SortByPrice = "price"
	SortByValue = "value"
)

// QueryContext is the extracted-signal bundle for one request. It is built
// once from the raw query text plus the structured parameter map, consumed
// within the request, and never shared.
type QueryContext struct {
	Operator          *string  `json:"operator"`
	PlanType          string   `json:"planType"`
	Budget            *int     `json:"budget"`
	TargetDuration    *int     `json:"targetDuration"` // days, exact-match target
	MinDailyData      *float64 `json:"minDailyData"`   // GB per day
	RequestedFeatures []string `json:"requestedFeatures"`
	IsVoiceOnly       bool     `json:"isVoiceOnly"`
	SortBy            string   `json:"sortBy,omitempty"`

	// UnsupportedOperator carries the raw operator name when it resolved
	// outside the supported set; the reply surfaces it as a note while the
	// search falls back to all operators.
	UnsupportedOperator string `json:"unsupportedOperator,omitempty"`
}

// IsSupportedOperator reports whether op is in the closed operator set.
func IsSupportedOperator(op string) bool {
	for _, known := range SupportedOperators {
		if op == known {
			return true
		}
	}
	return false
}
