// internal/models/plan.go
package models

// Plan is the catalog's atomic entity. Price and Validity arrive from the
// catalog either as JSON numbers or as free-text strings ("₹399", "28 days",
// "bill cycle"), so both are decoded loosely and parsed on demand.
type Plan struct {
	Name               string      `json:"name,omitempty"`
	Price              interface{} `json:"price,omitempty"`
	Data               string      `json:"data,omitempty"`
	Validity           interface{} `json:"validity,omitempty"`
	Benefits           string      `json:"benefits,omitempty"`
	AdditionalBenefits string      `json:"additional_benefits,omitempty"`
	Description        string      `json:"description,omitempty"`

	// Provider is stamped by the normalizer; raw catalog entries never carry it.
	Provider string `json:"provider,omitempty"`
}

// BenefitsText concatenates every free-text field searched for feature
// keywords.
func (p Plan) BenefitsText() string {
	return p.Benefits + " " + p.AdditionalBenefits + " " + p.Description + " " + p.Name
}

// Suspect reports whether a plan is missing both price and data. Such plans
// are logged as data-quality warnings but never dropped.
func (p Plan) Suspect() bool {
	return p.Price == nil && p.Data == ""
}
