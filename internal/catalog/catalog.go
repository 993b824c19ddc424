// Package catalog loads and caches the nested telecom plan catalog. The
// catalog is keyed by operator, then plan type; below that the structure is
// free-form nesting that the normalizer flattens. Subtrees stay as raw JSON
// so category source order survives Go's unordered maps.
package catalog

import "encoding/json"

// RawCatalog is the decoded top level of the catalog document.
type RawCatalog struct {
	Providers map[string]OperatorCatalog `json:"telecom_providers"`
}

// OperatorCatalog maps plan type ("prepaid"/"postpaid") to its raw subtree.
type OperatorCatalog map[string]json.RawMessage

// PlansFor returns the raw subtree for an operator/plan-type combination.
// Absent operators or plan types report ok=false; callers treat that the
// same as an empty catalog.
func (c *RawCatalog) PlansFor(operator, planType string) (json.RawMessage, bool) {
	if c == nil || c.Providers == nil {
		return nil, false
	}
	op, ok := c.Providers[operator]
	if !ok {
		return nil, false
	}
	raw, ok := op[planType]
	if !ok {
		return nil, false
	}
	return raw, true
}

// Decode parses a full catalog document.
func Decode(data []byte) (*RawCatalog, error) {
	var c RawCatalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
