// internal/pipeline/extract-signals/models.go
package extractsignals

import "plan-advisor/internal/models"

type Input struct {
	QueryText string                 `json:"queryText"`
	Params    map[string]interface{} `json:"params"`
}

type Output struct {
	Context models.QueryContext `json:"context"`
}
