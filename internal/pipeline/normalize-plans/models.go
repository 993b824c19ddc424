// internal/pipeline/normalize-plans/models.go
package normalizeplans

import (
	"plan-advisor/internal/catalog"
	"plan-advisor/internal/models"
)

type Input struct {
	Catalog  *catalog.RawCatalog `json:"-"`
	Operator *string             `json:"operator"`
	PlanType string              `json:"planType"`
}

type Output struct {
	Plans []models.Plan `json:"plans"`
}
