// internal/pipeline/rank-alternatives/models.go
package rankalternatives

import "plan-advisor/internal/models"

type Input struct {
	Plans          []models.Plan `json:"plans"`
	TargetDuration int           `json:"targetDuration"`
	Budget         *int          `json:"budget"`
}

type Output struct {
	Alternatives []models.Plan `json:"alternatives"`
}
