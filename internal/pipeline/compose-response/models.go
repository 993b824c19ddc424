// internal/pipeline/compose-response/models.go
package composeresponse

import "plan-advisor/internal/models"

type Input struct {
	QueryText    string              `json:"queryText"`
	Context      models.QueryContext `json:"context"`
	AllPlans     []models.Plan       `json:"allPlans"`  // every normalized candidate
	Filtered     []models.Plan       `json:"filtered"`  // post-pipeline survivors
	Alternatives []models.Plan       `json:"alternatives"`
	Offset       int                 `json:"offset"` // pagination offset into the filtered list

	VoiceOnlyRelaxed          bool     `json:"voiceOnlyRelaxed"`
	FeatureShortCircuit       bool     `json:"featureShortCircuit"`
	AvailableFeatures         []string `json:"availableFeatures"`
	UnavailableFeatures       []string `json:"unavailableFeatures"`
	InternationalShortCircuit bool     `json:"internationalShortCircuit"`
}

type Output struct {
	Message string `json:"message"`
	Shown   int    `json:"shown"`
	Total   int    `json:"total"`
}
