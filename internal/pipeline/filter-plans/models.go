// internal/pipeline/filter-plans/models.go
package filterplans

import "plan-advisor/internal/models"

type Input struct {
	Plans     []models.Plan       `json:"plans"`
	Context   models.QueryContext `json:"context"`
	QueryText string              `json:"queryText"`
}

// Output carries the surviving plans plus the flags the composer needs:
// whether the voice-only stage was relaxed, and which short-circuit (if any)
// ended the pipeline.
type Output struct {
	Plans []models.Plan `json:"plans"`

	VoiceOnlyRelaxed bool `json:"voiceOnlyRelaxed"`

	FeatureShortCircuit bool     `json:"featureShortCircuit"`
	AvailableFeatures   []string `json:"availableFeatures"`
	UnavailableFeatures []string `json:"unavailableFeatures"`

	InternationalShortCircuit bool `json:"internationalShortCircuit"`
}
