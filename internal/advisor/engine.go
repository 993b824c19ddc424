// Package advisor wires the query pipeline: signal extraction, catalog
// resolution, normalization, filtering, similarity fallback, and response
// composition. Every stage is a pure transformation; the engine owns no
// mutable state and is safe for concurrent requests.
package advisor

import (
	"context"
	"time"

	"plan-advisor/internal/catalog"
	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/common/metrics"
	"plan-advisor/internal/common/observability"
	"plan-advisor/internal/models"
	composeresponse "plan-advisor/internal/pipeline/compose-response"
	extractsignals "plan-advisor/internal/pipeline/extract-signals"
	filterplans "plan-advisor/internal/pipeline/filter-plans"
	normalizeplans "plan-advisor/internal/pipeline/normalize-plans"
	rankalternatives "plan-advisor/internal/pipeline/rank-alternatives"
)

type Engine struct {
	loader    *catalog.Loader
	extract   *extractsignals.Handler
	normalize *normalizeplans.Handler
	filter    *filterplans.Handler
	rank      *rankalternatives.Handler
	compose   *composeresponse.Handler
	obs       *observability.Observability
	logger    logger.Logger
}

// Result is the engine's full answer: the rendered text plus the
// intermediates exposed for logging and pagination collaborators.
type Result struct {
	ResponseText string
	Context      *models.QueryContext
	Filtered     []models.Plan
	Pagination   models.PaginationMeta
	Outcome      string
}

type Options struct {
	MaxAlternatives int
	PageSize        int
}

func NewEngine(loader *catalog.Loader, opts Options, obs *observability.Observability, log logger.Logger) *Engine {
	rankCfg := rankalternatives.LoadConfig()
	if opts.MaxAlternatives > 0 {
		rankCfg.MaxAlternatives = opts.MaxAlternatives
	}
	composeCfg := composeresponse.LoadConfig()
	if opts.PageSize > 0 {
		composeCfg.PageSize = opts.PageSize
	}

	return &Engine{
		loader:    loader,
		extract:   extractsignals.NewHandler(extractsignals.LoadConfig(), log),
		normalize: normalizeplans.NewHandler(log),
		filter:    filterplans.NewHandler(log),
		rank:      rankalternatives.NewHandler(rankCfg, log),
		compose:   composeresponse.NewHandler(composeCfg, log),
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "advisor"}),
	}
}

// Handle answers one query. Conversational triggers short-circuit before any
// extraction or catalog work. A catalog fetch failure propagates as a
// service-level error; it is never rendered as a no-match reply.
func (e *Engine) Handle(ctx context.Context, queryText string, params map[string]interface{}) (*Result, error) {
	start := time.Now()

	if reply, ok := composeresponse.Smalltalk(queryText); ok {
		e.record(ctx, start, "smalltalk")
		return &Result{ResponseText: reply, Outcome: "smalltalk"}, nil
	}

	extractStart := time.Now()
	extracted, err := e.extract.Execute(ctx, &extractsignals.Input{QueryText: queryText, Params: params})
	observeStage(extractsignals.TaskType, extractStart)
	if err != nil {
		e.record(ctx, start, "error")
		return nil, err
	}
	qc := extracted.Context

	snapshot, err := e.loader.Snapshot(ctx)
	if err != nil {
		e.record(ctx, start, "error")
		return nil, err
	}

	normalizeStart := time.Now()
	normalized, err := e.normalize.Execute(ctx, &normalizeplans.Input{
		Catalog:  snapshot,
		Operator: qc.Operator,
		PlanType: qc.PlanType,
	})
	observeStage(normalizeplans.TaskType, normalizeStart)
	if err != nil {
		e.record(ctx, start, "error")
		return nil, err
	}
	plans := normalized.Plans

	filterStart := time.Now()
	filterOut, err := e.filter.Execute(ctx, &filterplans.Input{
		Plans:     plans,
		Context:   qc,
		QueryText: queryText,
	})
	observeStage(filterplans.TaskType, filterStart)
	if err != nil {
		e.record(ctx, start, "error")
		return nil, err
	}

	var alternatives []models.Plan
	if len(filterOut.Plans) == 0 &&
		!filterOut.FeatureShortCircuit && !filterOut.InternationalShortCircuit &&
		qc.TargetDuration != nil && len(plans) > 0 {
		rankStart := time.Now()
		ranked, err := e.rank.Execute(ctx, &rankalternatives.Input{
			Plans:          plans,
			TargetDuration: *qc.TargetDuration,
			Budget:         qc.Budget,
		})
		observeStage(rankalternatives.TaskType, rankStart)
		if err != nil {
			e.record(ctx, start, "error")
			return nil, err
		}
		alternatives = ranked.Alternatives
	}

	composeStart := time.Now()
	composed, err := e.compose.Execute(ctx, &composeresponse.Input{
		QueryText:    queryText,
		Context:      qc,
		AllPlans:     plans,
		Filtered:     filterOut.Plans,
		Alternatives: alternatives,
		Offset:       offsetFrom(params),

		VoiceOnlyRelaxed:          filterOut.VoiceOnlyRelaxed,
		FeatureShortCircuit:       filterOut.FeatureShortCircuit,
		AvailableFeatures:         filterOut.AvailableFeatures,
		UnavailableFeatures:       filterOut.UnavailableFeatures,
		InternationalShortCircuit: filterOut.InternationalShortCircuit,
	})
	observeStage(composeresponse.TaskType, composeStart)
	if err != nil {
		e.record(ctx, start, "error")
		return nil, err
	}

	outcome := "no_match"
	if len(filterOut.Plans) > 0 {
		outcome = "plans"
	} else if len(alternatives) > 0 {
		outcome = "alternatives"
	}
	e.record(ctx, start, outcome)

	e.logger.Info("query handled", map[string]interface{}{
		"outcome":  outcome,
		"operator": qc.Operator,
		"planType": qc.PlanType,
		"matched":  len(filterOut.Plans),
		"total":    len(plans),
	})

	return &Result{
		ResponseText: composed.Message,
		Context:      &qc,
		Filtered:     filterOut.Plans,
		Pagination: models.PaginationMeta{
			Offset: offsetFrom(params),
			Total:  composed.Total,
		},
		Outcome: outcome,
	}, nil
}

func observeStage(stage string, start time.Time) {
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (e *Engine) record(ctx context.Context, start time.Time, outcome string) {
	if e.obs != nil {
		e.obs.RecordQueryProcessed(ctx, outcome)
		e.obs.RecordQueryDuration(ctx, time.Since(start), outcome)
	}
}

// offsetFrom reads an optional pagination offset from the parameter map.
func offsetFrom(params map[string]interface{}) int {
	if params == nil {
		return 0
	}
	switch v := params["offset"].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return 0
}
