// internal/pipeline/compose-response/handler_test.go
package composeresponse

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func compose(t *testing.T, input *Input) *Output {
	out, err := createTestHandler(t).Execute(context.Background(), input)
	require.NoError(t, err)
	return out
}

func intPtr(n int) *int { return &n }

func TestHandler_Execute_RendersFilteredPlans(t *testing.T) {
	op := "jio"
	out := compose(t, &Input{
		QueryText: "jio plans under 500",
		Context:   models.QueryContext{Operator: &op, PlanType: "prepaid", Budget: intPtr(500)},
		Filtered: []models.Plan{
			{Name: "Jio 239", Price: float64(239), Data: "1.5GB/day", Validity: "28 days", Provider: "jio"},
			{Name: "Jio 399", Price: float64(399), Data: "2GB/day", Validity: "28 days", Provider: "jio"},
		},
	})

	assert.Contains(t, out.Message, "Jio, prepaid, under ₹500")
	assert.Contains(t, out.Message, "1. Jio 239 — ₹239 | 1.5GB/day | 28 days (jio)")
	assert.Contains(t, out.Message, "2. Jio 399")
	assert.Equal(t, 2, out.Shown)
	assert.Equal(t, 2, out.Total)
	assert.NotContains(t, out.Message, "show more")
}

func TestHandler_Execute_Pagination(t *testing.T) {
	plans := make([]models.Plan, 12)
	for i := range plans {
		plans[i] = models.Plan{
			Name:     fmt.Sprintf("Plan %02d", i+1),
			Price:    float64(100 + i),
			Validity: "28 days",
		}
	}

	t.Run("first page truncates at the page size", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText: "all plans",
			Context:   models.QueryContext{PlanType: "prepaid"},
			Filtered:  plans,
		})

		assert.Equal(t, 8, out.Shown)
		assert.Equal(t, 12, out.Total)
		assert.Contains(t, out.Message, "Plan 08")
		assert.NotContains(t, out.Message, "Plan 09")
		assert.Contains(t, out.Message, "Showing 8 of 12 plans")
	})

	t.Run("offset continues numbering", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText: "show more",
			Context:   models.QueryContext{PlanType: "prepaid"},
			Filtered:  plans,
			Offset:    8,
		})

		assert.Equal(t, 4, out.Shown)
		assert.Contains(t, out.Message, "9. Plan 09")
		assert.Contains(t, out.Message, "12. Plan 12")
		assert.NotContains(t, out.Message, "Plan 08")
	})

	t.Run("out-of-range offset resets to the first page", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText: "show more",
			Context:   models.QueryContext{PlanType: "prepaid"},
			Filtered:  plans,
			Offset:    50,
		})

		assert.Equal(t, 8, out.Shown)
		assert.Contains(t, out.Message, "1. Plan 01")
	})
}

func TestHandler_Execute_SortPreference(t *testing.T) {
	plans := []models.Plan{
		{Name: "Mid", Price: float64(300), Data: "30GB", Validity: "28 days"},
		{Name: "Cheap", Price: float64(100), Data: "5GB", Validity: "28 days"},
		{Name: "Unlimited", Price: float64(500), Data: "Unlimited", Validity: "28 days"},
	}

	t.Run("cheapest first", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText: "cheapest plans",
			Context:   models.QueryContext{PlanType: "prepaid", SortBy: models.SortByPrice},
			Filtered:  plans,
		})
		assert.Less(t, strings.Index(out.Message, "Cheap"), strings.Index(out.Message, "Mid"))
		assert.Contains(t, out.Message, "cheapest first")
	})

	t.Run("best value ranks unlimited first", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText: "best plans",
			Context:   models.QueryContext{PlanType: "prepaid", SortBy: models.SortByValue},
			Filtered:  plans,
		})
		assert.Less(t, strings.Index(out.Message, "Unlimited"), strings.Index(out.Message, "Mid"))
	})
}

func TestHandler_Execute_Alternatives(t *testing.T) {
	out := compose(t, &Input{
		QueryText: "2 month plans",
		Context:   models.QueryContext{PlanType: "prepaid", TargetDuration: intPtr(56)},
		Alternatives: []models.Plan{
			{Name: "Quarterly 666", Price: float64(666), Validity: "84 days", Provider: "jio"},
		},
	})

	assert.Contains(t, out.Message, "No plans with exactly 56 days validity. Closest alternatives:")
	assert.Contains(t, out.Message, "Quarterly 666")
}

func TestHandler_Execute_NoMatchPriority(t *testing.T) {
	allPlans := []models.Plan{
		{Name: "Base 239", Price: float64(239), Validity: "28 days"},
		{Name: "Top 999", Price: float64(999), Validity: "84 days"},
	}

	t.Run("feature explanation with availability split", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText: "plans with netflix and amazon prime",
			Context: models.QueryContext{
				PlanType:          "prepaid",
				RequestedFeatures: []string{"netflix", "amazon prime"},
			},
			AllPlans:            allPlans,
			FeatureShortCircuit: true,
			AvailableFeatures:   []string{"netflix"},
			UnavailableFeatures: []string{"amazon prime"},
		})

		assert.Contains(t, out.Message, "No plans include all of: netflix, amazon prime.")
		assert.Contains(t, out.Message, "Plans with netflix exist, but none also include amazon prime.")
	})

	t.Run("features outrank budget", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText: "netflix plans under 100",
			Context: models.QueryContext{
				PlanType:          "prepaid",
				Budget:            intPtr(100),
				RequestedFeatures: []string{"netflix"},
			},
			AllPlans:            allPlans,
			FeatureShortCircuit: true,
			UnavailableFeatures: []string{"netflix"},
		})

		assert.Contains(t, out.Message, "No plans include all of")
		assert.NotContains(t, out.Message, "cheapest available")
	})

	t.Run("international explanation", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText:                 "international plans",
			Context:                   models.QueryContext{PlanType: "prepaid"},
			AllPlans:                  allPlans,
			InternationalShortCircuit: true,
		})

		assert.Contains(t, out.Message, "international roaming")
	})

	t.Run("budget explanation reports catalog cheapest", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText: "plans under 100",
			Context:   models.QueryContext{PlanType: "prepaid", Budget: intPtr(100)},
			AllPlans:  allPlans,
		})

		assert.Contains(t, out.Message, "No plans within ₹100. The cheapest available plan costs ₹239.")
	})

	t.Run("duration explanation", func(t *testing.T) {
		out := compose(t, &Input{
			QueryText: "365 days plans",
			Context:   models.QueryContext{PlanType: "prepaid", TargetDuration: intPtr(365)},
			AllPlans:  allPlans,
		})

		assert.Contains(t, out.Message, "No plans with exactly 365 days validity were found.")
	})

	t.Run("generic suggests the other plan type", func(t *testing.T) {
		op := "airtel"
		out := compose(t, &Input{
			QueryText: "airtel postpaid plans",
			Context:   models.QueryContext{PlanType: "postpaid", Operator: &op},
		})

		assert.Contains(t, out.Message, "No postpaid plans found for airtel.")
		assert.Contains(t, out.Message, "try prepaid plans instead")
	})
}

func TestHandler_Execute_UnsupportedOperatorNote(t *testing.T) {
	out := compose(t, &Input{
		QueryText: "bsnl plans",
		Context:   models.QueryContext{PlanType: "prepaid", UnsupportedOperator: "bsnl"},
		Filtered: []models.Plan{
			{Name: "Jio 239", Price: float64(239), Validity: "28 days", Provider: "jio"},
		},
	})

	assert.Contains(t, out.Message, `I don't support "bsnl" yet`)
	assert.Contains(t, out.Message, "Jio 239")
}

func TestHandler_Execute_VoiceOnlyRelaxedNote(t *testing.T) {
	out := compose(t, &Input{
		QueryText: "voice only plans",
		Context:   models.QueryContext{PlanType: "prepaid", IsVoiceOnly: true},
		Filtered: []models.Plan{
			{Name: "Jio 239", Price: float64(239), Validity: "28 days"},
		},
		VoiceOnlyRelaxed: true,
	})

	assert.Contains(t, out.Message, "No exact voice-only plans found")
}

func TestSmalltalk(t *testing.T) {
	tests := []struct {
		query   string
		trigger bool
	}{
		{"hi", true},
		{"Hello there", true},
		{"good morning", true},
		{"thanks a lot", true},
		{"bye", true},
		{"this is a plan query", false}, // "hi" inside "this" must not fire
		{"history of plans", false},
		{"jio plans under 500", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			reply, ok := Smalltalk(tt.query)
			assert.Equal(t, tt.trigger, ok)
			if tt.trigger {
				assert.Contains(t, SmalltalkReplies(tt.query), reply)
			} else {
				assert.Empty(t, reply)
			}
		})
	}
}
