// internal/pipeline/filter-plans/handler_test.go
package filterplans

import (
	"context"
	"testing"

	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(logger.NewTestLogger(t))
}

func testPlans() []models.Plan {
	return []models.Plan{
		{Name: "Saver 239", Price: float64(239), Data: "1GB/day", Validity: "28 days"},
		{Name: "Value 399", Price: float64(399), Data: "1.5GB/day", Validity: "28 days", Benefits: "Netflix Basic"},
		{Name: "Premium 699", Price: float64(699), Data: "2GB/day", Validity: "28 days", Benefits: "Netflix, International Roaming"},
		{Name: "Quarterly 999", Price: float64(999), Data: "2GB/day", Validity: "84 days"},
	}
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func TestHandler_Execute_DurationAndBudget(t *testing.T) {
	handler := createTestHandler(t)

	out, err := handler.Execute(context.Background(), &Input{
		Plans: testPlans(),
		Context: models.QueryContext{
			TargetDuration: intPtr(28),
			Budget:         intPtr(500),
		},
		QueryText: "28 day plans under 500",
	})
	require.NoError(t, err)

	require.Len(t, out.Plans, 2)
	assert.Equal(t, "Saver 239", out.Plans[0].Name)
	assert.Equal(t, "Value 399", out.Plans[1].Name)
}

func TestHandler_Execute_EmptyDurationBudgetSkipsLaterStages(t *testing.T) {
	handler := createTestHandler(t)

	// No plan lasts 56 days; the feature stage must not short-circuit because
	// the similarity fallback owns this case.
	out, err := handler.Execute(context.Background(), &Input{
		Plans: testPlans(),
		Context: models.QueryContext{
			TargetDuration:    intPtr(56),
			RequestedFeatures: []string{"netflix"},
		},
		QueryText: "2 months plans with netflix",
	})
	require.NoError(t, err)

	assert.Empty(t, out.Plans)
	assert.False(t, out.FeatureShortCircuit)
	assert.False(t, out.InternationalShortCircuit)
}

func TestHandler_Execute_FeatureFilter(t *testing.T) {
	handler := createTestHandler(t)

	t.Run("all requested features must be present", func(t *testing.T) {
		out, err := handler.Execute(context.Background(), &Input{
			Plans: testPlans(),
			Context: models.QueryContext{
				RequestedFeatures: []string{"netflix"},
			},
			QueryText: "plans with netflix",
		})
		require.NoError(t, err)

		require.Len(t, out.Plans, 2)
		assert.Equal(t, "Value 399", out.Plans[0].Name)
		assert.Equal(t, "Premium 699", out.Plans[1].Name)
	})

	t.Run("availability split on empty result", func(t *testing.T) {
		out, err := handler.Execute(context.Background(), &Input{
			Plans: testPlans(),
			Context: models.QueryContext{
				RequestedFeatures: []string{"netflix", "amazon prime"},
			},
			QueryText: "plans with netflix and amazon prime",
		})
		require.NoError(t, err)

		assert.True(t, out.FeatureShortCircuit)
		assert.Empty(t, out.Plans)
		assert.Equal(t, []string{"netflix"}, out.AvailableFeatures)
		assert.Equal(t, []string{"amazon prime"}, out.UnavailableFeatures)
	})
}

func TestHandler_Execute_International(t *testing.T) {
	handler := createTestHandler(t)

	t.Run("keeps plans with roaming markers", func(t *testing.T) {
		out, err := handler.Execute(context.Background(), &Input{
			Plans:     testPlans(),
			Context:   models.QueryContext{},
			QueryText: "plans for international travel",
		})
		require.NoError(t, err)

		require.Len(t, out.Plans, 1)
		assert.Equal(t, "Premium 699", out.Plans[0].Name)
	})

	t.Run("short-circuits when no plan qualifies", func(t *testing.T) {
		plans := []models.Plan{
			{Name: "Local 199", Price: float64(199), Data: "1GB/day", Validity: "24 days"},
		}
		out, err := handler.Execute(context.Background(), &Input{
			Plans:     plans,
			Context:   models.QueryContext{},
			QueryText: "international plans",
		})
		require.NoError(t, err)

		assert.True(t, out.InternationalShortCircuit)
		assert.Empty(t, out.Plans)
	})
}

func TestHandler_Execute_VoiceOnly(t *testing.T) {
	handler := createTestHandler(t)

	t.Run("keeps zero-data calling plans", func(t *testing.T) {
		plans := append(testPlans(),
			models.Plan{Name: "Talktime 99", Price: float64(99), Data: "0GB", Validity: "28 days", Benefits: "Unlimited calls"})

		out, err := handler.Execute(context.Background(), &Input{
			Plans:     plans,
			Context:   models.QueryContext{IsVoiceOnly: true},
			QueryText: "voice only plans",
		})
		require.NoError(t, err)

		require.Len(t, out.Plans, 1)
		assert.Equal(t, "Talktime 99", out.Plans[0].Name)
	})

	t.Run("relaxes instead of returning empty", func(t *testing.T) {
		out, err := handler.Execute(context.Background(), &Input{
			Plans:     testPlans(),
			Context:   models.QueryContext{IsVoiceOnly: true},
			QueryText: "voice only plans",
		})
		require.NoError(t, err)

		assert.True(t, out.VoiceOnlyRelaxed)
		assert.Len(t, out.Plans, len(testPlans()))
	})
}

func TestHandler_Execute_MinDailyData(t *testing.T) {
	handler := createTestHandler(t)

	plans := []models.Plan{
		{Name: "Light 149", Price: float64(149), Data: "28GB", Validity: "28 days"},   // 1 GB/day
		{Name: "Heavy 299", Price: float64(299), Data: "56GB", Validity: "28 days"},   // 2 GB/day
		{Name: "Unlimited 499", Price: float64(499), Data: "Unlimited", Validity: "28 days"},
		{Name: "Vague 199", Price: float64(199), Data: "10GB", Validity: "base plan"}, // validity floors to 1 day
		{Name: "Opaque 99", Price: float64(99), Data: "talktime only", Validity: "28 days"},
	}

	out, err := handler.Execute(context.Background(), &Input{
		Plans:     plans,
		Context:   models.QueryContext{MinDailyData: floatPtr(2.0)},
		QueryText: "plans with 2gb per day",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Heavy 299", "Unlimited 499", "Vague 199"}, names(out.Plans))
}

func names(plans []models.Plan) []string {
	out := make([]string, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.Name)
	}
	return out
}
