package sampling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steam_reviews/internal/domain"
	"steam_reviews/internal/sampling"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, sampling.Median(nil))
	assert.Equal(t, 3.0, sampling.Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, sampling.Median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 7.5, sampling.MedianInt([]int{10, 5}))
}

func TestMedian_DoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	sampling.Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestStratumCounts(t *testing.T) {
	policy := domain.DefaultPolicy()
	in := []domain.Review{rev("a", 2, 0), rev("b", 19.9, 0), rev("c", 20, 0), rev("d", 5000, 0), rev("e", 1, 0)}

	counts := sampling.StratumCounts(in, policy.Strata)

	require.Len(t, counts, 4)
	assert.Equal(t, 2, counts[0].Count)
	assert.Equal(t, 1, counts[1].Count)
	assert.Equal(t, 0, counts[2].Count)
	assert.Equal(t, 1, counts[3].Count)
	require.NotNil(t, counts[0].MaxHours)
	assert.Equal(t, 20.0, *counts[0].MaxHours)
	assert.Nil(t, counts[3].MaxHours)
}

func TestMostHelpful(t *testing.T) {
	_, ok := sampling.MostHelpful(nil)
	assert.False(t, ok)

	best, ok := sampling.MostHelpful([]domain.Review{rev("a", 1, 3), rev("b", 1, 8), rev("c", 1, 8)})
	require.True(t, ok)
	assert.Equal(t, "b", best.ID)
}
