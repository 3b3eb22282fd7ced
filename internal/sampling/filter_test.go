package sampling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"steam_reviews/internal/domain"
	"steam_reviews/internal/sampling"
)

func TestFilter_DropsShortTextAndLowPlaytime(t *testing.T) {
	in := []domain.Review{
		rev("ok", 5, 1),
		rev("low-hours", 1.5, 10),
		{ID: "short", Text: "   too short   ", HoursPlayed: 50},
		rev("edge", 2, 0),
	}

	out := sampling.Filter(in, 2, 100)

	assert.Equal(t, []string{"ok", "edge"}, ids(out))
}

func TestFilter_CountsRunesNotBytes(t *testing.T) {
	text := ""
	for i := 0; i < 100; i++ {
		text += "ж"
	}
	out := sampling.Filter([]domain.Review{{ID: "ru", Text: text, HoursPlayed: 3}}, 2, 100)
	assert.Len(t, out, 1)
}

func TestSortByHelpfulness_StableAndCopy(t *testing.T) {
	in := []domain.Review{rev("a", 1, 5), rev("b", 1, 9), rev("c", 1, 5)}

	out := sampling.SortByHelpfulness(in)

	assert.Equal(t, []string{"b", "a", "c"}, ids(out))
	assert.Equal(t, []string{"a", "b", "c"}, ids(in), "input must not be reordered")
}
