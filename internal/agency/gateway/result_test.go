package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture(t *testing.T) {
	t.Run("success is ok", func(t *testing.T) {
		r := Capture(SourceReviews, []int{1}, nil)
		assert.Equal(t, OutcomeOK, r.Outcome)

		v, err := r.Resolve(nil)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, v)
	})

	t.Run("not found resolves to fallback", func(t *testing.T) {
		r := Capture[[]int](SourceReviews, nil, NewError(ErrorNotFound, SourceReviews, "no reviews", nil))
		assert.Equal(t, OutcomeAbsent, r.Outcome)

		v, err := r.Resolve([]int{})
		require.NoError(t, err)
		assert.NotNil(t, v)
		assert.Empty(t, v)
	})

	t.Run("other failures surface the error", func(t *testing.T) {
		cause := NewError(ErrorOutage, SourceBookings, "down", nil)
		r := Capture[[]int](SourceBookings, nil, cause)
		assert.Equal(t, OutcomeFailed, r.Outcome)

		_, err := r.Resolve([]int{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("uncategorized error is a failure", func(t *testing.T) {
		r := Capture(SourceProfile, 0, errors.New("boom"))
		assert.Equal(t, OutcomeFailed, r.Outcome)
		assert.Equal(t, ErrorInternal, Category(r.Err))
	})
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "absent", OutcomeAbsent.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
