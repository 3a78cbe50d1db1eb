package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFreeEligible(t *testing.T) {
	// Eligible exactly when completed mod 10 == 9, for any non-negative count.
	for n := 0; n < 100; n++ {
		assert.Equal(t, n%10 == 9, IsFreeEligible(n, 10), "completed=%d", n)
	}
}

func TestCycleProgress(t *testing.T) {
	assert.Equal(t, 0, CycleProgress(0, 10))
	assert.Equal(t, 9, CycleProgress(9, 10))
	assert.Equal(t, 0, CycleProgress(10, 10))
	assert.Equal(t, 3, CycleProgress(23, 10))
}

func TestDefaultsGuardBadCycle(t *testing.T) {
	// A zero or negative cycle falls back to the standing 10-session offer.
	assert.Equal(t, 9, CycleProgress(19, 0))
	assert.True(t, IsFreeEligible(9, -1))
	assert.Equal(t, 0, CycleProgress(-5, 10))
}
