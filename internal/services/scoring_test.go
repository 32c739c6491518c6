package services

import (
	"testing"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLinearDecay(t *testing.T) {
	decay := LinearDecay(50)

	t.Run("first solver gets full points", func(t *testing.T) {
		assert.Equal(t, 500, decay(500, 0, 100))
	})

	t.Run("each prior solve shaves one step", func(t *testing.T) {
		assert.Equal(t, 450, decay(500, 1, 100))
		assert.Equal(t, 400, decay(500, 2, 100))
	})

	t.Run("ninth solver lands on the floor", func(t *testing.T) {
		assert.Equal(t, 100, decay(500, 8, 100))
	})

	t.Run("never below the floor", func(t *testing.T) {
		assert.Equal(t, 100, decay(500, 100, 100))
	})

	t.Run("floor above base is capped at base", func(t *testing.T) {
		assert.Equal(t, 50, decay(50, 0, 100))
		assert.Equal(t, 50, decay(50, 10, 100))
	})

	t.Run("non-increasing in prior solves", func(t *testing.T) {
		prev := decay(500, 0, 100)
		for prior := 1; prior <= 20; prior++ {
			cur := decay(500, prior, 100)
			assert.LessOrEqual(t, cur, prev, "prior=%d", prior)
			prev = cur
		}
	})
}

func TestAwardPoints(t *testing.T) {
	challenge := &models.Challenge{Points: 500}

	t.Run("decay disabled awards base points", func(t *testing.T) {
		settings := &models.CompetitionSettings{DecayEnabled: false}
		assert.Equal(t, 500, AwardPoints(challenge, settings, 42))
	})

	t.Run("nil settings awards base points", func(t *testing.T) {
		assert.Equal(t, 500, AwardPoints(challenge, nil, 3))
	})

	t.Run("decay enabled applies the active curve", func(t *testing.T) {
		settings := &models.CompetitionSettings{DecayEnabled: true, DecayMinimum: 100}
		assert.Equal(t, 500, AwardPoints(challenge, settings, 0))
		assert.Equal(t, 100, AwardPoints(challenge, settings, 8))
	})
}
