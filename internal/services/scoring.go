package services

import "github.com/mohidqx/cyberops-capture-the-flag/internal/models"

// DecayFunc computes the awarded points for a challenge given its base
// points, the number of correct solves recorded before this one, and
// the configured floor. Implementations must be deterministic and
// non-increasing in priorSolves, and must never return less than
// minimum (or more than base).
type DecayFunc func(basePoints, priorSolves, minimum int) int

// DefaultDecayStep is how many points a solve shaves off the award
// when decay is enabled and no other curve is plugged in.
const DefaultDecayStep = 50

// LinearDecay returns a curve that subtracts step points per prior
// solve, floored at the configured minimum.
func LinearDecay(step int) DecayFunc {
	return func(basePoints, priorSolves, minimum int) int {
		if minimum > basePoints {
			minimum = basePoints
		}
		value := basePoints - priorSolves*step
		if value < minimum {
			return minimum
		}
		return value
	}
}

// Decay is the active curve. Swappable pending a final decision on the
// product side; everything else only relies on the DecayFunc contract.
var Decay DecayFunc = LinearDecay(DefaultDecayStep)

// AwardPoints computes the points for a correct submission. priorSolves
// is the challenge's solve count before this submission is counted.
func AwardPoints(challenge *models.Challenge, settings *models.CompetitionSettings, priorSolves int) int {
	if settings == nil || !settings.DecayEnabled {
		return challenge.Points
	}
	return Decay(challenge.Points, priorSolves, settings.DecayMinimum)
}
