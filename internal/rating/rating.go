// Package rating computes the single-number performance rating shown next to
// series aggregates.
package rating

// Weights of the three rating components. Existing displays depend on these
// exact values.
const (
	KillWeight          = 0.0073
	KillDeathWeight     = 0.3591
	KillsPerRoundWeight = 0.5329
)

// Compute returns
//
//	0.0073*kills + 0.3591*kd + 0.5329*(kills/rounds)
//
// where kd is kills/deaths, or kills when deaths is zero. With no rounds played
// the per-round basis is undefined and the rating is 0.
func Compute(kills, deaths, roundsPlayed int) float64 {
	if roundsPlayed <= 0 {
		return 0
	}
	if kills < 0 {
		kills = 0
	}

	k := float64(kills)
	kd := k
	if deaths > 0 {
		kd = k / float64(deaths)
	}
	kpr := k / float64(roundsPlayed)

	return KillWeight*k + KillDeathWeight*kd + KillsPerRoundWeight*kpr
}
