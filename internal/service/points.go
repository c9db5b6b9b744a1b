package service

import "math"

const (
	maxPoints = 300.0
	minPoints = 1.0
)

// PointsForPosition maps a 1-based position to its point value. Position 1 is
// worth 300, position maxRanked is worth 1, and everything in between falls on
// a straight line between the two. Positions outside [1, maxRanked] score 0.
//
// Rounding is half-away-from-zero (math.Round), so position 3 on a 200-demon
// list is round(300 - 2*299/199) = 297.
func PointsForPosition(position, maxRanked int) int {
	if position < 1 || maxRanked < 1 || position > maxRanked {
		return 0
	}
	if maxRanked == 1 {
		return int(maxPoints)
	}

	return int(math.Round(maxPoints - float64(position-1)*(maxPoints-minPoints)/float64(maxRanked-1)))
}
