package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsForPosition(t *testing.T) {
	tests := []struct {
		name      string
		position  int
		maxRanked int
		want      int
	}{
		{name: "top of standard list", position: 1, maxRanked: 200, want: 300},
		{name: "bottom of standard list", position: 200, maxRanked: 200, want: 1},
		{name: "position 3 on standard list", position: 3, maxRanked: 200, want: 297},
		{name: "position 4 on standard list", position: 4, maxRanked: 200, want: 295},
		{name: "top of challenge list", position: 1, maxRanked: 100, want: 300},
		{name: "bottom of challenge list", position: 100, maxRanked: 100, want: 1},
		{name: "position 50 on challenge list", position: 50, maxRanked: 100, want: 152},
		{name: "below valid range", position: 0, maxRanked: 200, want: 0},
		{name: "negative position", position: -3, maxRanked: 200, want: 0},
		{name: "past the ranked cutoff", position: 201, maxRanked: 200, want: 0},
		{name: "single slot list", position: 1, maxRanked: 1, want: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointsForPosition(tt.position, tt.maxRanked))
		})
	}
}

func TestPointsForPositionMonotonic(t *testing.T) {
	// Moving down the list never gains points.
	prev := PointsForPosition(1, 200)
	for pos := 2; pos <= 200; pos++ {
		points := PointsForPosition(pos, 200)
		assert.LessOrEqual(t, points, prev, "position %d", pos)
		assert.Greater(t, points, 0, "position %d", pos)
		prev = points
	}
}
