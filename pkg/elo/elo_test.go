package elo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpected(t *testing.T) {
	assert.InDelta(t, 0.5, Expected(1200, 1200), 1e-9)
	assert.InDelta(t, 0.909, Expected(1600, 1200), 1e-3)
	assert.InDelta(t, 1, Expected(1600, 1200)+Expected(1200, 1600), 1e-9)
}

func TestTeamAverage(t *testing.T) {
	assert.Equal(t, 0.0, TeamAverage(nil))
	assert.Equal(t, 1250.0, TeamAverage([]int{1200, 1300}))
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name        string
		winners     []int
		losers      []int
		k           int
		wantWinners []int
		wantLosers  []int
	}{
		{
			name:        "even teams",
			winners:     []int{1200, 1200},
			losers:      []int{1200, 1200},
			k:           DefaultK,
			wantWinners: []int{1216, 1216},
			wantLosers:  []int{1184, 1184},
		},
		{
			name:        "favourite wins",
			winners:     []int{1600},
			losers:      []int{1200},
			k:           DefaultK,
			wantWinners: []int{1603},
			wantLosers:  []int{1197},
		},
		{
			name:        "underdog wins",
			winners:     []int{1200},
			losers:      []int{1600},
			k:           DefaultK,
			wantWinners: []int{1229},
			wantLosers:  []int{1571},
		},
		{
			name:        "empty losers",
			winners:     []int{1200},
			losers:      nil,
			k:           DefaultK,
			wantWinners: []int{1200},
			wantLosers:  []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotWinners, gotLosers := Adjust(tt.winners, tt.losers, tt.k)
			assert.Equal(t, tt.wantWinners, gotWinners)
			assert.Equal(t, tt.wantLosers, gotLosers)
		})
	}
}

func TestAdjustDoesNotModifyInput(t *testing.T) {
	winners := []int{1300, 1100}
	losers := []int{1200, 1200}
	_, _ = Adjust(winners, losers, DefaultK)
	assert.Equal(t, []int{1300, 1100}, winners)
	assert.Equal(t, []int{1200, 1200}, losers)
}
