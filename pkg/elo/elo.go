package elo

import "math"

const (
	DefaultRating = 1200
	DefaultK      = 32
)

// Expected returns the expected score of a side rated rating against opponent.
func Expected(rating, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-rating)/400))
}

func TeamAverage(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// Adjust applies a match result using the team average method: both teams are rated by
// the average of their players and every player moves by the same team delta.
func Adjust(winners, losers []int, k int) (newWinners, newLosers []int) {
	newWinners = make([]int, len(winners))
	newLosers = make([]int, len(losers))
	copy(newWinners, winners)
	copy(newLosers, losers)
	if len(winners) == 0 || len(losers) == 0 {
		return
	}
	winnerAvg := TeamAverage(winners)
	loserAvg := TeamAverage(losers)
	expectedWin := Expected(winnerAvg, loserAvg)
	expectedLoss := 1 - expectedWin
	for i, old := range winners {
		newWinners[i] = int(math.RoundToEven(float64(old) + float64(k)*(1-expectedWin)))
	}
	for i, old := range losers {
		newLosers[i] = int(math.RoundToEven(float64(old) + float64(k)*(0-expectedLoss)))
	}
	return
}
