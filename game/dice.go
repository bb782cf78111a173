package game

import (
	"sort"

	"golang.org/x/exp/rand"
)

// RollDice draws num faces in 1..sides from r, sorted highest first.
func RollDice(r *rand.Rand, num, sides int) []int {
	rolls := make([]int, num)
	for i := 0; i < num; i++ {
		rolls[i] = r.Intn(sides) + 1
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rolls)))
	return rolls
}
