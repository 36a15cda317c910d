package knapsack_test

import (
	"fmt"

	"github.com/matzehuels/knapsack/pkg/knapsack"
)

func ExampleBranchAndBound_Solve() {
	items := []knapsack.Item{
		{ID: 1, Weight: 2, Value: 3},
		{ID: 2, Weight: 3, Value: 4},
		{ID: 3, Weight: 4, Value: 5},
		{ID: 4, Weight: 5, Value: 6},
	}
	sol, err := knapsack.BranchAndBound{}.Solve(items, 5)
	if err != nil {
		panic(err)
	}
	fmt.Println(sol.TotalValue, sol.IDs())
	// Output: 7 [1 2]
}

func ExampleNew() {
	items := []knapsack.Item{
		{ID: 1, Weight: 5, Value: 10},
		{ID: 2, Weight: 4, Value: 40},
		{ID: 3, Weight: 6, Value: 30},
		{ID: 4, Weight: 3, Value: 50},
	}
	for _, name := range knapsack.Algorithms() {
		s, err := knapsack.New(name)
		if err != nil {
			panic(err)
		}
		sol, _ := s.Solve(items, 10)
		fmt.Printf("%-10s %v %v\n", s.Name(), sol.TotalValue, sol.IDs())
	}
	// Output:
	// bruteforce 90 [2 4]
	// greedy     90 [2 4]
	// dp         90 [2 4]
	// bnb        90 [2 4]
}

func ExampleDynamicProgramming_Discretize() {
	dp := knapsack.DynamicProgramming{Scale: 100}
	top, answer, size := dp.Discretize(12.34)
	fmt.Println(top, answer, size)
	// Output: 1234 1234 1435
}
