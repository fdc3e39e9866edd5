// Command sgbench times SgMap against google/btree over an insert-then-
// get workload of N sequential integer keys, printing both durations.
// Grounded on seipan-bplus/cmd/btree/root.go's create-then-measure shape
// (MeasurerDMP/MeasurerBtree), adapted to a single-file cobra command
// since this repo has only one CLI entry point rather than a nested
// cmd package.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/btree"
	"github.com/spf13/cobra"

	"github.com/tnballo/scapegoat"
)

var rootCmd = &cobra.Command{
	Use:   "sgbench",
	Short: "Time SgMap against google/btree over an insert+get workload",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := cmd.Flags().GetInt("n")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("sgbench: N=%d\n", n)

		sgInsert := measure(n, insertSgMap)
		fmt.Printf("SgMap insert:  %s\n", sgInsert)
		sgGet := measure(n, getSgMap)
		fmt.Printf("SgMap get:     %s\n", sgGet)

		btInsert := measure(n, insertBTree)
		fmt.Printf("btree insert:  %s\n", btInsert)
		btGet := measure(n, getBTree)
		fmt.Printf("btree get:     %s\n", btGet)
	},
}

func insertSgMap(n int) {
	m := scapegoat.NewMap[int, int, uint32](uint32(n))
	for i := 0; i < n; i++ {
		m.Insert(i, i)
	}
}

func getSgMap(n int) {
	m := scapegoat.NewMap[int, int, uint32](uint32(n))
	for i := 0; i < n; i++ {
		m.Insert(i, i)
	}
	for i := 0; i < n; i++ {
		m.Get(i)
	}
}

func insertBTree(n int) {
	tr := btree.NewOrderedG[int](32)
	for i := 0; i < n; i++ {
		tr.ReplaceOrInsert(i)
	}
}

func getBTree(n int) {
	tr := btree.NewOrderedG[int](32)
	for i := 0; i < n; i++ {
		tr.ReplaceOrInsert(i)
	}
	for i := 0; i < n; i++ {
		tr.Get(i)
	}
}

func measure(n int, fn func(int)) time.Duration {
	start := time.Now()
	fn(n)
	return time.Since(start)
}

func init() {
	rootCmd.Flags().IntP("n", "n", 10000, "number of sequential integer keys")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
