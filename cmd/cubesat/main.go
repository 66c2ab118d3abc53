// Command cubesat solves DIMACS CNF instances with a parallel
// cube-and-conquer DPLL solver, and generates pigeonhole-principle CNF test
// instances.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.StandardLogger()

func main() {
	rootCmd := &cobra.Command{
		Use:   "cubesat",
		Short: "A parallel cube-and-conquer DPLL SAT solver",
	}
	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newGenerateCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
