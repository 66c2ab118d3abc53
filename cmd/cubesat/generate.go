package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hartog/cubesat/internal/parsers"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <num_pigeons>",
		Short: "Generate a pigeonhole-principle DIMACS CNF instance to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			numPigeons, err := strconv.Atoi(args[0])
			if err != nil || numPigeons < 2 {
				return fmt.Errorf("num_pigeons must be an integer of at least 2, got %q", args[0])
			}
			return parsers.GeneratePigeonhole(os.Stdout, numPigeons-1)
		},
	}
}
