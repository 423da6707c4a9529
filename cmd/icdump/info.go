package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildware/icdb"
)

var infoCmd = &cobra.Command{
	Use:   "info <store>",
	Short: "Show store manifest and per-map entry counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := icdb.OpenAny(args[0], icdb.Options{Logf: logf})
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("store:        %s\n", args[0])
	fmt.Printf("portable:     %v\n", s.Portable())
	fmt.Printf("fullFidelity: %v\n", s.FullFidelityKeys())
	fmt.Printf("maps:         %d\n", len(s.MapNames()))
	for _, name := range s.MapNames() {
		n, err := s.VerifyMap(name)
		if err != nil {
			fmt.Printf("  %-24s CORRUPT: %v\n", name, err)
			continue
		}
		fmt.Printf("  %-24s %d entries\n", name, n)
	}
	return nil
}
