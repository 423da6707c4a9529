package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildware/icdb"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <store> [map...]",
	Short: "Check chain framing of every entry",
	Long: `verify walks the given maps (default: all) and decodes the collision-chain
framing of every entry. The first corrupt record fails the command; a corrupt
map should be dropped and rebuilt by the owning build.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	s, err := icdb.OpenAny(args[0], icdb.Options{Logf: logf})
	if err != nil {
		return err
	}
	defer s.Close()

	names := args[1:]
	if len(names) == 0 {
		names = s.MapNames()
	}
	for _, name := range names {
		n, err := s.VerifyMap(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Printf("%s: %d entries ok\n", name, n)
	}
	return nil
}
