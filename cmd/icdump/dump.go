package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildware/icdb"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <store> <map>",
	Short: "Hex-dump the raw entries of a map",
	Args:  cobra.ExactArgs(2),
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	s, err := icdb.OpenAny(args[0], icdb.Options{Logf: logf})
	if err != nil {
		return err
	}
	defer s.Close()

	return s.EachRaw(args[1], func(e icdb.RawEntry) error {
		fmt.Printf("%016x  k=%s  v=%s\n", e.Hash, hex.EncodeToString(e.Key), hex.EncodeToString(e.Value))
		return nil
	})
}
