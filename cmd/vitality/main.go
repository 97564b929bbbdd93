// Package main provides the vitality CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vitality",
		Short: "Health rules engine for VitalityPact partners",
		Long: `Vitality scores a day of steps, sleep and exercise, grows your partner
character from it, tracks the trend across recent days and manages which
characters you have unlocked.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.register(rootCmd)

	rootCmd.AddCommand(
		newScoreCmd(g),
		newRecordCmd(g),
		newHistoryCmd(g),
		newPartnerCmd(g),
		newCharactersCmd(g),
		newSettingsCmd(g),
		newChatCmd(g),
	)
	return rootCmd
}
