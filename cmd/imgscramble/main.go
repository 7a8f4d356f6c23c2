// The imgscramble command scrambles grayscale images with a hex key and
// reverses the process. Every run is recorded in a small ledger database so
// that it is possible to look up which key and round count produced a file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dcrodman/imgscramble/internal/encryption"
)

var ConfigFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:          "imgscramble",
		Short:        "Key-driven block scrambling for grayscale images",
		SilenceUsage: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ConfigFlag, "config", "c", "./", "Path to the directory containing config.yaml")
	flags.StringP("key", "k", "", "Hex key used to derive the round schedule")
	flags.BoolP("permute", "p", false, "Enable the substitution stage")
	flags.IntP("rounds", "r", encryption.MaxRounds, "Number of rounds (1-8)")
	flags.IntP("workers", "w", 0, "Blocks transformed concurrently (0 = one per CPU)")

	keygenCmd.Flags().IntVarP(&KeySizeFlag, "size", "s", encryption.DefaultKeySize, "Number of hex digits in the key")
	historyCmd.Flags().IntVarP(&LimitFlag, "limit", "n", 20, "Maximum number of jobs to list (0 for all)")
	historyCmd.Flags().BoolVar(&CurrentKeyFlag, "current-key", false, "Only list jobs run with the configured key")

	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(historyCmd)

	// Ctrl-C stops between rounds instead of leaving a half written file.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "imgscramble error:", err)
		stop()
		os.Exit(1)
	}
}
