package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dcrodman/imgscramble/internal/encryption"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Prints the round parameters derived from the configured key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setUp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		key, err := encryption.ParseKey(a.cfg.Key)
		if err != nil {
			return err
		}
		return printSchedule(cmd.OutOrStdout(), key, a.cfg.Rounds, a.cfg.Permute)
	},
}

func printSchedule(w io.Writer, key encryption.Key, rounds int, permute bool) error {
	diffusion, err := encryption.DiffusionSchedule(key, rounds)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "key %s\n\n", key.Fingerprint())
	fmt.Fprintln(w, "diffusion")
	fmt.Fprintf(w, "%5s %6s %4s %4s\n", "round", "block", "x", "y")
	for i, r := range diffusion {
		fmt.Fprintf(w, "%5d %6d %4d %4d\n", i+1, r.BlockSize, r.X, r.Y)
	}

	if !permute {
		return nil
	}
	substitution, err := encryption.SubstitutionSchedule(key, rounds)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nsubstitution")
	fmt.Fprintf(w, "%5s %6s\n", "round", "block")
	for i, r := range substitution {
		fmt.Fprintf(w, "%5d %6d\n", i+1, r.BlockSize)
	}
	return nil
}
