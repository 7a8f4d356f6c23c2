package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dcrodman/imgscramble/internal/encryption"
)

var KeySizeFlag int

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Prints a random hex key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := encryption.GenerateKey(KeySizeFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}
