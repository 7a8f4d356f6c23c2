package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dcrodman/imgscramble/internal/core/data"
	"github.com/dcrodman/imgscramble/internal/encryption"
)

var (
	LimitFlag      int
	CurrentKeyFlag bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists recorded encrypt and decrypt runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setUp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.db == nil {
			return errors.New("the ledger is disabled (database.engine is none)")
		}

		var jobs []data.Job
		if CurrentKeyFlag {
			key, err := encryption.ParseKey(a.cfg.Key)
			if err != nil {
				return err
			}
			jobs, err = data.JobsForKey(a.db, key.Fingerprint())
			if err != nil {
				return errors.Wrap(err, "unable to query ledger")
			}
		} else if jobs, err = data.RecentJobs(a.db, LimitFlag); err != nil {
			return errors.Wrap(err, "unable to query ledger")
		}
		printJobs(cmd.OutOrStdout(), jobs)
		return nil
	},
}

func printJobs(w io.Writer, jobs []data.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "no jobs recorded")
		return
	}
	for _, j := range jobs {
		fmt.Fprintf(w, "%s  %-7s  %s → %s  %dx%d  rounds=%d permute=%t  key=%s\n",
			j.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			j.Operation, j.InputPath, j.OutputPath, j.Width, j.Height,
			j.Rounds, j.Permute, j.KeyFingerprint)
	}
}
