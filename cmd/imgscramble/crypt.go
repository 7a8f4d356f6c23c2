package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dcrodman/imgscramble/internal/core/data"
	"github.com/dcrodman/imgscramble/internal/core/grid"
	"github.com/dcrodman/imgscramble/internal/core/imageio"
	"github.com/dcrodman/imgscramble/internal/encryption"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt [input] [output]",
	Short: "Scrambles an image with the configured key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrypt(cmd, data.Encrypt, args[0], args[1])
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [input] [output]",
	Short: "Restores an image scrambled with the same key, rounds and permute setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrypt(cmd, data.Decrypt, args[0], args[1])
	},
}

func runCrypt(cmd *cobra.Command, op data.Operation, inPath, outPath string) error {
	a, err := setUp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := a.cfg.CryptOptions()
	opts.Logger = a.log
	crypt, err := encryption.New(opts)
	if err != nil {
		return errors.Wrap(err, "unable to derive key schedule")
	}

	src, err := imageio.Load(inPath)
	if err != nil {
		return err
	}
	log := a.log.WithFields(logrus.Fields{
		"op":      op,
		"input":   inPath,
		"width":   src.Cols(),
		"height":  src.Rows(),
		"rounds":  crypt.Rounds(),
		"permute": crypt.Permute(),
		"key":     crypt.Fingerprint(),
	})
	log.Info("starting")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	var out grid.Grid
	switch op {
	case data.Encrypt:
		out, err = crypt.Encrypt(ctx, src)
	case data.Decrypt:
		out, err = crypt.Decrypt(ctx, src)
	}
	if err != nil {
		return errors.Wrap(err, "unable to "+string(op)+" "+inPath)
	}
	elapsed := time.Since(start)

	if err := imageio.Save(outPath, out); err != nil {
		return err
	}
	log.WithField("elapsed", elapsed).Info("finished")

	if a.db != nil {
		job := &data.Job{
			Operation:      op,
			InputPath:      inPath,
			OutputPath:     outPath,
			KeyFingerprint: crypt.Fingerprint(),
			Rounds:         crypt.Rounds(),
			Permute:        crypt.Permute(),
			Width:          src.Cols(),
			Height:         src.Rows(),
		}
		if err := data.CreateJob(a.db, job); err != nil {
			log.Warnf("unable to record job in ledger: %v", err)
		}
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(cmd.OutOrStdout(), "%sed %s → %s (%d×%d, %d pixels) in %v\n",
		cases.Title(language.English).String(string(op)),
		inPath, outPath, src.Cols(), src.Rows(), src.Cols()*src.Rows(), elapsed.Round(time.Millisecond))
	return nil
}
