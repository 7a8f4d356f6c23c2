/*
* Block scrambling of grayscale intensity planes. A hex key is expanded into a
* schedule of rounds; each round partitions the image into square blocks and
* runs a reversible transform over every one of them.
 */
package encryption

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/dcrodman/imgscramble/internal/core/grid"
)

var (
	// ErrInvalidKey is returned for keys that contain non-hex characters, are
	// too short for the requested rounds, or when rounds is out of range.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidBlockSize is returned when a block size is zero or negative.
	ErrInvalidBlockSize = grid.ErrInvalidBlockSize
	// ErrDimensionMismatch is returned for grids or blocks of the wrong shape.
	ErrDimensionMismatch = grid.ErrDimensionMismatch
	// ErrUnscrambled is returned when every block of every round overlapped
	// the padding, so the output would be identical to the input.
	ErrUnscrambled = errors.New("grid is too small for any round to scramble")
)

// Options configures an ImageCrypt.
type Options struct {
	// Key is the hex string the round schedule is derived from.
	Key string
	// Permute enables the substitution stage after diffusion.
	Permute bool
	// Rounds is the number of rounds of each stage, 1 through MaxRounds.
	Rounds int
	// Workers bounds the number of blocks transformed concurrently. Zero uses
	// one worker per CPU.
	Workers int
	// Logger receives per-round debug output and warnings about blocks left
	// unscrambled. Nil discards it.
	Logger logrus.FieldLogger
}

// ImageCrypt scrambles and unscrambles grids with a fixed key schedule.
type ImageCrypt struct {
	key          Key
	permute      bool
	workers      int
	diffusion    []blockTransform
	substitution []blockTransform
	log          logrus.FieldLogger
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// New derives the round schedule for opts and returns an ImageCrypt ready to
// process grids. Key problems are reported here rather than on first use.
func New(opts Options) (*ImageCrypt, error) {
	key, err := ParseKey(opts.Key)
	if err != nil {
		return nil, err
	}

	crypt := &ImageCrypt{
		key:     key,
		permute: opts.Permute,
		workers: opts.Workers,
		log:     opts.Logger,
	}
	if crypt.workers <= 0 {
		crypt.workers = runtime.NumCPU()
	}
	if crypt.log == nil {
		crypt.log = discardLogger()
	}

	diffusion, err := DiffusionSchedule(key, opts.Rounds)
	if err != nil {
		return nil, err
	}
	for _, r := range diffusion {
		crypt.diffusion = append(crypt.diffusion, diffusionRound{r})
	}

	if opts.Permute {
		substitution, err := SubstitutionSchedule(key, opts.Rounds)
		if err != nil {
			return nil, err
		}
		for _, r := range substitution {
			crypt.substitution = append(crypt.substitution, substitutionRound{r})
		}
	}

	crypt.log.WithField("key", key.Fingerprint()).Tracef("derived schedule:\n%s",
		spew.Sdump(crypt.diffusion, crypt.substitution))
	return crypt, nil
}

// Rounds returns the number of rounds in each stage.
func (crypt *ImageCrypt) Rounds() int { return len(crypt.diffusion) }

// Permute reports whether the substitution stage is enabled.
func (crypt *ImageCrypt) Permute() bool { return crypt.permute }

// Fingerprint identifies the key in use without exposing it.
func (crypt *ImageCrypt) Fingerprint() string { return crypt.key.Fingerprint() }

// Encrypt runs the diffusion rounds in ascending order followed, when
// enabled, by the substitution rounds in ascending order. The input grid is
// not modified. Blocks overlapping the padding sit out diffusion; if that
// leaves nothing scrambled at all, ErrUnscrambled is returned instead of a
// copy of the input.
func (crypt *ImageCrypt) Encrypt(ctx context.Context, g grid.Grid) (grid.Grid, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	out := g.Clone()
	if out.Rows() == 0 || out.Cols() == 0 {
		return out, nil
	}

	var err error
	var n, transformed int
	for i, t := range crypt.diffusion {
		if out, n, err = crypt.run(ctx, "diffusion", i, out, t, t.encrypt); err != nil {
			return nil, err
		}
		transformed += n
	}
	for i, t := range crypt.substitution {
		if out, n, err = crypt.run(ctx, "substitution", i, out, t, t.encrypt); err != nil {
			return nil, err
		}
		transformed += n
	}
	if transformed == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnscrambled, g.Rows(), g.Cols())
	}
	return out, nil
}

// Decrypt undoes Encrypt by peeling the layers off in reverse: substitution
// rounds in descending order, then diffusion rounds in descending order.
func (crypt *ImageCrypt) Decrypt(ctx context.Context, g grid.Grid) (grid.Grid, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	out := g.Clone()
	if out.Rows() == 0 || out.Cols() == 0 {
		return out, nil
	}

	var err error
	var n, transformed int
	for i := len(crypt.substitution) - 1; i >= 0; i-- {
		t := crypt.substitution[i]
		if out, n, err = crypt.run(ctx, "substitution", i, out, t, t.decrypt); err != nil {
			return nil, err
		}
		transformed += n
	}
	for i := len(crypt.diffusion) - 1; i >= 0; i-- {
		t := crypt.diffusion[i]
		if out, n, err = crypt.run(ctx, "diffusion", i, out, t, t.decrypt); err != nil {
			return nil, err
		}
		transformed += n
	}
	if transformed == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnscrambled, g.Rows(), g.Cols())
	}
	return out, nil
}

// run applies one round to g and returns the number of blocks that went
// through the transform.
func (crypt *ImageCrypt) run(
	ctx context.Context,
	stage string,
	round int,
	g grid.Grid,
	t blockTransform,
	fn blockFunc,
) (grid.Grid, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	log := crypt.log.WithFields(logrus.Fields{
		"stage":      stage,
		"round":      round + 1,
		"block_size": t.blockSize(),
	})
	log.Debug("applying round")

	out, stats, err := applyRound(g, t, crypt.workers, fn)
	if err != nil {
		return nil, 0, fmt.Errorf("%s round %d: %w", stage, round+1, err)
	}
	if stats.Skipped > 0 {
		log.WithFields(logrus.Fields{
			"skipped": stats.Skipped,
			"total":   stats.Total,
		}).Warnf("%d of %d blocks overlap the padding and were left unscrambled", stats.Skipped, stats.Total)
	}
	return out, stats.Transformed(), nil
}
