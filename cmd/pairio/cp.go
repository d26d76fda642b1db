package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pairio/pkg/endpoint"
	"github.com/walteh/pairio/pkg/log"
	"github.com/walteh/pairio/pkg/policy"
	"github.com/walteh/pairio/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

// NewCpCmd creates the cp command
func NewCpCmd() *cobra.Command {
	flags := &policyFlags{}
	cmd := &cobra.Command{
		Use:   "cp SRC [DST]",
		Short: "Copy the source to the resolved destination, pair by pair",
		Long: `cp resolves SRC and the optional DST into concrete pairs and copies each
input to its output. A directory source produces one output file per regular
file in the directory. When DST is omitted, a time-based name is synthesized.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "cp").Logger().WithContext(ctx)

			pol, err := flags.load(ctx)
			if err != nil {
				return err
			}

			dst := ""
			if len(args) == 2 {
				dst = args[1]
			}
			return runCp(ctx, cpOptions{policy: pol, src: args[0], dst: dst})
		},
	}
	flags.register(cmd)
	return cmd
}

type cpOptions struct {
	policy  policy.Policy
	src     string
	dst     string
	console io.Writer // defaults to stderr so stdout stays clean for "-"
}

// runCp drains the pair stream, copying each input to its output and
// cleaning up after failed pairs.
func runCp(ctx context.Context, opts cpOptions) error {
	if opts.console == nil {
		opts.console = os.Stderr
	}
	consoleLogger := log.New(opts.console, zerolog.Ctx(ctx).GetLevel())

	pairs, err := resolve.Resolve(ctx, opts.policy, opts.src, opts.dst)
	if err != nil {
		if pe, ok := resolve.AsPolicy(err); ok {
			return errors.Errorf("refusing %q -> %q: %w", opts.src, opts.dst, pe)
		}
		return err
	}

	if err := pairs.CreateDestinationDir(); err != nil {
		return err
	}

	batch := pairs.IsBatch()
	if batch {
		consoleLogger.StartBatch(ctx, log.BatchOperation{
			Source:      opts.src,
			Destination: pairs.DestinationDir(),
			Total:       pairs.Len(),
		})
	}

	failed := 0
	total := 0
	for {
		pair, ok := pairs.Next()
		if !ok {
			break
		}
		total++
		op := processPair(ctx, pair)
		consoleLogger.LogPairOperation(ctx, op)
		if op.Failed {
			failed++
		}
	}

	if batch {
		consoleLogger.EndBatch(ctx)
	}

	if failed > 0 {
		return errors.Errorf("%d of %d pairs failed", failed, total)
	}
	return nil
}

// processPair copies one pair, removing an empty destination file when the
// copy fails so a dead output does not linger.
func processPair(ctx context.Context, pair resolve.Pair) log.PairOperation {
	op := log.PairOperation{Input: pair.Src.String(), Output: pair.Dst.String()}

	handles := handlesFor(pair)
	if err := copyPair(handles); err != nil {
		op.Failed = true
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("input", op.Input).
			Str("output", op.Output).
			Msg("processing pair")

		removed, cleanupErr := handles.RemoveIfEmpty()
		switch {
		case cleanupErr == nil:
			op.CleanedUp = removed
		case errors.Is(cleanupErr, endpoint.ErrUnsupported):
			// stream destination, nothing to clean up
		default:
			zerolog.Ctx(ctx).Warn().Err(cleanupErr).Str("output", op.Output).Msg("cleaning up destination")
		}
		handles.Close()
	}
	return op
}

// handlesFor builds the resource handles for one concrete pair.
func handlesFor(pair resolve.Pair) *endpoint.IO {
	var in endpoint.Input
	if pair.Src.Stdin {
		in = endpoint.NewStdinInput()
	} else {
		in = endpoint.NewFileInput(pair.Src.Path)
	}

	var out endpoint.Output
	if pair.Dst.Stdout {
		out = endpoint.NewStdoutOutput()
	} else {
		out = endpoint.NewFileOutput(pair.Dst.Path)
	}

	return endpoint.NewIO(in, out)
}

// copyPair streams the input into the output and flushes it. The destination
// file is only created here, on the first write.
func copyPair(handles *endpoint.IO) error {
	r, err := handles.Reader()
	if err != nil {
		return err
	}
	w, err := handles.Writer()
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		return errors.Errorf("copying: %w", err)
	}
	return handles.Close()
}
