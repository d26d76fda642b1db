package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pairio/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	flags := &policyFlags{}
	cmd := &cobra.Command{
		Use:   "plan SRC [DST]",
		Short: "Show the pairs that cp would process, without writing anything",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "plan").Logger().WithContext(ctx)

			pol, err := flags.load(ctx)
			if err != nil {
				return err
			}

			dst := ""
			if len(args) == 2 {
				dst = args[1]
			}

			pairs, err := resolve.Resolve(ctx, pol, args[0], dst)
			if err != nil {
				if pe, ok := resolve.AsPolicy(err); ok {
					return errors.Errorf("refusing %q -> %q: %w", args[0], dst, pe)
				}
				return err
			}

			userLogger := NewUserLogger(ctx)
			if pairs.NeedsDestinationDir() {
				userLogger.LogPlanDir(pairs.DestinationDir())
			}
			for {
				pair, ok := pairs.Next()
				if !ok {
					break
				}
				userLogger.LogPlanEntry(pair.Src.String(), pair.Dst.String())
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
