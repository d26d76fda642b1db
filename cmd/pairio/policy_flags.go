package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/pairio/pkg/policy"
	"gitlab.com/tozd/go/errors"
)

// policyFlags maps command-line flags onto a policy value. A --config file,
// when given, takes precedence over the individual flags.
type policyFlags struct {
	ext        string
	inplace    bool
	noStdin    bool
	noStdout   bool
	noAutoFile bool
	noAutoDir  bool
}

func (f *policyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ext, "ext", "", "default extension for auto-named output files (without the dot)")
	cmd.Flags().BoolVar(&f.inplace, "inplace", false, "allow reading and writing the same directory")
	cmd.Flags().BoolVar(&f.noStdin, "no-stdin", false, "reject '-' as the source")
	cmd.Flags().BoolVar(&f.noStdout, "no-stdout", false, "reject '-' as the destination")
	cmd.Flags().BoolVar(&f.noAutoFile, "no-auto-file", false, "reject a missing destination for file sources")
	cmd.Flags().BoolVar(&f.noAutoDir, "no-auto-dir", false, "reject a missing destination for directory sources")
}

func (f *policyFlags) load(ctx context.Context) (policy.Policy, error) {
	if configFile != "" {
		pol, err := policy.Load(ctx, configFile)
		if err != nil {
			return policy.Policy{}, errors.Errorf("loading policy: %w", err)
		}
		return pol, nil
	}

	pol := policy.Default(f.ext)
	pol.AllowInplace = f.inplace
	pol.AllowFromStdin = !f.noStdin
	pol.AllowToStdout = !f.noStdout
	pol.AutoNameFile = !f.noAutoFile
	pol.AutoNameDir = !f.noAutoDir
	if err := policy.Validate(pol); err != nil {
		return policy.Policy{}, err
	}
	return pol, nil
}
