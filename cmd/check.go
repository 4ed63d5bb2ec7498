package cmd

import (
	"fmt"

	"github.com/bacalhau-project/convergence/pkg/providers/common"
	"github.com/spf13/cobra"
)

func GetCheckCmd() *cobra.Command {
	t := &targetFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify provider credentials",
		Long:  `Make one authenticated call to the provider and print the identity it reports.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, driver, cleanup, err := t.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			verifier, ok := driver.(common.Verifier)
			if !ok {
				return fmt.Errorf("%s driver cannot verify credentials", driver.Name())
			}
			identity, err := verifier.Verify(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s credentials check failed: %w", driver.Name(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: authenticated as %s\n", driver.Name(), identity)
			return nil
		},
	}
	t.register(cmd, false)
	return cmd
}
