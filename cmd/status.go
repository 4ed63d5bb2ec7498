package cmd

import (
	"errors"
	"fmt"

	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/table"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

func GetStatusCmd() *cobra.Command {
	t := &targetFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "status [ID...]",
		Short: "Show the portable status of resources",
		Long: `Fetch each resource once and print its provider-independent status.
Missing resources are reported rather than treated as errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputTable && output != outputYAML {
				return fmt.Errorf("unsupported output %q (use %s or %s)", output, outputTable, outputYAML)
			}
			ids, err := t.resourceIDs(args)
			if err != nil {
				return err
			}
			_, driver, cleanup, err := t.open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			rows := make([]table.StatusRow, 0, len(ids))
			for _, id := range ids {
				status, err := driver.Status(cmd.Context(), id)
				row := table.StatusRow{Provider: driver.Name(), ID: id, Status: status}
				switch {
				case err == nil:
				case errors.Is(err, poller.ErrNotFound) || driver.Classify(err) == poller.ClassNotFound:
					row.Status = models.NodeStatusUnrecognized
					row.Detail = "not found"
				default:
					row.Status = models.NodeStatusUnrecognized
					row.Detail = err.Error()
				}
				rows = append(rows, row)
			}

			if output == outputYAML {
				out, err := yaml.Marshal(rows)
				if err != nil {
					return fmt.Errorf("failed to marshal status: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			st := table.NewStatusTable(cmd.OutOrStdout())
			for _, row := range rows {
				st.Add(row)
			}
			st.Render()
			return nil
		},
	}

	t.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or yaml")
	return cmd
}
