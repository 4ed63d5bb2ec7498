package cmd

import (
	"fmt"

	"github.com/bacalhau-project/convergence/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"
)

type profileView struct {
	MaxWait      string `json:"max_wait"`
	Period       string `json:"period"`
	InitialDelay string `json:"initial_delay"`
}

func GetProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "Print the effective poll profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			views := make(map[string]profileView, len(cfg.Profiles))
			for name, p := range cfg.Profiles {
				views[name] = profileView{
					MaxWait:      p.MaxWait.String(),
					Period:       p.Period.String(),
					InitialDelay: p.InitialDelay.String(),
				}
			}
			out, err := yaml.Marshal(map[string]any{"profiles": views})
			if err != nil {
				return fmt.Errorf("failed to marshal profiles: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
