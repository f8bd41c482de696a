package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	env "github.com/rlworld/classic/environment"
	"github.com/rlworld/classic/environment/envconfig"
)

func describeCommand() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the action and observation specifications of environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := envconfig.EnvNames()
			if envName != "" {
				name, err := envconfig.ParseEnvName(envName)
				if err != nil {
					return err
				}
				names = []envconfig.EnvName{name}
			}

			specs := make([]env.EnvSpec, 0, len(names))
			for _, name := range names {
				spec, err := envconfig.NewConfig(name, 0, 0).Describe()
				if err != nil {
					return err
				}
				specs = append(specs, spec)
			}

			data, err := json.MarshalIndent(specs, "", "  ")
			if err != nil {
				return fmt.Errorf("describe: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVar(&envName, "env", "", "Environment to describe "+
		"(default all)")
	return cmd
}
