package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipetree/azureml/pkg/config"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and print the resolved resource table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Workspace:  %s (resource group %s)\n", cfg.Azure.WorkspaceName, cfg.Azure.ResourceGroup)
		fmt.Fprintf(out, "Experiment: %s\n", cfg.Azure.ExperimentName)
		fmt.Fprintf(out, "Image:      %s\n", cfg.Docker.Image)
		fmt.Fprintf(out, "Storage:    %s/%s\n", cfg.Azure.TemporaryStorage.AccountName, cfg.Azure.TemporaryStorage.Container)

		fmt.Fprintf(out, "\nResource roles:\n")
		fmt.Fprintf(out, "  %-20s %s\n", config.DefaultKey, cfg.Azure.Resources.Default().ClusterName)

		for _, role := range cfg.Azure.Resources.Roles() {
			fmt.Fprintf(out, "  %-20s %s\n", role, cfg.Azure.Resources.Resolve(role).ClusterName)
		}

		fmt.Fprintf(out, "\nConfiguration is valid.\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
