package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipetree/azureml/pkg/config"
)

// ErrConfigExists is returned when the target config file already exists
var ErrConfigExists = errors.New("config file already exists, use --force to overwrite")

//nolint:gochecknoglobals // Cobra commands are typically global
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a starter azureml.yaml configuration",
	Long: `Generates a starter configuration file. Values not passed as flags are
filled with placeholder defaults; the generated file always validates.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		values := config.TemplateValues{}

		flags := map[string]*string{
			"experiment-name": &values.ExperimentName,
			"workspace-name":  &values.WorkspaceName,
			"resource-group":  &values.ResourceGroup,
			"cluster-name":    &values.ClusterName,
			"storage-account": &values.StorageAccountName,
			"container":       &values.StorageContainer,
			"image":           &values.DockerImage,
		}

		for name, target := range flags {
			value, err := cmd.Flags().GetString(name)
			if err != nil {
				return err
			}

			*target = value
		}

		rendered, err := config.RenderTemplate(values)
		if err != nil {
			return err
		}

		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}

		if _, statErr := os.Stat(cfgFile); statErr == nil && !force {
			return fmt.Errorf("%w: %s", ErrConfigExists, cfgFile)
		}

		if err := os.WriteFile(cfgFile, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		logger.WithField("path", cfgFile).Info("Wrote starter configuration")

		return nil
	},
}

func init() {
	initCmd.Flags().String("experiment-name", "", "Azure ML experiment name")
	initCmd.Flags().String("workspace-name", "", "Azure ML workspace name")
	initCmd.Flags().String("resource-group", "", "Azure resource group")
	initCmd.Flags().String("cluster-name", "", "default compute cluster name")
	initCmd.Flags().String("storage-account", "", "storage account for temporary data")
	initCmd.Flags().String("container", "", "storage container for temporary data")
	initCmd.Flags().String("image", "", "docker image for pipeline execution")
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	rootCmd.AddCommand(initCmd)
}
