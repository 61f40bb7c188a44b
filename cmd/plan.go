package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipetree/azureml/pkg/config"
	"github.com/pipetree/azureml/pkg/pipeline"
	"github.com/pipetree/azureml/pkg/runner"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var planCmd = &cobra.Command{
	Use:   "plan <pipeline.yaml>",
	Short: "Resolve the execution plan for a pipeline without submitting it",
	Long: `Builds the dependency graph of the pipeline and prints the execution
waves with the compute cluster each node resolves to. Nothing is
submitted; use this to check resource role resolution before a run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		spec, err := pipeline.Load(args[0])
		if err != nil {
			return err
		}

		plan, err := runner.New(logger, cfg, nil).Plan(spec)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Pipeline %s (%d jobs):\n", spec.Name, len(plan))

		wave := -1
		for _, job := range plan {
			if job.Wave != wave {
				wave = job.Wave
				fmt.Fprintf(out, "Wave %d:\n", wave)
			}

			fmt.Fprintf(out, "  %-24s -> %s (%s)\n", job.Node, job.Cluster, job.Image)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
