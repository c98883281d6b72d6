package main

import (
	"github.com/spf13/cobra"
)

const defaultRegistryPath = "configs/activity-registry.json"

// newRootCmd wires the subcommands; every one of them shares --path.
func newRootCmd() *cobra.Command {
	var path string

	root := &cobra.Command{
		Use:   "registry-updater",
		Short: "Maintain the activity registry that lists every worker task type",
		Example: `  registry-updater add --id scale-body-model --display-name "Scale Body Model" \
    --description "Rescales a stored body model" --category body --task-type scale-body-model
  registry-updater update --id scale-body-model --field status --value completed
  registry-updater validate --path configs/activity-registry.json`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&path, "path", defaultRegistryPath, "Path to the registry file")

	registryPath := func() string { return path }
	root.AddCommand(
		newAddCmd(registryPath),
		newUpdateCmd(registryPath),
		newValidateCmd(registryPath),
		newListCmd(registryPath),
	)
	return root
}
