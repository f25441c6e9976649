package packages

import (
	"canvas-portal/cmd/root"
	"canvas-portal/internal/catalog"
	"canvas-portal/internal/config"
	"canvas-portal/internal/rpc"

	"github.com/spf13/cobra"
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Browse the remote package catalog (list/show)",
	Long:  `Browse the remote package catalog (list/show)`,
}

const packagesExample = `  # list the first catalog page
  canvas packages list
  canvas packages list --page 3 --filter bash
  canvas packages show 12 40 41`

// newClient connects to the configured catalog.
func newClient() (*catalog.Client, rpc.HTTPClient) {
	transport := rpc.NewHTTPClient(nil)
	return catalog.NewClient(transport), transport
}

func browserOptions() catalog.Options {
	return catalog.OptionsFromConfig(config.App().Catalog)
}

func init() {
	root.RootCmd.AddCommand(packagesCmd)

	packagesCmd.Example = packagesExample
}
