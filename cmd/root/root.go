package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "canvas",
	Short: "Korora Canvas community portal",
	Long:  `canvas serves the Canvas community portal and browses the remote package catalog from the command line`,
}
