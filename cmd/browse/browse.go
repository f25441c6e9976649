package browse

import (
	"context"
	"fmt"

	"canvas-portal/cmd/root"
	"canvas-portal/internal/catalog"
	"canvas-portal/internal/config"
	"canvas-portal/internal/logger"
	"canvas-portal/internal/rpc"
	"canvas-portal/internal/tui"

	"github.com/spf13/cobra"
)

var optTemplate string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive catalog browser",
	Long:  `Full screen browser over the package catalog or a flattened template`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := browse(context.Background()); err != nil {
			logger.Errorf("Browse failed: %v", err)
			fmt.Println(err)
		}
	},
}

/**
 * Start the terminal browser
 * @param {context.Context} ctx - Used for the template lookup only
 * @returns {error} Template lookup or terminal error
 * @description
 * - Without --template the remote package listing is paged as configured
 * - With --template the flattened package list is paged locally
 */
func browse(ctx context.Context) error {
	cfg := config.App()
	transport := rpc.NewHTTPClient(nil)
	defer transport.Close()
	client := catalog.NewClient(transport)
	opts := catalog.OptionsFromConfig(cfg.Catalog)

	if optTemplate == "" {
		return tui.Run(catalog.NewBrowser(client, opts), cfg.Catalog.BaseUrl)
	}

	id, err := client.TemplateID(ctx, optTemplate, cfg.Template.DefaultUser)
	if err != nil {
		return err
	}
	tpl, err := client.LoadFlattened(ctx, id)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s:%s (%d)", tpl.User, tpl.Name, tpl.ID)
	return tui.Run(catalog.NewLocalBrowser(tpl.Packages, opts), title)
}

func init() {
	root.RootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&optTemplate, "template", "t", "", "Browse a flattened template (id, name or user:name)")
	browseCmd.Example = `  canvas browse
  canvas browse --template firnsy:desktop`
}
