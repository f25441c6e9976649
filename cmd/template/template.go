package template

import (
	"context"
	"fmt"

	"canvas-portal/cmd/root"
	"canvas-portal/internal/catalog"
	"canvas-portal/internal/config"
	"canvas-portal/internal/rpc"
	"canvas-portal/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Template operations (flatten)",
	Long:  `Template operations (flatten)`,
}

var (
	optFilter string
	optJSON   bool
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <id|name|user:name>",
	Short: "Print a template's packages merged with all of its includes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := flatten(context.Background(), args[0]); err != nil {
			fmt.Println(err)
		}
	},
}

type Entry_Columns struct {
	Name      string `json:"name"`
	EVR       string `json:"evr"`
	Arch      string `json:"arch"`
	Template  int64  `json:"template"`
	Inherited bool   `json:"inherited"`
}

/**
 * Resolve a template reference and print the flattened package list
 * @param {context.Context} ctx - Request context
 * @param {string} ref - Numeric id, name (owned by template.default_user) or user:name
 * @returns {error} Reference, lookup or request error
 */
func flatten(ctx context.Context, ref string) error {
	transport := rpc.NewHTTPClient(nil)
	defer transport.Close()
	client := catalog.NewClient(transport)

	id, err := client.TemplateID(ctx, ref, config.App().Template.DefaultUser)
	if err != nil {
		return err
	}
	tpl, err := client.LoadFlattened(ctx, id)
	if err != nil {
		return err
	}

	entries := catalog.Filter(tpl.Packages, optFilter)
	if optJSON {
		return utils.PrintJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No packages found")
		return nil
	}

	var dataList []*orderedmap.OrderedMap
	for _, e := range entries {
		row := Entry_Columns{
			Name:      e.Name,
			EVR:       e.EVR(),
			Arch:      e.Arch,
			Template:  e.Template,
			Inherited: catalog.IsInherited(e, tpl),
		}
		recordMap, _ := utils.StructToOrderedMap(row)
		dataList = append(dataList, recordMap)
	}
	utils.PrintFormat(dataList)
	fmt.Fprintf(utils.Output, "%s:%s (%d), %d packages\n", tpl.User, tpl.Name, tpl.ID, len(entries))
	return nil
}

func init() {
	root.RootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(flattenCmd)

	flattenCmd.Flags().StringVarP(&optFilter, "filter", "f", "", "Only print packages matching the filter")
	flattenCmd.Flags().BoolVar(&optJSON, "json", false, "Print entries as JSON")
	templateCmd.Example = `  canvas template flatten 12
  canvas template flatten firnsy:desktop --filter kde`
}
