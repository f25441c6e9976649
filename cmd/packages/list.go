package packages

import (
	"context"
	"fmt"

	"canvas-portal/internal/catalog"
	"canvas-portal/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var (
	optPage   int
	optFilter string
	optJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of the package catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listPackages(context.Background()); err != nil {
			fmt.Println(err)
		}
	},
}

/**
 *	Fields displayed in list format
 */
type Package_Columns struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	EVR     string `json:"evr"`
	Arch    string `json:"arch"`
	Pinned  bool   `json:"pinned"`
	Exclude bool   `json:"exclude"`
}

/**
 * List a catalog page
 * @param {context.Context} ctx - Request context
 * @returns {error} Returns error if the catalog cannot be reached
 * @description
 * - Loads the first page, then jumps to --page
 * - --filter narrows the loaded page
 */
func listPackages(ctx context.Context) error {
	client, transport := newClient()
	defer transport.Close()

	b := catalog.NewBrowser(client, browserOptions())
	if err := b.Load(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if optPage > 0 {
		if err := b.GoTo(ctx, optPage); err != nil {
			return fmt.Errorf("load page %d: %w", optPage, err)
		}
	}
	b.SetFilter(optFilter)

	view := b.View()
	if optJSON {
		return utils.PrintJSON(view)
	}
	if len(view.Entries) == 0 {
		fmt.Println("No packages found")
		return nil
	}

	var dataList []*orderedmap.OrderedMap
	for _, e := range view.Entries {
		row := Package_Columns{
			ID:      e.ID,
			Name:    e.Name,
			EVR:     e.EVR(),
			Arch:    e.Arch,
			Pinned:  e.IsPinned(),
			Exclude: e.IsExcluded(),
		}
		recordMap, _ := utils.StructToOrderedMap(row)
		dataList = append(dataList, recordMap)
	}
	utils.PrintFormat(dataList)

	s := view.State
	fmt.Fprintf(utils.Output, "Page %d of %d, items %d-%d of %d\n",
		s.Page+1, max(view.Pages, 1), s.FirstVisible, s.LastVisible, s.ItemCount)
	return nil
}

func init() {
	packagesCmd.AddCommand(listCmd)

	listCmd.Flags().IntVarP(&optPage, "page", "p", 0, "Zero based page to show")
	listCmd.Flags().StringVarP(&optFilter, "filter", "f", "", "Case sensitive substring over name, epoch:version-release and arch")
	listCmd.Flags().BoolVar(&optJSON, "json", false, "Print the browser view as JSON")
}
