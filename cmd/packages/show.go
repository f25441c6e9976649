package packages

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"canvas-portal/internal/catalog"
	"canvas-portal/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

var optParallel int

var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show package details",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := showPackages(context.Background(), args); err != nil {
			fmt.Println(err)
		}
	},
}

type Detail_Columns struct {
	ID    int64  `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

/**
 * Load and print details of several packages
 * @param {context.Context} ctx - Request context
 * @param {[]string} args - Package ids
 * @returns {error} Returns error for invalid ids; failed loads are reported per package
 * @description
 * - Details are loaded concurrently, at most --parallel at a time
 * - Duplicate ids are requested once
 */
func showPackages(ctx context.Context, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid package id %q", a)
		}
		ids = append(ids, id)
	}

	client, transport := newClient()
	defer transport.Close()

	p := pool.New().WithErrors().WithMaxGoroutines(max(optParallel, 1))
	for _, id := range ids {
		p.Go(func() error {
			return client.LoadDetail(ctx, id)
		})
	}
	if err := p.Wait(); err != nil {
		fmt.Printf("Some details could not be loaded: %v\n", err)
	}

	printDetails(client, ids)
	return nil
}

func printDetails(client *catalog.Client, ids []int64) {
	var dataList []*orderedmap.OrderedMap
	printed := map[int64]bool{}
	for _, id := range ids {
		if printed[id] {
			continue
		}
		printed[id] = true
		detail, ok := client.Detail(id)
		if !ok || len(detail.Fields) == 0 {
			continue
		}
		keys := make([]string, 0, len(detail.Fields))
		for k := range detail.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			row := Detail_Columns{ID: id, Field: k, Value: fmt.Sprint(detail.Fields[k])}
			recordMap, _ := utils.StructToOrderedMap(row)
			dataList = append(dataList, recordMap)
		}
	}
	if len(dataList) == 0 {
		fmt.Println("No package details found")
		return
	}
	utils.PrintFormat(dataList)
}

func init() {
	packagesCmd.AddCommand(showCmd)

	showCmd.Flags().IntVarP(&optParallel, "parallel", "j", 4, "Maximum concurrent detail requests")
}
