package account

import (
	"context"
	"fmt"

	"canvas-portal/cmd/root"
	"canvas-portal/internal/config"
	"canvas-portal/internal/forms"
	"canvas-portal/internal/rpc"
	"canvas-portal/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Account operations (check)",
	Long:  `Account operations (check)`,
}

var (
	optUsername string
	optEmail    string
	optMethod   string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a username and email can still be registered",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkAccount(context.Background()); err != nil {
			fmt.Println(err)
		}
	},
}

type Field_Columns struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

/**
 * Look up username/email availability and validate them as a registration would
 * @param {context.Context} ctx - Request context
 * @returns {error} Lookup error
 */
func checkAccount(ctx context.Context) error {
	if optUsername == "" && optEmail == "" {
		return fmt.Errorf("--username or --email is required")
	}
	method := optMethod
	if method == "" {
		method = config.App().Profile.LookupMethod
	}

	transport := rpc.NewHTTPClient(nil)
	defer transport.Close()
	cache := forms.NewAvailabilityCache()
	lookup := forms.NewLookup(transport, method, cache)

	var err error
	if optEmail == "" {
		err = lookup.LookupUsername(ctx, optUsername)
	} else {
		err = lookup.LookupAccount(ctx, optUsername, optEmail)
	}
	if err != nil {
		return err
	}

	var dataList []*orderedmap.OrderedMap
	add := func(field, value string, r forms.Result) {
		if value == "" {
			return
		}
		recordMap, _ := utils.StructToOrderedMap(Field_Columns{Field: field, Value: value, Valid: r.Valid, Message: r.Message})
		dataList = append(dataList, recordMap)
	}
	add("username", optUsername, forms.CheckUsername(optUsername, cache))
	add("email", optEmail, forms.CheckAccountEmail(optEmail, cache))
	utils.PrintFormat(dataList)
	return nil
}

func init() {
	root.RootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&optUsername, "username", "u", "", "Username to check")
	checkCmd.Flags().StringVarP(&optEmail, "email", "e", "", "Email address to check")
	checkCmd.Flags().StringVar(&optMethod, "method", "", "Lookup method: post or get (default from profile.lookup_method)")
	accountCmd.Example = `  canvas account check -u newbie -e newbie@example.org`
}
