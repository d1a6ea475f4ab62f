package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hamiltonroad/checked-out/model"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Check a copy out to a patron",
	RunE: func(cmd *cobra.Command, args []string) error {
		copyID, _ := cmd.Flags().GetInt64("copy")
		patronID, _ := cmd.Flags().GetInt64("patron")
		if copyID <= 0 || patronID <= 0 {
			return fmt.Errorf("both --copy and --patron are required")
		}

		var resp struct {
			Data model.Checkout `json:"data"`
		}
		err := newClient().do(cmd.Context(), "POST", "/v1/checkouts", model.CreateCheckoutReq{
			CopyID:   copyID,
			PatronID: patronID,
		}, &resp)
		if err != nil {
			return err
		}
		fmt.Println(color.GreenString("checkout %d created, due %s",
			resp.Data.ID, resp.Data.DueDate.Format("2006-01-02")))
		return nil
	},
}

var returnCmd = &cobra.Command{
	Use:   "return <checkout-id>",
	Short: "Return a checked-out copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Data model.Checkout `json:"data"`
		}
		err := newClient().do(cmd.Context(), "POST", "/v1/checkouts/"+args[0]+"/return", nil, &resp)
		if err != nil {
			return err
		}
		fmt.Println(color.GreenString("checkout %s returned", args[0]))
		return nil
	},
}

func init() {
	checkoutCmd.Flags().Int64("copy", 0, "copy id")
	checkoutCmd.Flags().Int64("patron", 0, "patron id")
}
