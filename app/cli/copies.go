package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hamiltonroad/checked-out/model"
)

var copiesCmd = &cobra.Command{
	Use:   "copies add <book-id>",
	Short: "Add copies to a book",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "add" {
			return fmt.Errorf("unknown copies subcommand %q", args[0])
		}
		format, _ := cmd.Flags().GetString("format")
		count, _ := cmd.Flags().GetInt("count")

		var resp struct {
			Data []model.Copy `json:"data"`
		}
		err := newClient().do(cmd.Context(), "POST", "/v1/books/"+args[1]+"/copies", model.AddCopiesReq{
			Format: model.CopyFormat(format),
			Count:  count,
		}, &resp)
		if err != nil {
			return err
		}
		fmt.Println(color.GreenString("added %d %s copies to book %s", len(resp.Data), format, args[1]))
		return nil
	},
}

func init() {
	copiesCmd.Flags().String("format", "physical", "copy format: physical | kindle")
	copiesCmd.Flags().Int("count", 1, "number of copies to add")
}
