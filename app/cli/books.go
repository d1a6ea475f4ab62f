package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hamiltonroad/checked-out/model"
	booksvc "github.com/hamiltonroad/checked-out/service/book"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List and create books",
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books with availability and rating summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		genre, _ := cmd.Flags().GetString("genre")
		sort, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")

		path := fmt.Sprintf("/v1/books?limit=%d", limit)
		if genre != "" {
			path += "&genre=" + genre
		}
		if sort != "" {
			path += "&sort=" + sort
		}

		var resp struct {
			Data []booksvc.Listing `json:"data"`
		}
		if err := newClient().do(cmd.Context(), "GET", path, nil, &resp); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tGENRE\tSTATUS\tAVG\tRATINGS")
		for _, b := range resp.Data {
			status := string(b.Status)
			if b.Status == model.StatusAvailable {
				status = color.GreenString(status)
			} else {
				status = color.YellowString(status)
			}
			avg := "-"
			if b.TotalRatings > 0 {
				avg = fmt.Sprintf("%.1f", b.AverageRating)
			}
			genre := ""
			if b.Genre != nil {
				genre = *b.Genre
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
				b.ID, b.Title, genre, status, avg, b.TotalRatings)
		}
		return w.Flush()
	},
}

var booksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a book",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			return fmt.Errorf("--title is required")
		}
		isbn, _ := cmd.Flags().GetString("isbn")
		genre, _ := cmd.Flags().GetString("genre")
		publisher, _ := cmd.Flags().GetString("publisher")
		year, _ := cmd.Flags().GetInt("year")
		authorIDs, _ := cmd.Flags().GetInt64Slice("author-id")

		req := model.CreateBookReq{
			Title:     title,
			ISBN:      optStr(isbn),
			Genre:     optStr(genre),
			Publisher: optStr(publisher),
			AuthorIDs: authorIDs,
		}
		if year > 0 {
			req.PublicationYear = &year
		}

		var resp struct {
			Data model.Book `json:"data"`
		}
		if err := newClient().do(cmd.Context(), "POST", "/v1/books", req, &resp); err != nil {
			return err
		}
		fmt.Println(color.GreenString("created book %d: %s", resp.Data.ID, resp.Data.Title))
		return nil
	},
}

func init() {
	booksListCmd.Flags().String("genre", "", "filter by genre")
	booksListCmd.Flags().String("sort", "", "sort order: rating | rating_asc")
	booksListCmd.Flags().Int("limit", 50, "max books to list")

	booksCreateCmd.Flags().String("title", "", "book title")
	booksCreateCmd.Flags().String("isbn", "", "ISBN-13")
	booksCreateCmd.Flags().String("genre", "", "genre")
	booksCreateCmd.Flags().String("publisher", "", "publisher")
	booksCreateCmd.Flags().Int("year", 0, "publication year")
	booksCreateCmd.Flags().Int64Slice("author-id", nil, "author id (repeatable)")

	booksCmd.AddCommand(booksListCmd)
	booksCmd.AddCommand(booksCreateCmd)
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
