package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/notesd/internal/notes"
)

var (
	// tags command flags
	tagSkip  int
	tagLimit int
	tagJSON  bool
)

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.AddCommand(tagsListCmd)

	tagsCmd.PersistentFlags().BoolVar(&tagJSON, "json", false, "Output results as JSON")

	tagsListCmd.Flags().IntVar(&tagSkip, "skip", 0, "Number of tags to skip")
	tagsListCmd.Flags().IntVar(&tagLimit, "limit", 50, "Maximum number of tags to return")
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage tags",
	Long: `Manage the tags notes are labelled with.

Examples:
  # List all tags
  notesctl tags list`,
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	Long: `List tags in name order.

Examples:
  # List all tags
  notesctl tags list

  # Output as JSON
  notesctl tags list --json`,
	RunE: runTagsList,
}

// runTagsList handles the tags list command
func runTagsList(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	if tagSkip > 0 {
		params.Set("skip", strconv.Itoa(tagSkip))
	}
	params.Set("limit", strconv.Itoa(tagLimit))

	var found []notes.Tag
	if err := api(http.MethodGet, "/api/v1/tags?"+params.Encode(), nil, &found); err != nil {
		return err
	}

	if tagJSON {
		return outputJSON(found)
	}
	if len(found) == 0 {
		fmt.Println("No tags found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR\tCREATED")
	for _, tag := range found {
		color := ""
		if tag.Color != nil {
			color = *tag.Color
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			tag.ID,
			tag.Name,
			color,
			tag.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	w.Flush()

	return nil
}
