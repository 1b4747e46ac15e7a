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
	// items command flags
	itemCompleted bool
	itemNoteID    int64
	itemSkip      int
	itemLimit     int
	itemJSON      bool
)

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsCompleteCmd)

	itemsCmd.PersistentFlags().BoolVar(&itemJSON, "json", false, "Output results as JSON")

	itemsListCmd.Flags().BoolVar(&itemCompleted, "completed", false, "Filter by completion state")
	itemsListCmd.Flags().Int64Var(&itemNoteID, "note-id", 0, "Filter by source note id")
	itemsListCmd.Flags().IntVar(&itemSkip, "skip", 0, "Number of items to skip")
	itemsListCmd.Flags().IntVar(&itemLimit, "limit", 50, "Maximum number of items to return")
}

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage action items",
	Long: `Manage action items extracted from notes.

Examples:
  # List open action items
  notesctl items list --completed=false

  # Mark an item done
  notesctl items complete 7`,
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List action items",
	Long: `List action items, optionally filtered by state or source note.

Examples:
  # List everything
  notesctl items list

  # Only open items
  notesctl items list --completed=false

  # Items extracted from note 12
  notesctl items list --note-id 12

  # Output as JSON
  notesctl items list --json`,
	RunE: runItemsList,
}

var itemsCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark an action item done",
	Long: `Mark an action item as completed.

Examples:
  # Complete item 7
  notesctl items complete 7`,
	Args: cobra.ExactArgs(1),
	RunE: runItemsComplete,
}

// runItemsList handles the items list command
func runItemsList(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	if cmd.Flags().Changed("completed") {
		params.Set("completed", strconv.FormatBool(itemCompleted))
	}
	if itemNoteID > 0 {
		params.Set("note_id", strconv.FormatInt(itemNoteID, 10))
	}
	if itemSkip > 0 {
		params.Set("skip", strconv.Itoa(itemSkip))
	}
	params.Set("limit", strconv.Itoa(itemLimit))

	var found []notes.ActionItem
	if err := api(http.MethodGet, "/api/v1/action-items?"+params.Encode(), nil, &found); err != nil {
		return err
	}

	if itemJSON {
		return outputJSON(found)
	}
	if len(found) == 0 {
		fmt.Println("No action items found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tDESCRIPTION\tNOTE\tCREATED")
	for _, item := range found {
		done := ""
		if item.Completed {
			done = "yes"
		}
		noteRef := ""
		if item.NoteID != nil {
			noteRef = strconv.FormatInt(*item.NoteID, 10)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			item.ID,
			done,
			truncate(item.Description, 50),
			noteRef,
			item.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	w.Flush()

	return nil
}

// runItemsComplete handles the items complete command
func runItemsComplete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid action item id: %s", args[0])
	}

	var item notes.ActionItem
	if err := api(http.MethodPut, fmt.Sprintf("/api/v1/action-items/%d/complete", id), nil, &item); err != nil {
		return err
	}

	if itemJSON {
		return outputJSON(item)
	}

	fmt.Printf("Action item %d completed: %s\n", item.ID, item.Description)
	return nil
}
