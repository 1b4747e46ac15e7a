package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/notesd/internal/notes"
)

var (
	// notes command flags
	noteQuery      string
	noteCategoryID int64
	noteTagID      int64
	noteSkip       int
	noteLimit      int
	noteSort       string
	noteJSON       bool

	noteTitle   string
	noteContent string
	noteTagIDs  []int64

	notePage     int
	notePageSize int
)

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesGetCmd)
	notesCmd.AddCommand(notesCreateCmd)
	notesCmd.AddCommand(notesSearchCmd)

	notesCmd.PersistentFlags().BoolVar(&noteJSON, "json", false, "Output results as JSON")

	notesListCmd.Flags().StringVar(&noteQuery, "q", "", "Filter by title or content substring")
	notesListCmd.Flags().Int64Var(&noteCategoryID, "category-id", 0, "Filter by category id")
	notesListCmd.Flags().Int64Var(&noteTagID, "tag-id", 0, "Filter by tag id")
	notesListCmd.Flags().IntVar(&noteSkip, "skip", 0, "Number of notes to skip")
	notesListCmd.Flags().IntVar(&noteLimit, "limit", 50, "Maximum number of notes to return")
	notesListCmd.Flags().StringVar(&noteSort, "sort", "", "Sort column, prefix with - for descending")

	notesCreateCmd.Flags().StringVar(&noteTitle, "title", "", "Note title (required)")
	notesCreateCmd.Flags().StringVar(&noteContent, "content", "", "Note content (reads stdin when omitted)")
	notesCreateCmd.Flags().Int64Var(&noteCategoryID, "category-id", 0, "Category id to file the note under")
	notesCreateCmd.Flags().Int64SliceVar(&noteTagIDs, "tag-id", nil, "Tag id to attach (repeatable)")
	_ = notesCreateCmd.MarkFlagRequired("title")

	notesSearchCmd.Flags().IntVar(&notePage, "page", 1, "1-based page number")
	notesSearchCmd.Flags().IntVar(&notePageSize, "page-size", 10, "Notes per page (1-100)")
	notesSearchCmd.Flags().StringVar(&noteSort, "sort", "", "\"title_asc\" for title order, newest first otherwise")
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage notes",
	Long: `Manage notes stored by the notesd server.

Examples:
  # List the most recent notes
  notesctl notes list

  # Show one note in full
  notesctl notes get 12

  # Capture a note from a file
  cat meeting.txt | notesctl notes create --title "Meeting notes"

  # Search titles and contents
  notesctl notes search budget`,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long: `List notes, optionally filtered by text, category, or tag.

Examples:
  # List everything
  notesctl notes list

  # Notes mentioning a project, newest first
  notesctl notes list --q project --sort -created_at

  # Notes carrying tag 3
  notesctl notes list --tag-id 3

  # Output as JSON
  notesctl notes list --json`,
	RunE: runNotesList,
}

var notesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one note in full",
	Long: `Show a note with its content, category, and tags.

Examples:
  # Show note 12
  notesctl notes get 12

  # Output as JSON
  notesctl notes get 12 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runNotesGet,
}

var notesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Long: `Create a note from the --content flag or from stdin.

Examples:
  # Inline content
  notesctl notes create --title "Groceries" --content "milk, eggs"

  # Content from a file
  cat meeting.txt | notesctl notes create --title "Meeting notes"

  # File under a category with tags
  notesctl notes create --title "Plan" --content "..." --category-id 2 --tag-id 1 --tag-id 4`,
	RunE: runNotesCreate,
}

var notesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes",
	Long: `Search note titles and contents, paginated.

Examples:
  # First page of matches
  notesctl notes search budget

  # Third page, five per page, title order
  notesctl notes search budget --page 3 --page-size 5 --sort title_asc`,
	Args: cobra.ExactArgs(1),
	RunE: runNotesSearch,
}

// runNotesList handles the notes list command
func runNotesList(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	if noteQuery != "" {
		params.Set("q", noteQuery)
	}
	if noteCategoryID > 0 {
		params.Set("category_id", strconv.FormatInt(noteCategoryID, 10))
	}
	if noteTagID > 0 {
		params.Set("tag_id", strconv.FormatInt(noteTagID, 10))
	}
	if noteSkip > 0 {
		params.Set("skip", strconv.Itoa(noteSkip))
	}
	params.Set("limit", strconv.Itoa(noteLimit))
	if noteSort != "" {
		params.Set("sort", noteSort)
	}

	var found []notes.Note
	if err := api(http.MethodGet, "/api/v1/notes?"+params.Encode(), nil, &found); err != nil {
		return err
	}

	if noteJSON {
		return outputJSON(found)
	}
	if len(found) == 0 {
		fmt.Println("No notes found")
		return nil
	}

	printNoteTable(found)
	return nil
}

// runNotesGet handles the notes get command
func runNotesGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid note id: %s", args[0])
	}

	var note notes.Note
	if err := api(http.MethodGet, fmt.Sprintf("/api/v1/notes/%d", id), nil, &note); err != nil {
		return err
	}

	if noteJSON {
		return outputJSON(note)
	}

	fmt.Printf("ID: %d\n", note.ID)
	fmt.Printf("Title: %s\n", note.Title)
	if note.Category != nil {
		fmt.Printf("Category: %s\n", note.Category.Name)
	}
	if len(note.Tags) > 0 {
		fmt.Printf("Tags: %s\n", tagNames(note.Tags))
	}
	fmt.Printf("Created: %s\n", note.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated: %s\n", note.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("\n%s\n", note.Content)
	return nil
}

// runNotesCreate handles the notes create command
func runNotesCreate(cmd *cobra.Command, args []string) error {
	content := noteContent
	if content == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		content = string(data)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("no content provided: pass --content or pipe it on stdin")
	}

	req := notes.CreateNoteRequest{
		Title:   noteTitle,
		Content: content,
		TagIDs:  noteTagIDs,
	}
	if noteCategoryID > 0 {
		req.CategoryID = &noteCategoryID
	}

	var note notes.Note
	if err := api(http.MethodPost, "/api/v1/notes", req, &note); err != nil {
		return err
	}

	if noteJSON {
		return outputJSON(note)
	}

	fmt.Printf("Note created\n")
	fmt.Printf("ID: %d\n", note.ID)
	fmt.Printf("Title: %s\n", note.Title)
	if len(note.Tags) > 0 {
		fmt.Printf("Tags: %s\n", tagNames(note.Tags))
	}
	return nil
}

// runNotesSearch handles the notes search command
func runNotesSearch(cmd *cobra.Command, args []string) error {
	params := url.Values{}
	params.Set("q", args[0])
	params.Set("page", strconv.Itoa(notePage))
	params.Set("page_size", strconv.Itoa(notePageSize))
	if noteSort != "" {
		params.Set("sort", noteSort)
	}

	var result notes.SearchResult
	if err := api(http.MethodGet, "/api/v1/notes/search?"+params.Encode(), nil, &result); err != nil {
		return err
	}

	if noteJSON {
		return outputJSON(result)
	}
	if result.Total == 0 {
		fmt.Println("No notes found")
		return nil
	}

	found := make([]notes.Note, 0, len(result.Items))
	for _, note := range result.Items {
		found = append(found, *note)
	}
	printNoteTable(found)
	fmt.Printf("\nTotal: %d (page %d, %d per page)\n", result.Total, result.Page, result.PageSize)
	return nil
}

// printNoteTable renders notes as an aligned table.
func printNoteTable(found []notes.Note) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTAGS\tCREATED")
	for _, note := range found {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			note.ID,
			truncate(note.Title, 40),
			truncate(tagNames(note.Tags), 30),
			note.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	w.Flush()
}

// tagNames joins tag names for display.
func tagNames(tags []notes.Tag) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return strings.Join(names, ", ")
}
