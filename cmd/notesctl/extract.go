package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var (
	// extract command flags
	extractSaveNote bool
	extractUseLLM   bool
	extractJSON     bool
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractSaveNote, "save-note", false, "Also save the text as a note and attach the items to it")
	extractCmd.Flags().BoolVar(&extractUseLLM, "llm", false, "Use the language model extractor")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Output results as JSON")
}

// extractCmd extracts action items from a file or stdin
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract action items from a file or stdin",
	Long: `Extract action items from a file or stdin using the notesd server.
The items are persisted; with --save-note the source text is kept as a note too.

Examples:
  # Extract from a file
  notesctl extract meeting.txt

  # Extract from stdin
  cat meeting.txt | notesctl extract -

  # Keep the text as a note as well
  notesctl extract meeting.txt --save-note

  # Use the language model extractor
  notesctl extract meeting.txt --llm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

// ExtractRequest matches internal/http/extract.go ExtractRequest
type ExtractRequest struct {
	Text     string `json:"text"`
	SaveNote bool   `json:"save_note"`
}

// ExtractItem matches internal/http/extract.go ExtractItem
type ExtractItem struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// ExtractResponse matches internal/http/extract.go ExtractResponse
type ExtractResponse struct {
	NoteID *int64        `json:"note_id"`
	Items  []ExtractItem `json:"items"`
}

// runExtract handles the extract command
func runExtract(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error

	// Read input from file or stdin
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}

	if len(content) == 0 {
		return fmt.Errorf("no content to extract from")
	}

	path := "/api/v1/extract"
	if extractUseLLM {
		path = "/api/v1/extract/llm"
	}

	req := ExtractRequest{
		Text:     string(content),
		SaveNote: extractSaveNote,
	}

	var resp ExtractResponse
	if err := api(http.MethodPost, path, req, &resp); err != nil {
		return err
	}

	if extractJSON {
		return outputJSON(resp)
	}

	if len(resp.Items) == 0 {
		fmt.Println("No action items found")
	} else {
		fmt.Printf("Extracted %d action item(s):\n", len(resp.Items))
		for _, item := range resp.Items {
			fmt.Printf("  [%d] %s\n", item.ID, item.Text)
		}
	}
	if resp.NoteID != nil {
		fmt.Printf("Saved as note %d\n", *resp.NoteID)
	}

	return nil
}
