package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/extract"
	"github.com/fyrsmithlabs/notesd/internal/github"
	"github.com/fyrsmithlabs/notesd/internal/metrics"
	"github.com/fyrsmithlabs/notesd/internal/notes"
)

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.registerExtractionTools()
	s.registerNoteTools()
	s.registerJournalTools()
}

func recordTool(tool string, failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	metrics.ToolCalls.WithLabelValues(tool, status).Inc()
}

// textResult builds a plain-text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// ===== EXTRACTION TOOLS =====

type extractItemsInput struct {
	Text string `json:"text" jsonschema:"required,Free-form text to scan for action items"`
}

type extractItemsOutput struct {
	Items []string `json:"items" jsonschema:"Extracted action item descriptions"`
	Count int      `json:"count" jsonschema:"Number of items found"`
}

type extractHashtagsInput struct {
	Text string `json:"text" jsonschema:"required,Free-form text to scan for #hashtags"`
}

type extractHashtagsOutput struct {
	Tags  []string `json:"tags" jsonschema:"Hashtag names without the # prefix, in order of first appearance"`
	Count int      `json:"count" jsonschema:"Number of distinct hashtags"`
}

func (s *Server) registerExtractionTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "extract_action_items",
		Description: "Extract actionable tasks from free-form text",
	}, s.handleExtractActionItems)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "extract_hashtags",
		Description: "Extract #hashtags from free-form text",
	}, s.handleExtractHashtags)
}

func (s *Server) handleExtractActionItems(ctx context.Context, req *mcp.CallToolRequest, args extractItemsInput) (*mcp.CallToolResult, extractItemsOutput, error) {
	items, err := s.extractor.Extract(ctx, args.Text)
	if err != nil {
		recordTool("extract_action_items", true)
		return nil, extractItemsOutput{}, fmt.Errorf("extraction failed: %w", err)
	}
	if items == nil {
		// The output schema wants an array, not null.
		items = []string{}
	}
	recordTool("extract_action_items", false)

	output := extractItemsOutput{Items: items, Count: len(items)}
	return textResult(fmt.Sprintf("Found %d action items", output.Count)), output, nil
}

func (s *Server) handleExtractHashtags(ctx context.Context, req *mcp.CallToolRequest, args extractHashtagsInput) (*mcp.CallToolResult, extractHashtagsOutput, error) {
	tags := extract.Hashtags(args.Text)
	if tags == nil {
		tags = []string{}
	}
	recordTool("extract_hashtags", false)

	output := extractHashtagsOutput{Tags: tags, Count: len(tags)}
	return textResult(fmt.Sprintf("Found %d hashtags", output.Count)), output, nil
}

// ===== NOTE TOOLS =====

type createNoteInput struct {
	Title   string `json:"title" jsonschema:"required,Note title (at most 200 characters)"`
	Content string `json:"content" jsonschema:"required,Note body"`
}

type createNoteOutput struct {
	ID        int64     `json:"id" jsonschema:"Stored note id"`
	Title     string    `json:"title" jsonschema:"Stored title"`
	Content   string    `json:"content" jsonschema:"Stored content"`
	CreatedAt time.Time `json:"created_at" jsonschema:"Creation time"`
}

type searchNotesInput struct {
	Query string `json:"query" jsonschema:"required,Text to match against note titles and contents"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results (default: 10)"`
}

type searchNotesOutput struct {
	Items []map[string]any `json:"items" jsonschema:"Matching notes, newest first"`
	Total int64            `json:"total" jsonschema:"Total matches across all pages"`
}

func (s *Server) registerNoteTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_note",
		Description: "Store a note with a title and content",
	}, s.handleCreateNote)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_notes",
		Description: "Search stored notes by title and content",
	}, s.handleSearchNotes)
}

func (s *Server) handleCreateNote(ctx context.Context, req *mcp.CallToolRequest, args createNoteInput) (*mcp.CallToolResult, createNoteOutput, error) {
	note, err := s.notes.Create(ctx, notes.CreateNoteRequest{
		Title:   args.Title,
		Content: args.Content,
	})
	if err != nil {
		recordTool("create_note", true)
		return nil, createNoteOutput{}, fmt.Errorf("create note failed: %w", err)
	}
	recordTool("create_note", false)

	output := createNoteOutput{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	}
	return textResult(fmt.Sprintf("Note %d created: %s", output.ID, output.Title)), output, nil
}

func (s *Server) handleSearchNotes(ctx context.Context, req *mcp.CallToolRequest, args searchNotesInput) (*mcp.CallToolResult, searchNotesOutput, error) {
	result, err := s.notes.Search(ctx, notes.SearchRequest{
		Query:    args.Query,
		PageSize: args.Limit,
	})
	if err != nil {
		recordTool("search_notes", true)
		return nil, searchNotesOutput{}, fmt.Errorf("search notes failed: %w", err)
	}
	recordTool("search_notes", false)

	items := make([]map[string]any, 0, len(result.Items))
	for _, note := range result.Items {
		items = append(items, map[string]any{
			"id":         note.ID,
			"title":      note.Title,
			"content":    note.Content,
			"created_at": note.CreatedAt,
		})
	}

	output := searchNotesOutput{Items: items, Total: result.Total}
	return textResult(fmt.Sprintf("Found %d notes matching %q", output.Total, args.Query)), output, nil
}

// ===== JOURNAL TOOLS =====

type todayIssueInput struct {
	Owner string `json:"owner,omitempty" jsonschema:"Repository owner (defaults to the configured owner)"`
	Repo  string `json:"repo,omitempty" jsonschema:"Repository name (defaults to the configured repository)"`
}

type todayIssueOutput struct {
	Success bool          `json:"success" jsonschema:"Whether the operation succeeded"`
	Issue   *github.Issue `json:"issue,omitempty" jsonschema:"Today's journal issue"`
	Error   string        `json:"error,omitempty" jsonschema:"Failure reason when success is false"`
}

type dailyCommentInput struct {
	Comment string `json:"comment" jsonschema:"required,Comment body to append to today's issue"`
	Owner   string `json:"owner,omitempty" jsonschema:"Repository owner (defaults to the configured owner)"`
	Repo    string `json:"repo,omitempty" jsonschema:"Repository name (defaults to the configured repository)"`
}

type dailyCommentOutput struct {
	Success bool            `json:"success" jsonschema:"Whether the operation succeeded"`
	Issue   *github.Issue   `json:"issue,omitempty" jsonschema:"Today's journal issue"`
	Comment *github.Comment `json:"comment,omitempty" jsonschema:"The posted comment"`
	Error   string          `json:"error,omitempty" jsonschema:"Failure reason when success is false"`
}

func (s *Server) registerJournalTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_or_create_today_issue",
		Description: "Find today's daily journal issue on GitHub, creating it when missing",
	}, s.handleTodayIssue)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_comment_to_today_issue",
		Description: "Append a journal entry as a comment on today's daily issue",
	}, s.handleDailyComment)
}

// resolveRepo fills in the configured owner and repo for calls that do
// not name them.
func (s *Server) resolveRepo(owner, repo string) (string, string, error) {
	if owner == "" {
		owner = s.defaultOwner
	}
	if repo == "" {
		repo = s.defaultRepo
	}
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("owner and repo are required: pass them explicitly or configure github.default_owner and github.default_repo")
	}
	return owner, repo, nil
}

// The journal tools report failures inside the result payload, so a
// failed GitHub call never turns into a tool error.

func (s *Server) handleTodayIssue(ctx context.Context, req *mcp.CallToolRequest, args todayIssueInput) (*mcp.CallToolResult, todayIssueOutput, error) {
	fail := func(msg string) (*mcp.CallToolResult, todayIssueOutput, error) {
		recordTool("get_or_create_today_issue", true)
		return textResult(msg), todayIssueOutput{Success: false, Error: msg}, nil
	}

	if s.github == nil {
		return fail("GitHub is not configured")
	}
	owner, repo, err := s.resolveRepo(args.Owner, args.Repo)
	if err != nil {
		return fail(err.Error())
	}

	issue, created, err := s.github.GetOrCreateTodayIssue(ctx, owner, repo)
	if err != nil {
		s.logger.Warn("today issue tool failed", zap.Error(err))
		return fail(err.Error())
	}
	recordTool("get_or_create_today_issue", false)

	text := fmt.Sprintf("Found today's issue #%d", issue.Number)
	if created {
		text = fmt.Sprintf("Created today's issue #%d", issue.Number)
	}
	return textResult(text), todayIssueOutput{Success: true, Issue: issue}, nil
}

func (s *Server) handleDailyComment(ctx context.Context, req *mcp.CallToolRequest, args dailyCommentInput) (*mcp.CallToolResult, dailyCommentOutput, error) {
	fail := func(msg string) (*mcp.CallToolResult, dailyCommentOutput, error) {
		recordTool("add_comment_to_today_issue", true)
		return textResult(msg), dailyCommentOutput{Success: false, Error: msg}, nil
	}

	if s.github == nil {
		return fail("GitHub is not configured")
	}
	if strings.TrimSpace(args.Comment) == "" {
		return fail("comment must not be empty")
	}
	owner, repo, err := s.resolveRepo(args.Owner, args.Repo)
	if err != nil {
		return fail(err.Error())
	}

	issue, comment, err := s.github.AddDailyComment(ctx, owner, repo, args.Comment)
	if err != nil {
		s.logger.Warn("daily comment tool failed", zap.Error(err))
		return fail(err.Error())
	}
	recordTool("add_comment_to_today_issue", false)

	output := dailyCommentOutput{Success: true, Issue: issue, Comment: comment}
	return textResult(fmt.Sprintf("Added comment %d to issue #%d", comment.ID, issue.Number)), output, nil
}
