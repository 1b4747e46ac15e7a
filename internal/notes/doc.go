// Package notes implements the note-taking domain: notes with optional
// categories and tags, standalone action items, and text extraction that
// turns free-form notes into persisted action items.
//
// # Architecture
//
// The package is organized around small service interfaces, one per
// entity, backed by store interfaces that a persistence backend
// implements:
//
//	NoteService     - note CRUD, filtered listing, paginated search
//	ItemService     - action item CRUD and completion
//	TagService      - tag CRUD with case-insensitive name uniqueness
//	CategoryService - category CRUD with case-insensitive name uniqueness
//	ExtractService  - action item extraction, optionally saving the note
//
// Services own validation and the error contract; stores only persist.
// Failures are reported through the sentinel errors in errors.go so
// transports can map them to status codes with errors.Is.
//
// # Usage
//
//	svc, err := notes.NewNoteService(store, tagStore, catStore, logger)
//	if err != nil {
//		return err
//	}
//	note, err := svc.Create(ctx, notes.CreateNoteRequest{
//		Title:   "Sprint planning",
//		Content: "- [ ] Book a room",
//	})
package notes
