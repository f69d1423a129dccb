// Package engine ties the core components together behind the intent
// surface the presentation layer calls: parse, expand, select, compare,
// search, query, and generate. All derived state lives in immutable
// snapshots replaced wholesale on each transition.
package engine

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/theory/jsonpath"

	"github.com/fieldsift/fieldsift/internal/config"
	"github.com/fieldsift/fieldsift/internal/diff"
	"github.com/fieldsift/fieldsift/internal/errors"
	"github.com/fieldsift/fieldsift/internal/generator"
	"github.com/fieldsift/fieldsift/internal/models"
	"github.com/fieldsift/fieldsift/internal/parser"
	"github.com/fieldsift/fieldsift/internal/pathing"
	"github.com/fieldsift/fieldsift/internal/search"
	"github.com/fieldsift/fieldsift/internal/selection"
	"github.com/fieldsift/fieldsift/internal/store"
	"github.com/fieldsift/fieldsift/internal/traverse"
)

// Document is one parsed snapshot with its derived state. It is never
// mutated; a reparse or expansion toggle installs a replacement.
type Document struct {
	Value     *models.Value
	Raw       string
	SizeClass traverse.SizeClass
	Stats     traverse.Stats
	Expanded  map[string]struct{}
}

// IsExpanded reports whether the container at the encoded path is open.
func (d *Document) IsExpanded(pathKey string) bool {
	_, ok := d.Expanded[pathKey]
	return ok
}

type codeKey struct {
	target      generator.Target
	fingerprint string
}

// Engine is the stateful core. Methods are safe for concurrent use, but
// the intended model is the cooperative one: one caller issuing intents,
// snapshots read by anyone.
type Engine struct {
	mu         sync.Mutex
	cfg        *config.Config
	store      store.Store // nil when persistence is absent
	doc        *Document
	registry   *selection.Registry
	column     string
	codeCache  *lru.Cache[codeKey, string]
	generation atomic.Int64
}

// New creates an engine. The store may be nil; everything then lives in
// memory only.
func New(cfg *config.Config, st store.Store) (*Engine, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	cache, err := lru.New[codeKey, string](cfg.Cache.Size)
	if err != nil {
		return nil, errors.NewGenerateError("failed to create code cache", err)
	}
	e := &Engine{
		cfg:       cfg,
		store:     st,
		registry:  selection.NewRegistry(),
		column:    cfg.Column,
		codeCache: cache,
	}
	if st != nil {
		if saved, ok, err := st.Get(store.KeyColumnName); err == nil && ok && saved != "" {
			e.column = saved
		}
	}
	return e, nil
}

// Column returns the current source-column name.
func (e *Engine) Column() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.column
}

// SetColumn updates the source-column name and persists it when a store
// is attached. Store failures are reported but do not touch core state.
func (e *Engine) SetColumn(column string) error {
	e.mu.Lock()
	e.column = column
	st := e.store
	e.mu.Unlock()
	if st != nil {
		if err := st.Set(store.KeyColumnName, column); err != nil {
			return err
		}
	}
	return nil
}

// Load parses text and, on success, replaces the document snapshot and
// resets all selections. On failure nothing changes: the previous
// document and selections stay intact.
func (e *Engine) Load(text string) (*Document, error) {
	value, err := parser.ParseString(text)
	if err != nil {
		return nil, err
	}
	doc := buildDocument(value, text)

	e.mu.Lock()
	e.doc = doc
	e.registry.Reset()
	st := e.store
	e.mu.Unlock()

	if st != nil {
		if err := st.Set(store.KeyLastInput, text); err != nil {
			// Persistence is best-effort; the snapshot is already live.
			fmt.Fprintln(os.Stderr, errors.UserFriendlyError(err))
		}
	}
	return doc, nil
}

// LoadFile parses a file through the same path as Load.
func (e *Engine) LoadFile(path string) (*Document, error) {
	value, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	doc := buildDocument(value, value.EncodeJSON())

	e.mu.Lock()
	e.doc = doc
	e.registry.Reset()
	st := e.store
	e.mu.Unlock()

	if st != nil {
		if err := st.Set(store.KeyLastInput, doc.Raw); err != nil {
			// Persistence is best-effort; the snapshot is already live.
			fmt.Fprintln(os.Stderr, errors.UserFriendlyError(err))
		}
	}
	return doc, nil
}

// LastInput returns the persisted input text, if a store holds one.
func (e *Engine) LastInput() (string, bool, error) {
	if e.store == nil {
		return "", false, nil
	}
	return e.store.Get(store.KeyLastInput)
}

func buildDocument(value *models.Value, raw string) *Document {
	return &Document{
		Value:     value,
		Raw:       raw,
		SizeClass: traverse.ClassifySize(value),
		Stats:     traverse.ComputeStats(value),
		Expanded:  traverse.Plan(value),
	}
}

// Document returns the current snapshot, nil before the first parse.
func (e *Engine) Document() *Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

func (e *Engine) currentDoc() (*Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return nil, errors.NewInputError("no document loaded", errors.ErrNoDocument)
	}
	return e.doc, nil
}

// ToggleExpand flips one container's open state. The expansion set is
// copied, not mutated, so snapshots held by readers stay stable.
func (e *Engine) ToggleExpand(pathKey string) (*Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return nil, errors.NewInputError("no document loaded", errors.ErrNoDocument)
	}

	expanded := make(map[string]struct{}, len(e.doc.Expanded)+1)
	for k := range e.doc.Expanded {
		expanded[k] = struct{}{}
	}
	if _, open := expanded[pathKey]; open {
		delete(expanded, pathKey)
	} else {
		expanded[pathKey] = struct{}{}
	}

	next := *e.doc
	next.Expanded = expanded
	e.doc = &next
	return e.doc, nil
}

// ToggleSelect routes a toggle-select intent to the registry.
func (e *Engine) ToggleSelect(p pathing.Path) (key string, added bool, err error) {
	if _, err := e.currentDoc(); err != nil {
		return "", false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	key, added = e.registry.Toggle(p)
	return key, added, nil
}

// SelectSubtree bulk-selects (or bulk-deselects) every leaf under the
// value at p.
func (e *Engine) SelectSubtree(p pathing.Path) (added, removed int, err error) {
	doc, err := e.currentDoc()
	if err != nil {
		return 0, 0, err
	}
	norm := pathing.Normalize(p)
	value, ok := pathing.Resolve(doc.Value, norm)
	if !ok {
		return 0, 0, errors.NewSelectionError(
			fmt.Sprintf("path %s does not resolve inside the document", pathing.Encode(norm)),
			errors.ErrUnknownPath,
		)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	added, removed = e.registry.SelectSubtree(norm, value)
	return added, removed, nil
}

// Rename overwrites one selection's field name.
func (e *Engine) Rename(key, newName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.registry.Rename(key, newName) {
		return errors.NewSelectionError(fmt.Sprintf("no selection with key '%s'", key), nil)
	}
	return nil
}

// Selections returns the selection list in insertion order.
func (e *Engine) Selections() []selection.FieldSelection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Snapshot()
}

// SelectionKeys returns the selection-key set for renderers.
func (e *Engine) SelectionKeys() map[string]struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.KeySet()
}

// CompareWith parses other and diffs the current document against it.
// The result is a fresh map per call, never merged with earlier diffs.
func (e *Engine) CompareWith(other string) (map[string]diff.Status, error) {
	doc, err := e.currentDoc()
	if err != nil {
		return nil, err
	}
	otherValue, err := parser.ParseString(other)
	if err != nil {
		return nil, err
	}
	return diff.Compute(doc.Value, otherValue), nil
}

// Generate renders extraction code for the target from the current
// selections and column name, caching per selection fingerprint.
func (e *Engine) Generate(target generator.Target) (string, error) {
	e.mu.Lock()
	selections := e.registry.Snapshot()
	column := e.column
	e.mu.Unlock()

	key := codeKey{target: target, fingerprint: fingerprint(selections, column)}
	if code, ok := e.codeCache.Get(key); ok {
		return code, nil
	}
	code, err := generator.Generate(target, selections, column)
	if err != nil {
		return "", err
	}
	e.codeCache.Add(key, code)
	return code, nil
}

// fingerprint identifies a selection list plus column for cache lookups.
func fingerprint(selections []selection.FieldSelection, column string) string {
	var sb strings.Builder
	sb.WriteString(column)
	for _, sel := range selections {
		sb.WriteByte('\x00')
		sb.WriteString(sel.Key)
		sb.WriteByte('\x1f')
		sb.WriteString(sel.FieldName)
		sb.WriteByte('\x1f')
		sb.WriteString(pathing.Encode(sel.Path))
	}
	return sb.String()
}

// Search matches the query against every node's display text.
func (e *Engine) Search(query string, regexMode bool) ([]search.Match, error) {
	doc, err := e.currentDoc()
	if err != nil {
		return nil, err
	}
	return search.Find(doc.Value, search.NewMatcher(query, regexMode)), nil
}

// Query evaluates an RFC 9535 JSONPath expression against the current
// document and returns the matching values as plain Go shapes.
func (e *Engine) Query(expr string) ([]any, error) {
	doc, err := e.currentDoc()
	if err != nil {
		return nil, err
	}
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, errors.NewQueryError(fmt.Sprintf("invalid JSONPath %q", expr), err)
	}
	selected := path.Select(doc.Value.ToAny())
	out := make([]any, 0, len(selected))
	for _, v := range selected {
		out = append(out, v)
	}
	return out, nil
}

// Fragment renders the canonical JSON of the value at p, for the
// clipboard/export collaborator.
func (e *Engine) Fragment(p pathing.Path) (string, error) {
	doc, err := e.currentDoc()
	if err != nil {
		return "", err
	}
	norm := pathing.Normalize(p)
	value, ok := pathing.Resolve(doc.Value, norm)
	if !ok {
		return "", errors.NewSelectionError(
			fmt.Sprintf("path %s does not resolve inside the document", pathing.Encode(norm)),
			errors.ErrUnknownPath,
		)
	}
	return value.EncodeJSON(), nil
}

// Accessor renders a path as a readable accessor rooted at the column
// name.
func (e *Engine) Accessor(p pathing.Path) string {
	return pathing.Accessor(e.Column(), pathing.Normalize(p))
}

// AddBookmark saves a path under a label. Requires a store.
func (e *Engine) AddBookmark(label string, p pathing.Path) (store.Bookmark, error) {
	if e.store == nil {
		return store.Bookmark{}, errors.NewStoreError("no store configured", nil)
	}
	return store.AddBookmark(e.store, label, pathing.Encode(pathing.Normalize(p)))
}

// Bookmarks lists saved bookmarks, empty without a store.
func (e *Engine) Bookmarks() ([]store.Bookmark, error) {
	if e.store == nil {
		return nil, nil
	}
	return store.LoadBookmarks(e.store)
}

// RemoveBookmark deletes a bookmark by id.
func (e *Engine) RemoveBookmark(id string) (bool, error) {
	if e.store == nil {
		return false, errors.NewStoreError("no store configured", nil)
	}
	return store.RemoveBookmark(e.store, id)
}

// ParseResult is the completion signal of an asynchronous reparse.
type ParseResult struct {
	Doc   *Document
	Err   error
	Stale bool // a newer request finished first; this result was discarded
}

// LoadAsync schedules a reparse off the caller's goroutine. Overlapping
// requests all run to completion, but only the newest one installs its
// snapshot: older completions are delivered with Stale set and leave
// state untouched.
func (e *Engine) LoadAsync(text string) <-chan ParseResult {
	gen := e.generation.Add(1)
	done := make(chan ParseResult, 1)
	go func() {
		value, err := parser.ParseString(text)
		if err != nil {
			done <- ParseResult{Err: err, Stale: gen != e.generation.Load()}
			return
		}
		doc := buildDocument(value, text)

		e.mu.Lock()
		if gen != e.generation.Load() {
			e.mu.Unlock()
			done <- ParseResult{Doc: doc, Stale: true}
			return
		}
		e.doc = doc
		e.registry.Reset()
		st := e.store
		e.mu.Unlock()

		if st != nil {
			if err := st.Set(store.KeyLastInput, text); err != nil {
				fmt.Fprintln(os.Stderr, errors.UserFriendlyError(err))
			}
		}
		done <- ParseResult{Doc: doc}
	}()
	return done
}
