package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/scoop/internal/engine"
	"github.com/dshills/scoop/internal/logging"
)

// Option configures a Registry.
type Option func(*Registry)

// WithEngineOptions sets the options applied to every engine the registry
// creates. Per-document name and content are applied after them.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(r *Registry) {
		r.engineOpts = append(r.engineOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Registry manages all open documents.
type Registry struct {
	mu         sync.RWMutex
	documents  map[uuid.UUID]*Document
	order      []uuid.UUID // open order for navigation
	active     uuid.UUID
	engineOpts []engine.Option
	logger     *logging.Logger
}

// New creates a registry holding a single empty scratch document.
func New(opts ...Option) *Registry {
	r := &Registry{
		documents: make(map[uuid.UUID]*Document),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("workspace")

	doc := r.newDocument("", r.scratchNameLocked(), "")
	r.addLocked(doc)
	return r
}

// ============================================================================
// Opening Documents
// ============================================================================

// Open opens a document from a file and makes it active.
// Returns the existing document if the file is already open.
func (r *Registry) Open(path string) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, newOpError("open", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if doc := r.byPathLocked(absPath); doc != nil {
		r.active = doc.ID
		r.logger.Debug("reactivated %s", doc.Name)
		return doc, nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, newOpError("open", absPath, err)
	}

	doc := r.newDocument(absPath, filepath.Base(absPath), string(content))
	r.placeLocked(doc)
	r.logger.WithField("path", absPath).Info("opened %s", doc.Name)
	return doc, nil
}

// OpenText registers an in-memory document under name and makes it active.
// The document has no path until it is saved with SaveAs.
func (r *Registry) OpenText(name, text string) *Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		name = r.scratchNameLocked()
	}
	doc := r.newDocument("", name, text)
	r.placeLocked(doc)
	r.logger.Debug("loaded %s", name)
	return doc
}

// NewScratch creates an empty scratch document named file-N.txt and makes
// it active.
func (r *Registry) NewScratch() *Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.newDocument("", r.scratchNameLocked(), "")
	r.addLocked(doc)
	r.logger.Debug("created %s", doc.Name)
	return doc
}

func (r *Registry) newDocument(path, name, content string) *Document {
	opts := slices.Clone(r.engineOpts)
	opts = append(opts, engine.WithName(name), engine.WithContent(content))
	return &Document{
		ID:     uuid.New(),
		Path:   path,
		Name:   name,
		Engine: engine.New(opts...),
	}
}

// placeLocked activates doc, taking the slot of a pristine active scratch
// document when there is one.
func (r *Registry) placeLocked(doc *Document) {
	if cur, ok := r.documents[r.active]; ok && cur.pristine() {
		idx := slices.Index(r.order, cur.ID)
		delete(r.documents, cur.ID)
		r.order[idx] = doc.ID
		r.documents[doc.ID] = doc
		r.active = doc.ID
		return
	}
	r.addLocked(doc)
}

func (r *Registry) addLocked(doc *Document) {
	r.documents[doc.ID] = doc
	r.order = append(r.order, doc.ID)
	r.active = doc.ID
}

// scratchNameLocked picks the first free file-N.txt name, starting at the
// number of open documents plus one.
func (r *Registry) scratchNameLocked() string {
	for n := len(r.order) + 1; ; n++ {
		name := fmt.Sprintf("file-%d.txt", n)
		if !r.nameTakenLocked(name) {
			return name
		}
	}
}

func (r *Registry) nameTakenLocked(name string) bool {
	for _, doc := range r.documents {
		if doc.Name == name {
			return true
		}
	}
	return false
}

func (r *Registry) byPathLocked(absPath string) *Document {
	for _, id := range r.order {
		if doc := r.documents[id]; doc.Path == absPath {
			return doc
		}
	}
	return nil
}

// ============================================================================
// Closing Documents
// ============================================================================

// Close closes a document. The last document cannot be closed, and a dirty
// document is only closed when force is set.
func (r *Registry) Close(id uuid.UUID, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.documents[id]
	if !ok {
		return ErrDocumentNotFound
	}
	if len(r.order) == 1 {
		return ErrLastDocument
	}
	if doc.IsDirty() && !force {
		return newOpError("close", doc.Name, ErrUnsavedChanges)
	}

	delete(r.documents, id)
	r.order = slices.DeleteFunc(r.order, func(other uuid.UUID) bool { return other == id })

	if r.active == id {
		r.active = r.order[len(r.order)-1]
	}
	r.logger.Info("closed %s", doc.Name)
	return nil
}

// ============================================================================
// Navigation
// ============================================================================

// Active returns the active document. It is never nil.
func (r *Registry) Active() *Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.documents[r.active]
}

// Activate makes the document with the given id active.
func (r *Registry) Activate(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.documents[id]
	if !ok {
		return ErrDocumentNotFound
	}
	r.active = id
	r.logger.Debug("activated %s", doc.Name)
	return nil
}

// Next activates and returns the document after the active one, wrapping
// around at the end.
func (r *Registry) Next() *Document {
	return r.step(1)
}

// Previous activates and returns the document before the active one,
// wrapping around at the start.
func (r *Registry) Previous() *Document {
	return r.step(-1)
}

func (r *Registry) step(delta int) *Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.Index(r.order, r.active)
	if idx < 0 {
		return r.documents[r.active]
	}
	n := len(r.order)
	r.active = r.order[(idx+delta+n)%n]
	return r.documents[r.active]
}

// Get returns a document by id.
func (r *Registry) Get(id uuid.UUID) (*Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.documents[id]
	return doc, ok
}

// FindByPath returns the open document backed by path.
func (r *Registry) FindByPath(path string) (*Document, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc := r.byPathLocked(absPath)
	return doc, doc != nil
}

// All returns all open documents in open order.
func (r *Registry) All() []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*Document, 0, len(r.order))
	for _, id := range r.order {
		docs = append(docs, r.documents[id])
	}
	return docs
}

// Count returns the number of open documents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Dirty returns all documents with unsaved changes, in open order.
func (r *Registry) Dirty() []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var dirty []*Document
	for _, id := range r.order {
		if doc := r.documents[id]; doc.IsDirty() {
			dirty = append(dirty, doc)
		}
	}
	return dirty
}

// ============================================================================
// Persistence
// ============================================================================

// Save writes a document to its path and marks it clean.
func (r *Registry) Save(id uuid.UUID) error {
	doc, path, name, ok := r.lookup(id)
	if !ok {
		return ErrDocumentNotFound
	}
	if path == "" {
		return newOpError("save", name, ErrNoPath)
	}
	return r.write(doc, path, name)
}

// lookup returns a document with its path and name read under the lock,
// since SaveAs may change them concurrently.
func (r *Registry) lookup(id uuid.UUID) (*Document, string, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.documents[id]
	if !ok {
		return nil, "", "", false
	}
	return doc, doc.Path, doc.Name, true
}

// SaveAs writes a document to path, which becomes its new backing file.
func (r *Registry) SaveAs(id uuid.UUID, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return newOpError("save", path, err)
	}

	r.mu.Lock()
	doc, ok := r.documents[id]
	if ok {
		if other := r.byPathLocked(absPath); other != nil && other.ID != id {
			r.mu.Unlock()
			return newOpError("save", absPath, fmt.Errorf("already open as %s", other.Name))
		}
	}
	r.mu.Unlock()
	if !ok {
		return ErrDocumentNotFound
	}

	if err := r.write(doc, absPath, filepath.Base(absPath)); err != nil {
		return err
	}

	r.mu.Lock()
	doc.Path = absPath
	doc.Name = filepath.Base(absPath)
	r.mu.Unlock()
	doc.Engine.Rename(doc.Name)
	return nil
}

func (r *Registry) write(doc *Document, path, name string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(doc.Engine.Serialize()), mode); err != nil {
		return newOpError("save", path, err)
	}
	doc.Engine.MarkClean()
	r.logger.WithField("path", path).Info("saved %s", name)
	return nil
}

// Reload replaces a document's content with its file on disk, keeping the
// caret where it was as far as the new content allows. A dirty document is
// only reloaded when force is set. It reports whether the content changed.
func (r *Registry) Reload(id uuid.UUID, force bool) (bool, error) {
	doc, path, name, ok := r.lookup(id)
	if !ok {
		return false, ErrDocumentNotFound
	}
	if path == "" {
		return false, newOpError("reload", name, ErrNoPath)
	}
	if doc.IsDirty() && !force {
		return false, newOpError("reload", name, ErrUnsavedChanges)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, newOpError("reload", path, err)
	}
	if string(content) == doc.Engine.Serialize() {
		return false, nil
	}
	doc.Engine.Reload(string(content))
	r.logger.WithField("path", path).Info("reloaded %s", name)
	return true, nil
}
