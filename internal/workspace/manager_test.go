package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scoop/internal/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewStartsWithScratch(t *testing.T) {
	r := New()

	require.Equal(t, 1, r.Count())
	doc := r.Active()
	require.NotNil(t, doc)
	assert.Equal(t, "file-1.txt", doc.Name)
	assert.True(t, doc.IsScratch())
	assert.False(t, doc.IsDirty())
	assert.NotEqual(t, uuid.Nil, doc.ID)
}

func TestNewScratchNames(t *testing.T) {
	r := New()
	second := r.NewScratch()
	third := r.NewScratch()

	assert.Equal(t, "file-2.txt", second.Name)
	assert.Equal(t, "file-3.txt", third.Name)
	assert.Equal(t, third.ID, r.Active().ID)
	assert.Equal(t, 3, r.Count())

	require.NoError(t, r.Close(second.ID, false))
	fourth := r.NewScratch()
	assert.Equal(t, "file-4.txt", fourth.Name, "names stay unique after a close")
}

func TestOpenReplacesPristineScratch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.js", "let a = 1;\n")

	r := New()
	scratch := r.Active()

	doc, err := r.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, "main.js", doc.Name)
	assert.Equal(t, "let a = 1;\n", doc.Content())
	_, ok := r.Get(scratch.ID)
	assert.False(t, ok)
}

func TestOpenKeepsEditedScratch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "a")

	r := New()
	r.Active().Engine.InsertText("notes")

	_, err := r.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count())
}

func TestOpenAlreadyOpen(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "a")
	b := writeFile(t, dir, "b.txt", "b")

	r := New()
	first, err := r.Open(a)
	require.NoError(t, err)
	_, err = r.Open(b)
	require.NoError(t, err)

	again, err := r.Open(a)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.ID, r.Active().ID)
	assert.Equal(t, 2, r.Count())

	found, ok := r.FindByPath(a)
	require.True(t, ok)
	assert.Equal(t, first.ID, found.ID)
}

func TestOpenMissingFile(t *testing.T) {
	r := New()
	_, err := r.Open(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "open", opErr.Op)
	assert.Equal(t, 1, r.Count())
}

func TestOpenAppliesEngineOptions(t *testing.T) {
	r := New(WithEngineOptions(engine.WithIndentUnit("\t")))
	doc := r.OpenText("x.js", "")

	doc.Engine.Indent()
	assert.Equal(t, "\t", doc.Content())
}

func TestClose(t *testing.T) {
	r := New()
	only := r.Active()

	t.Run("last document", func(t *testing.T) {
		assert.ErrorIs(t, r.Close(only.ID, true), ErrLastDocument)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, r.Close(uuid.New(), false), ErrDocumentNotFound)
	})

	t.Run("dirty needs force", func(t *testing.T) {
		doc := r.NewScratch()
		doc.Engine.InsertText("x")

		err := r.Close(doc.ID, false)
		assert.ErrorIs(t, err, ErrUnsavedChanges)
		assert.Equal(t, 2, r.Count())

		require.NoError(t, r.Close(doc.ID, true))
		assert.Equal(t, 1, r.Count())
		assert.Equal(t, only.ID, r.Active().ID)
	})
}

func TestCloseActivatesLast(t *testing.T) {
	r := New()
	first := r.Active()
	second := r.NewScratch()
	third := r.NewScratch()

	require.NoError(t, r.Activate(first.ID))
	require.NoError(t, r.Close(first.ID, false))
	assert.Equal(t, third.ID, r.Active().ID)

	require.NoError(t, r.Close(third.ID, false))
	assert.Equal(t, second.ID, r.Active().ID)
}

func TestNextPrevious(t *testing.T) {
	r := New()
	first := r.Active()
	second := r.NewScratch()
	third := r.NewScratch()

	assert.Equal(t, first.ID, r.Next().ID, "wraps forward")
	assert.Equal(t, second.ID, r.Next().ID)
	assert.Equal(t, first.ID, r.Previous().ID)
	assert.Equal(t, third.ID, r.Previous().ID, "wraps backward")

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID},
		[]uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
}

func TestCaretSurvivesSwitch(t *testing.T) {
	r := New()
	first := r.OpenText("a.txt", "hello\nworld")
	first.Engine.SetCaret(engine.Point{Line: 1, Column: 3})
	r.NewScratch()

	r.Previous()
	assert.Equal(t, engine.Point{Line: 1, Column: 3}, r.Active().Engine.Caret())
}

func TestActivateUnknown(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.Activate(uuid.New()), ErrDocumentNotFound)
}

func TestDirty(t *testing.T) {
	r := New()
	clean := r.Active()
	dirty := r.NewScratch()
	dirty.Engine.InsertText("x")

	docs := r.Dirty()
	require.Len(t, docs, 1)
	assert.Equal(t, dirty.ID, docs[0].ID)
	assert.False(t, clean.IsDirty())
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\r\ntwo\r\n")

	r := New()
	doc, err := r.Open(path)
	require.NoError(t, err)

	doc.Engine.SetCaret(engine.Point{Line: 2, Column: 0})
	doc.Engine.InsertText("three")
	require.True(t, doc.IsDirty())

	require.NoError(t, r.Save(doc.ID))
	assert.False(t, doc.IsDirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\r\ntwo\r\nthree", string(data))
}

func TestSaveScratchNeedsPath(t *testing.T) {
	r := New()
	doc := r.Active()
	assert.ErrorIs(t, r.Save(doc.ID), ErrNoPath)
	assert.ErrorIs(t, r.Save(uuid.New()), ErrDocumentNotFound)
}

func TestSaveAs(t *testing.T) {
	dir := t.TempDir()
	r := New()
	doc := r.Active()
	doc.Engine.InsertText("/* note */")

	path := filepath.Join(dir, "note.css")
	require.NoError(t, r.SaveAs(doc.ID, path))

	assert.Equal(t, "note.css", doc.Name)
	assert.Equal(t, "note.css", doc.Engine.Name())
	assert.False(t, doc.IsScratch())
	assert.False(t, doc.IsDirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/* note */", string(data))
}

func TestSaveAsPathAlreadyOpen(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "a")

	r := New()
	_, err := r.Open(path)
	require.NoError(t, err)
	other := r.NewScratch()

	assert.Error(t, r.SaveAs(other.ID, path))
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "first line\nsecond")

	r := New()
	doc, err := r.Open(path)
	require.NoError(t, err)
	doc.Engine.SetCaret(engine.Point{Line: 1, Column: 4})

	changed, err := r.Reload(doc.ID, false)
	require.NoError(t, err)
	assert.False(t, changed, "unchanged file")

	writeFile(t, dir, "a.txt", "replaced\nsec")
	changed, err = r.Reload(doc.ID, false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "replaced\nsec", doc.Content())
	assert.Equal(t, engine.Point{Line: 1, Column: 3}, doc.Engine.Caret())
	assert.False(t, doc.Engine.CanUndo())

	doc.Engine.InsertText("!")
	_, err = r.Reload(doc.ID, false)
	assert.ErrorIs(t, err, ErrUnsavedChanges)

	changed, err = r.Reload(doc.ID, true)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, doc.IsDirty())
}

func TestSaveAndReloadDuringSaveAs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "text")

	r := New()
	doc, err := r.Open(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 20 {
			assert.NoError(t, r.Save(doc.ID))
			_, err := r.Reload(doc.ID, true)
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 20 {
			assert.NoError(t, r.SaveAs(doc.ID, filepath.Join(dir, fmt.Sprintf("b%d.txt", i))))
		}
	}()
	wg.Wait()

	assert.Equal(t, "b19.txt", doc.Name)
	assert.Equal(t, "text", doc.Content())
}
