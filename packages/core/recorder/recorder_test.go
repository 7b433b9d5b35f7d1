package recorder

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/abdul-hamid-achik/shotlog/packages/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("png"), 0644))
}

func newMemoryDoc(t *testing.T) *document.MemoryDocument {
	t.Helper()
	doc, err := document.NewMemoryBackend().NewDocument()
	require.NoError(t, err)
	return doc.(*document.MemoryDocument)
}

func TestNewArtifact(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "a.png")
	touch(t, present)

	a := NewArtifact("1", present, "login", "Screenshot 1 (Monitor 1): login", IntPtr(0))
	assert.False(t, a.Failed())
	assert.Equal(t, "login", a.Caption)
	require.NotNil(t, a.DisplayIndex)
	assert.Equal(t, 0, *a.DisplayIndex)

	missing := NewArtifact("2", filepath.Join(dir, "b.png"), "logout", "Screenshot 2: logout", nil)
	assert.True(t, missing.Failed())
	assert.ErrorIs(t, missing.Err, ErrImageMissing)
	assert.Equal(t, "[SAVE ERROR] logout", missing.Caption)
	assert.Equal(t, "[SAVE ERROR] Screenshot 2: logout", missing.DocumentCaption)
}

func TestMarkFailed_PrefixesOnce(t *testing.T) {
	a := Artifact{Caption: "x"}
	a = a.MarkFailed(errors.New("one"))
	a = a.MarkFailed(errors.New("two"))
	assert.Equal(t, "[SAVE ERROR] x", a.Caption)
	assert.EqualError(t, a.Err, "two")
}

func TestRecorder_Record(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	touch(t, img)

	doc := newMemoryDoc(t)
	r := NewRecorder(doc)

	a, err := r.Record(NewArtifact("5", img, "home", "Screenshot 5 (All Monitors): home", nil), RecordOptions{})
	require.NoError(t, err)
	assert.False(t, a.Failed())

	blocks := doc.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, document.BlockCaption, blocks[0].Kind)
	assert.Equal(t, "Screenshot 5 (All Monitors): home", blocks[0].Text)
	assert.Equal(t, document.BlockImage, blocks[1].Kind)
	assert.Equal(t, int64(float64(doc.UsableWidth())*0.98), blocks[1].Width)

	assert.Equal(t, 1, r.Ledger().Len())
}

func TestRecorder_PageBreak(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	touch(t, img)

	doc := newMemoryDoc(t)
	r := NewRecorder(doc, WithWidthSafety(0.5))

	_, err := r.Record(NewArtifact("5-2", img, "x", "Screenshot 5 (Monitor 2 of Multiple): x", IntPtr(1)), RecordOptions{PageBreak: true})
	require.NoError(t, err)

	blocks := doc.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, document.BlockPageBreak, blocks[0].Kind)
	assert.Equal(t, doc.UsableWidth()/2, blocks[2].Width)
}

func TestRecorder_ErroredArtifact(t *testing.T) {
	doc := newMemoryDoc(t)
	ledger := NewLedger()
	r := NewRecorder(doc, WithLedger(ledger))

	a := NewArtifact("3", filepath.Join(t.TempDir(), "missing.png"), "gone", "Screenshot 3 (Monitor 1): gone", IntPtr(0))
	got, err := r.Record(a, RecordOptions{})
	require.NoError(t, err)
	assert.True(t, got.Failed())

	blocks := doc.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "[SAVE ERROR] Screenshot 3 (Monitor 1): gone", blocks[0].Text)
	assert.Equal(t, document.BlockMarker, blocks[1].Kind)

	assert.Equal(t, 1, ledger.Len())
	assert.Equal(t, 1, ledger.Failed())
}

func TestRecorder_EmbedFailure(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	touch(t, img)

	backend := document.NewMemoryBackend()
	backend.EmbedErr[img] = errors.New("image: unknown format")
	doc, err := backend.NewDocument()
	require.NoError(t, err)
	mem := doc.(*document.MemoryDocument)

	tests := []struct {
		name      string
		opts      RecordOptions
		wantLabel string
	}{
		{name: "keeps label", opts: RecordOptions{}, wantLabel: "4-1"},
		{name: "takes failed label", opts: RecordOptions{FailedLabel: "4-E1"}, wantLabel: "4-E1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder(mem)
			a := NewArtifact("4-1", img, "cart", "Screenshot 4 (Monitor 1 of Multiple): cart", IntPtr(0))
			got, err := r.Record(a, tt.opts)
			require.NoError(t, err)
			assert.True(t, got.Failed())
			assert.Equal(t, tt.wantLabel, got.SequenceLabel)
			assert.Equal(t, "[PROCESSING ERROR] cart", got.Caption)
			assert.Equal(t, tt.wantLabel, r.Ledger().Artifacts()[0].SequenceLabel)
		})
	}

	blocks := mem.Blocks()
	require.NotEmpty(t, blocks)
	last := blocks[len(blocks)-1]
	assert.Equal(t, document.BlockMarker, last.Kind)
	assert.Equal(t, "[Error adding image: image: unknown format]", last.Text)
}

func TestRecorder_SuccessIgnoresFailedLabel(t *testing.T) {
	img := filepath.Join(t.TempDir(), "a.png")
	touch(t, img)

	r := NewRecorder(newMemoryDoc(t))
	got, err := r.Record(NewArtifact("2-1", img, "x", "Screenshot 2: x", nil), RecordOptions{FailedLabel: "2-E1"})
	require.NoError(t, err)
	assert.Equal(t, "2-1", got.SequenceLabel)
}

func TestMarkProcessingFailed(t *testing.T) {
	a := Artifact{Caption: "x", DocumentCaption: "Screenshot 1: x"}
	a = a.MarkProcessingFailed(errors.New("bad"))
	assert.Equal(t, "[PROCESSING ERROR] x", a.Caption)
	assert.Equal(t, "[PROCESSING ERROR] Screenshot 1: x", a.DocumentCaption)

	// The first failure decides the prefix.
	a = a.MarkFailed(errors.New("later"))
	assert.Equal(t, "[PROCESSING ERROR] x", a.Caption)
}

func TestRecorder_ImageDeletedBeforeRecord(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	touch(t, img)
	a := NewArtifact("1", img, "x", "Screenshot 1: x", nil)
	require.NoError(t, os.Remove(img))

	r := NewRecorder(newMemoryDoc(t))
	got, err := r.Record(a, RecordOptions{})
	require.NoError(t, err)
	assert.ErrorIs(t, got.Err, ErrImageMissing)
	assert.Equal(t, 1, r.Ledger().Failed())
}

func TestLedger_ConcurrentAppend(t *testing.T) {
	l := NewLedger()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(Artifact{SequenceLabel: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, l.Len())

	snapshot := l.Artifacts()
	snapshot[0].SequenceLabel = "changed"
	assert.Equal(t, "x", l.Artifacts()[0].SequenceLabel)
}
