package async

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-specs/constants"
	"github.com/joseph-ayodele/catalog-specs/internal/core"
	"github.com/joseph-ayodele/catalog-specs/internal/core/ocr"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
	"github.com/joseph-ayodele/catalog-specs/internal/ingest"
	"github.com/joseph-ayodele/catalog-specs/internal/repository"
	"github.com/joseph-ayodele/catalog-specs/internal/ui"
)

type gatedRecognizer struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
	res   ocr.Result
}

func (g *gatedRecognizer) Recognize(ctx context.Context, _ string) ocr.Result {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
		}
	}
	return g.res
}

func (g *gatedRecognizer) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func setup(t *testing.T, slides int) (*core.Processor, []entity.Item) {
	t.Helper()
	root := t.TempDir()
	var items []entity.Item
	for n := 1; n <= slides; n++ {
		dir := filepath.Join(root, "rugs", fmt.Sprintf("slide_%d", n))
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "table_01.png"), bytes.Repeat([]byte{1}, 256), 0o644))
		items = append(items, ingest.NewItem("rugs", ingest.SlideDir{Path: dir, Number: n}))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	proc := core.NewProcessor(logger, core.Config{AssetsRoot: root, Categories: []string{"rugs"}, MinImageBytes: 100},
		repository.NewSpecStore(logger), nil, ui.NewConsole(io.Discard, true))
	return proc, items
}

func TestProcessorQueue_DrainsAndDedupes(t *testing.T) {
	proc, items := setup(t, 2)
	rec := &gatedRecognizer{
		gate: make(chan struct{}),
		res:  ocr.Result{Outcome: ocr.OutcomeOK, Text: "STYLE # AB-1\nSEASON EVERYDAY"},
	}
	run := &entity.Run{Force: true}
	q := NewProcessorQueue(proc, rec, run, nil)

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{Item: items[0], Force: true}))
	require.NoError(t, q.Enqueue(ctx, Job{Item: items[1], Force: true}))
	require.NoError(t, q.Enqueue(ctx, Job{Item: items[1], Force: true}))
	close(rec.gate)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q.Shutdown(shutdownCtx)

	assert.Equal(t, 2, rec.count())
	assert.Equal(t, 2, run.Succeeded)
	for _, it := range items {
		assert.FileExists(t, filepath.Join(it.Dir, constants.SpecsFileName))
	}
	assert.ErrorIs(t, q.Enqueue(ctx, Job{Item: items[0]}), ErrQueueClosed)
}

func TestProcessorQueue_FatalStopsIntake(t *testing.T) {
	proc, items := setup(t, 1)
	rec := &gatedRecognizer{res: ocr.Result{Outcome: ocr.OutcomeOther, Err: ocr.ErrEngineInit}}
	fatal := make(chan error, 1)
	q := NewProcessorQueue(proc, rec, &entity.Run{}, nil, WithFatalHandler(func(err error) { fatal <- err }))
	defer q.Shutdown(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), Job{Item: items[0], Force: true}))
	select {
	case err := <-fatal:
		assert.ErrorIs(t, err, ocr.ErrEngineInit)
	case <-time.After(5 * time.Second):
		t.Fatal("fatal handler not called")
	}
	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{Item: items[0], Force: true}), ErrQueueClosed)
}
