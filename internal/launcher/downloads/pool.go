package downloads

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/craftlaunch/craftlaunch/internal/launcher/events"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
)

// progressInterval throttles per-task progress events
const progressInterval = 500 * time.Millisecond

// Task describes a single file to fetch
type Task struct {
	URL  string
	Path string
	// SHA1 is the expected hex digest. When set, an existing file with a
	// matching digest is skipped, and a finished download is verified
	// against it.
	SHA1 string
}

// Pool downloads batches of files with bounded concurrency,
// publishing progress on the event bus.
type Pool struct {
	client      *http.Client
	bus         events.EventBus
	logger      *logger.Logger
	concurrency int
}

// NewPool creates a download pool. Concurrency values below one are
// clamped to one.
func NewPool(concurrency int, client *http.Client, bus events.EventBus) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Pool{
		client:      client,
		bus:         bus,
		logger:      logger.New().WithField("component", "downloads"),
		concurrency: concurrency,
	}
}

// Run fetches every task, at most p.concurrency at a time. The first
// failure cancels the remaining tasks and is returned; files already
// present with a matching checksum are not re-downloaded.
func (p *Pool) Run(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	p.logger.Info("starting download batch", "tasks", len(tasks), "concurrency", p.concurrency)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return p.fetch(ctx, task)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	p.logger.Info("download batch complete", "tasks", len(tasks))
	return nil
}

// fetch downloads a single task to its destination path
func (p *Pool) fetch(ctx context.Context, task Task) error {
	taskID := uuid.NewString()

	if task.SHA1 != "" {
		ok, err := fileMatchesSHA1(task.Path, task.SHA1)
		if err != nil {
			return errors.NewFilesystemError(task.Path, "verify", err)
		}
		if ok {
			p.logger.Debug("file already present, skipping", "path", task.Path)
			p.publish(ctx, events.DownloadCompleted, events.DownloadEventData{
				TaskID: taskID,
				URL:    task.URL,
				Path:   task.Path,
			})
			return nil
		}
	}

	p.publish(ctx, events.DownloadStarted, events.DownloadEventData{
		TaskID: taskID,
		URL:    task.URL,
		Path:   task.Path,
	})

	if err := p.download(ctx, taskID, task); err != nil {
		p.publish(ctx, events.DownloadFailed, events.DownloadEventData{
			TaskID: taskID,
			URL:    task.URL,
			Path:   task.Path,
			Error:  err,
		})
		return err
	}

	p.publish(ctx, events.DownloadCompleted, events.DownloadEventData{
		TaskID: taskID,
		URL:    task.URL,
		Path:   task.Path,
	})
	return nil
}

func (p *Pool) download(ctx context.Context, taskID string, task Task) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d for %s", errors.ErrDownloadFailed, resp.StatusCode, task.URL)
	}

	if err := os.MkdirAll(filepath.Dir(task.Path), 0o755); err != nil {
		return errors.NewFilesystemError(filepath.Dir(task.Path), "mkdir", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(task.Path), filepath.Base(task.Path)+".partial-*")
	if err != nil {
		return errors.NewFilesystemError(task.Path, "create", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	hasher := sha1.New()
	writer := &progressWriter{
		dst:   io.MultiWriter(tmp, hasher),
		total: resp.ContentLength,
		emit: func(downloaded, total int64) {
			p.publish(ctx, events.DownloadProgress, events.DownloadEventData{
				TaskID:     taskID,
				URL:        task.URL,
				Path:       task.Path,
				Downloaded: downloaded,
				Total:      total,
			})
		},
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}

	if task.SHA1 != "" {
		digest := hex.EncodeToString(hasher.Sum(nil))
		if digest != task.SHA1 {
			return fmt.Errorf("%w: got %s, want %s", errors.ErrChecksumMismatch, digest, task.SHA1)
		}
	}

	if err := tmp.Close(); err != nil {
		return errors.NewFilesystemError(tmp.Name(), "close", err)
	}
	if err := os.Rename(tmp.Name(), task.Path); err != nil {
		return errors.NewFilesystemError(task.Path, "rename", err)
	}

	return nil
}

func (p *Pool) publish(ctx context.Context, eventType events.EventType, data events.DownloadEventData) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		p.logger.Warn("event publish failed", "type", string(eventType), "error", err)
	}
}

// fileMatchesSHA1 reports whether the file at path exists and hashes to want
func fileMatchesSHA1(path, want string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	hasher := sha1.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return false, err
	}

	return hex.EncodeToString(hasher.Sum(nil)) == want, nil
}

// progressWriter counts bytes and emits throttled progress callbacks
type progressWriter struct {
	dst        io.Writer
	downloaded int64
	total      int64
	lastEmit   time.Time
	emit       func(downloaded, total int64)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	w.downloaded += int64(n)

	if w.emit != nil && time.Since(w.lastEmit) >= progressInterval {
		w.lastEmit = time.Now()
		w.emit(w.downloaded, w.total)
	}

	return n, err
}
