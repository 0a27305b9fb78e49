package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/finwatch/findetect/internal/core/services"
	"github.com/finwatch/findetect/internal/logger"
)

var (
	watchOpts   requestOpts
	watchSettle time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [drop-dir]",
	Short: "Watch a local drop folder and process new JPEGs",
	Long: `Watches a local directory laid out as <drop-dir>/<container>/<path>
and runs the detection pipeline on every JPEG that appears. The input
connection environment variable must point at the same directory using
the file:// scheme, e.g.

  export FIN_DROP_CONN=file:///data/drop
  findetect watch /data/drop --container photos --con-env-in FIN_DROP_CONN`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchOpts.addFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 500*time.Millisecond, "wait for writes to settle before processing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if processor == nil {
		return errors.New("processor not configured")
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid drop directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the container directory and everything under it
	containerDir := filepath.Join(root, watchOpts.container)
	if err := addRecursive(watcher, containerDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", containerDir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", containerDir)

	// Debounce per path so partially written files settle first
	settle := newDebouncer(watchSettle)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopping watch.")
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				// New subfolders must also be watched
				if err := addRecursive(watcher, event.Name); err != nil {
					logger.Warn("Failed to watch %s: %v", event.Name, err)
				}
				continue
			}
			if !isJPEGName(event.Name) {
				continue
			}

			fullPath := event.Name
			settle.trigger(fullPath, func() {
				processDropped(cmd, containerDir, fullPath)
			})
		}
	}
}

// debouncer delays per-key work until events for that key stop arriving
// for the configured wait.
type debouncer struct {
	mu     sync.Mutex
	wait   time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(wait time.Duration) *debouncer {
	return &debouncer{wait: wait, timers: make(map[string]*time.Timer)}
}

// trigger schedules fn for key, extending the wait if key is already
// pending.
func (d *debouncer) trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Reset(d.wait)
		return
	}
	d.timers[key] = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// processDropped maps a settled file back to a blob path and processes it.
func processDropped(cmd *cobra.Command, containerDir, fullPath string) {
	rel, err := filepath.Rel(containerDir, fullPath)
	if err != nil {
		logger.Warn("Ignoring %s: %v", fullPath, err)
		return
	}
	blobPath := filepath.ToSlash(rel)

	req := watchOpts.request(cmd, blobPath)
	result, err := processor.ProcessFile(cmd.Context(), req)
	if err != nil {
		logger.Error("Failed to process %s: %v", blobPath, err)
		return
	}
	cmd.Println(services.ResultSummary(result))
}

// addRecursive watches dir and all directories below it.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isJPEGName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg")
}
