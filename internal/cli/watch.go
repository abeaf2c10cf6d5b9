package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layerdefs/pkg/layer"
	"github.com/matzehuels/layerdefs/pkg/store"
)

const defaultDebounce = 100 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		save     bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <map-file>",
		Short: "Re-inspect a map document whenever it changes",
		Long: `Watch a map document and print its summary after every change. With --save
every layer is also saved to the configured store; unchanged layers are
skipped when dedupe is enabled. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			var s store.Store
			if save {
				var err error
				if s, err = c.openStore(ctx); err != nil {
					return err
				}
				defer s.Close()
			}

			reload := func() {
				if err := c.reload(ctx, path, s); err != nil {
					printError("%v", err)
				}
			}
			reload()

			w, err := newFileWatcher(path, debounce, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			printInfo("Watching %s", path)
			return w.run(ctx, reload)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "save all layers after every change")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "wait this long for writes to settle")
	return cmd
}

func (c *CLI) reload(ctx context.Context, path string, s store.Store) error {
	var opts []layer.Option
	if s != nil {
		opts = append(opts, layer.WithPersister(store.NewPersister(s)))
	}
	_, coll, err := c.loadMap(path, opts...)
	if err != nil {
		return err
	}
	printSummary(path, coll)
	if s == nil {
		return nil
	}
	if err := coll.SaveAll(ctx); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	printSuccess("Saved %d layers to %s", coll.Len(), s.Name())
	return nil
}

// fileWatcher reports changes to a single file. It watches the parent
// directory so editors that replace the file on save are followed.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *log.Logger
}

func newFileWatcher(path string, debounce time.Duration, logger *log.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &fileWatcher{watcher: w, path: abs, debounce: debounce, logger: logger}, nil
}

// run calls onChange once per burst of writes until ctx is done. onChange
// runs on the calling goroutine, so reloads never overlap.
func (fw *fileWatcher) run(ctx context.Context, onChange func()) error {
	defer fw.watcher.Close()

	timer := time.NewTimer(fw.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				fw.logger.Debug("map changed", "path", event.Name, "op", event.Op.String())
				timer.Reset(fw.debounce)
			}

		case <-timer.C:
			onChange()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Error("watcher error", "err", err)
		}
	}
}
