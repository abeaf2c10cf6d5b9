// Package cli implements the layerdefs command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerdefs/pkg/config"
	layerio "github.com/matzehuels/layerdefs/pkg/io"
	"github.com/matzehuels/layerdefs/pkg/layer"
	"github.com/matzehuels/layerdefs/pkg/store"
)

const appName = "layerdefs"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// stdout receives command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config returns the loaded settings, or the defaults before loading.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		cfg, _ := config.Load(nil, "")
		if cfg == nil {
			cfg = &config.Config{}
		}
		c.cfg = cfg
	}
	return c.cfg
}

// loadMap imports the map document at path and builds its collection.
func (c *CLI) loadMap(path string, opts ...layer.Option) (*layerio.Map, *layer.Collection, error) {
	m, err := layerio.Import(path)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range m.Lint() {
		c.Logger.Warn("analysis has no owning layer", "path", path, "err", w)
	}
	coll, err := m.Build(append([]layer.Option{layer.WithLogger(c.Logger)}, opts...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Logger.Debug("loaded map", "path", path, "layers", coll.Len(), "analyses", coll.Graph().Len())
	return m, coll, nil
}

// openStore opens the configured backend.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.config().StoreConfig()
	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened store", "backend", s.Name(), "retries", cfg.Retries, "dedupe", cfg.Dedupe)
	return s, nil
}

// findLayer resolves ref as a layer id, then as a letter.
func findLayer(coll *layer.Collection, ref string) (*layer.Definition, error) {
	if d, ok := coll.Get(ref); ok {
		return d, nil
	}
	if d, ok := coll.LayerByLetter(strings.ToLower(ref)); ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", layer.ErrLayerNotFound, ref)
}
