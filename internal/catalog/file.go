package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// toolkitFile is the on-disk shape of one toolkit definition.
type toolkitFile struct {
	Toolkit string              `yaml:"toolkit"`
	Tools   []schema.ToolSchema `yaml:"tools"`
}

// FileCatalog serves tool schemas from toolkit YAML files in a directory.
// Files are loaded lazily on first lookup and cached for the process
// lifetime; schemas are request-scoped and immutable, so staleness only
// matters across restarts.
type FileCatalog struct {
	dir string

	once    sync.Once
	loadErr error
	tools   map[string]*schema.ToolSchema
}

// NewFileCatalog creates a FileCatalog over dir. A missing directory is not
// an error; it simply answers ErrNotFound for everything.
func NewFileCatalog(dir string) *FileCatalog {
	return &FileCatalog{dir: dir}
}

// GetToolSchema implements Provider. Slugs match case-insensitively.
func (f *FileCatalog) GetToolSchema(_ context.Context, slug string) (*schema.ToolSchema, error) {
	f.once.Do(f.load)
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if ts, ok := f.tools[strings.ToUpper(slug)]; ok {
		return ts, nil
	}
	return nil, ErrNotFound
}

// Slugs returns all tool slugs loaded from toolkit files, sorted. Returns
// nil when the directory is missing or failed to load.
func (f *FileCatalog) Slugs() []string {
	f.once.Do(f.load)
	if f.loadErr != nil {
		return nil
	}
	slugs := make([]string, 0, len(f.tools))
	for s := range f.tools {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs
}

func (f *FileCatalog) load() {
	f.tools = make(map[string]*schema.ToolSchema)

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		f.loadErr = fmt.Errorf("read toolkit dir %s: %w", f.dir, err)
		return
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(f.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			f.loadErr = fmt.Errorf("read toolkit %s: %w", path, err)
			return
		}
		var tk toolkitFile
		if err := yaml.Unmarshal(data, &tk); err != nil {
			f.loadErr = fmt.Errorf("parse toolkit %s: %w", path, err)
			return
		}
		for i := range tk.Tools {
			t := &tk.Tools[i]
			if t.Slug == "" {
				continue
			}
			f.tools[strings.ToUpper(t.Slug)] = t
		}
	}
}
