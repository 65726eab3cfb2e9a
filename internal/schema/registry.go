package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the content-type schemas known to the service
type Registry struct {
	types map[string]*ContentType // keyed by uid
	kinds map[string]string       // kind -> uid
	mu    sync.RWMutex
}

// NewRegistry creates a registry preloaded with the embedded schemas
func NewRegistry() (*Registry, error) {
	r := &Registry{
		types: make(map[string]*ContentType),
		kinds: make(map[string]string),
	}

	entries, err := fs.Glob(configFiles, "config/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list embedded schemas: %w", err)
	}
	for _, name := range entries {
		data, err := configFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := r.load(name, data); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// LoadDir adds (or replaces) schemas from every *.yaml file in dir
func (r *Registry) LoadDir(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return err
	}
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := r.load(name, data); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a schema built in code
func (r *Registry) Register(ct *ContentType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[ct.UID] = ct
	r.kinds[ct.Kind] = ct.UID
}

func (r *Registry) load(name string, data []byte) error {
	var ct ContentType
	if err := yaml.Unmarshal(data, &ct); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	if ct.Table == "" {
		ct.Table = ct.Kind
	}
	r.Register(&ct)
	return nil
}

// Lookup resolves a content type by uid ("api::pagina.pagina") or kind ("pagina")
func (r *Registry) Lookup(nameOrUID string) (*ContentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if strings.HasPrefix(nameOrUID, "api::") {
		ct, ok := r.types[nameOrUID]
		return ct, ok
	}
	uid, ok := r.kinds[nameOrUID]
	if !ok {
		return nil, false
	}
	return r.types[uid], true
}

// All returns every registered schema sorted by uid
func (r *Registry) All() []*ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*ContentType, 0, len(r.types))
	for _, ct := range r.types {
		all = append(all, ct)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UID < all[j].UID })
	return all
}
