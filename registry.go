package entities

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrConfigKindRequired indicates a config missing its kind or name.
	ErrConfigKindRequired = errors.New("entities: config kind and name must be provided")
	// ErrDuplicateConfig indicates registration of an already-known (kind, name).
	ErrDuplicateConfig = errors.New("entities: config already registered")
	// ErrConfigNotFound indicates a lookup for an unregistered (kind, name).
	ErrConfigNotFound = errors.New("entities: config not found")
)

// ConfigRegistry holds the ordered entity configurations. Registration order
// is preserved because dirty-record listings and schema output follow it.
type ConfigRegistry struct {
	mu      sync.RWMutex
	ordered []Config
	index   map[string]int
}

// NewConfigRegistry validates and registers the supplied configs in order.
func NewConfigRegistry(configs ...Config) (*ConfigRegistry, error) {
	r := &ConfigRegistry{index: map[string]int{}}
	for _, cfg := range configs {
		if err := r.Register(cfg); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends cfg to the registry. The config is normalized (default key
// field) and becomes immutable once registered.
func (r *ConfigRegistry) Register(cfg Config) error {
	if cfg.Kind == "" || cfg.Name == "" {
		return ErrConfigKindRequired
	}
	normalized := normalizeConfig(cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index == nil {
		r.index = map[string]int{}
	}
	key := normalized.slug()
	if _, exists := r.index[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateConfig, key)
	}
	r.index[key] = len(r.ordered)
	r.ordered = append(r.ordered, normalized)
	return nil
}

// Lookup returns the config registered for (kind, name).
func (r *ConfigRegistry) Lookup(kind, name string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pos, ok := r.index[kind+"/"+name]
	if !ok {
		return Config{}, false
	}
	return r.ordered[pos], true
}

// Ordered returns a defensive copy of the configs in registration order.
func (r *ConfigRegistry) Ordered() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Config, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of registered configs.
func (r *ConfigRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}

func normalizeConfig(cfg Config) Config {
	if cfg.Key == "" {
		cfg.Key = defaultKeyField
	}
	if len(cfg.TransientEdits) > 0 {
		transient := make(map[string]bool, len(cfg.TransientEdits))
		for field, on := range cfg.TransientEdits {
			transient[field] = on
		}
		cfg.TransientEdits = transient
	}
	if len(cfg.RawAttributes) > 0 {
		cfg.RawAttributes = append([]string(nil), cfg.RawAttributes...)
	}
	return cfg
}

// DefaultConfigs returns the built-in entity configurations a CMS editor
// needs out of the box. Consumers typically append their own post types and
// taxonomies on top.
func DefaultConfigs() []Config {
	return []Config{
		{
			Kind:  KindRoot,
			Name:  "site",
			Label: "Site",
		},
		{
			Kind:      KindRoot,
			Name:      "user",
			Label:     "User",
			Plural:    "users",
			BaseURL:   "/entities/v1/users",
			TitleExpr: "name",
		},
		{
			Kind:    KindRoot,
			Name:    "media",
			Label:   "Media",
			Plural:  "mediaItems",
			BaseURL: "/entities/v1/media",
			RawAttributes: []string{
				"title", "caption", "description",
			},
			TitleExpr: "title",
		},
		{
			Kind:    KindPostType,
			Name:    "post",
			Label:   "Post",
			Plural:  "posts",
			BaseURL: "/entities/v1/posts",
			TransientEdits: map[string]bool{
				"blocks":    true,
				"selection": true,
			},
			RawAttributes: []string{
				"title", "excerpt", "content",
			},
			TitleExpr: "title",
		},
		{
			Kind:    KindPostType,
			Name:    "page",
			Label:   "Page",
			Plural:  "pages",
			BaseURL: "/entities/v1/pages",
			TransientEdits: map[string]bool{
				"blocks":    true,
				"selection": true,
			},
			RawAttributes: []string{
				"title", "excerpt", "content",
			},
			TitleExpr: "title",
		},
		{
			Kind:      KindTaxonomy,
			Name:      "category",
			Label:     "Category",
			Plural:    "categories",
			BaseURL:   "/entities/v1/categories",
			TitleExpr: "name",
		},
	}
}
