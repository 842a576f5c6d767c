// Package prompts holds the document template registry and the fixed
// extraction instruction.
package prompts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/zodiac/internal/watcher"
)

// Tier is a pricing tier label.
type Tier string

const (
	Tier1 Tier = "TIER1"
	Tier2 Tier = "TIER2"
	Tier3 Tier = "TIER3"
	Tier4 Tier = "TIER4"
)

// Tiers lists the tiers in order.
var Tiers = []Tier{Tier1, Tier2, Tier3, Tier4}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	for _, v := range Tiers {
		if t == v {
			return true
		}
	}
	return false
}

func (t Tier) rank() int {
	for i, v := range Tiers {
		if t == v {
			return i
		}
	}
	return len(Tiers)
}

// Template is one document type's generation instruction.
type Template struct {
	Type        string `json:"type" yaml:"-"`
	Tier        Tier   `json:"tier" yaml:"tier"`
	Instruction string `json:"instruction" yaml:"instruction"`
	Overridden  bool   `json:"overridden,omitempty" yaml:"-"`
}

// Fallback returns the generic instruction used for unknown types.
func Fallback(docType string) string {
	return fmt.Sprintf("Generate a %s for this business. Make it specific to the business profile above, "+
		"well structured with clear headings, and ready to use without further editing.", docType)
}

// Registry maps document types to templates. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
	overrides string
	logger    *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for override reloads.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns a registry holding the built-in templates.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{templates: builtinMap(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func builtinMap() map[string]Template {
	m := make(map[string]Template, len(builtin))
	for _, t := range builtin {
		m[t.Type] = t
	}
	return m
}

// Lookup returns the template for docType.
func (r *Registry) Lookup(docType string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[docType]
	return t, ok
}

// Instruction returns the instruction for docType, or the generic fallback
// when the type is not registered.
func (r *Registry) Instruction(docType string) string {
	if t, ok := r.Lookup(docType); ok {
		return t.Instruction
	}
	return Fallback(docType)
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Types returns all templates ordered by tier, then type.
func (r *Registry) Types() []Template {
	r.mu.RLock()
	out := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if ri, rj := out[i].Tier.rank(), out[j].Tier.rank(); ri != rj {
			return ri < rj
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// ByTier groups the templates by tier.
func (r *Registry) ByTier() map[Tier][]Template {
	out := make(map[Tier][]Template)
	for _, t := range r.Types() {
		out[t.Tier] = append(out[t.Tier], t)
	}
	return out
}

type overridesFile struct {
	Templates map[string]Template `yaml:"templates"`
}

// ParseOverrides decodes an overrides document. Type names are trimmed and
// otherwise used as written; an entry without an instruction or with an unknown tier is an
// error.
func ParseOverrides(data []byte) (map[string]Template, error) {
	var f overridesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse template overrides: %w", err)
	}
	out := make(map[string]Template, len(f.Templates))
	for name, t := range f.Templates {
		key := strings.TrimSpace(name)
		if key == "" {
			return nil, errors.New("template overrides: empty type name")
		}
		t.Instruction = strings.TrimSpace(t.Instruction)
		if t.Instruction == "" {
			return nil, fmt.Errorf("template overrides: %s has no instruction", key)
		}
		t.Tier = Tier(strings.ToUpper(string(t.Tier)))
		if t.Tier != "" && !t.Tier.Valid() {
			return nil, fmt.Errorf("template overrides: %s has unknown tier %q", key, t.Tier)
		}
		t.Type = key
		t.Overridden = true
		out[key] = t
	}
	return out, nil
}

// LoadOverrides replaces the active set with the built-ins plus the entries
// in the YAML file at path. A missing file leaves only the built-ins. On any
// other error the active set is unchanged.
func (r *Registry) LoadOverrides(path string) error {
	next := builtinMap()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read template overrides: %w", err)
	default:
		overrides, err := ParseOverrides(data)
		if err != nil {
			return err
		}
		for key, t := range overrides {
			if t.Tier == "" {
				t.Tier = Tier1
				if prev, ok := next[key]; ok {
					t.Tier = prev.Tier
				}
			}
			next[key] = t
		}
	}

	r.mu.Lock()
	r.templates = next
	r.overrides = path
	r.mu.Unlock()
	r.logger.Info("templates loaded", zap.String("overrides", path), zap.Int("templates", len(next)))
	return nil
}

// Watch reloads the overrides file whenever it changes until ctx is done.
// Reload failures are logged and the previous set stays active.
func (r *Registry) Watch(ctx context.Context, path string) (*watcher.Watcher, error) {
	w := watcher.NewWatcher([]string{path}, func(string) {
		if err := r.LoadOverrides(path); err != nil {
			r.logger.Warn("template reload failed, keeping previous set", zap.String("path", path), zap.Error(err))
		}
	}, watcher.WithLogger(r.logger))
	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("watch template overrides: %w", err)
	}
	return w, nil
}
