package convert

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Preset is a named converter command line.
type Preset struct {
	Name        string
	Command     string
	Args        []string
	Description string
}

// Converter returns a CommandConverter running the preset.
func (p Preset) Converter(timeout time.Duration) *CommandConverter {
	return NewCommandConverter(p.Command, append([]string(nil), p.Args...), timeout)
}

// Registry manages converter presets.
type Registry struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewRegistry creates an empty preset registry.
func NewRegistry() *Registry {
	return &Registry{
		presets: make(map[string]Preset),
	}
}

// Register adds a preset to the registry.
func (r *Registry) Register(p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("converter name cannot be empty")
	}
	if p.Command == "" {
		return fmt.Errorf("converter %s has no command", p.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.presets[p.Name]; exists {
		return fmt.Errorf("converter already registered: %s", p.Name)
	}

	r.presets[p.Name] = p
	return nil
}

// Get returns a preset by name.
func (r *Registry) Get(name string) (Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("converter not found: %s", name)
	}
	return p, nil
}

// List returns all registered preset names (sorted).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks if a preset is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.presets[name]
	return ok
}

// Count returns the number of registered presets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.presets)
}

// Built-in preset names.
const (
	PresetPDF2DOCX    = "pdf2docx"
	PresetLibreOffice = "libreoffice"
)

// DefaultRegistry holds the built-in presets.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Preset{
		Name:        PresetPDF2DOCX,
		Command:     DefaultCommand,
		Args:        DefaultArgs(),
		Description: "pdf2docx command line (pip install pdf2docx)",
	})
	r.Register(Preset{
		Name:    PresetLibreOffice,
		Command: "soffice",
		Args: []string{
			"--headless", "--infilter=writer_pdf_import",
			"--convert-to", "docx:MS Word 2007 XML",
			"--outdir", OutDirPlaceholder, InputPlaceholder,
		},
		Description: "LibreOffice headless import; output is named after the input",
	})
	return r
}

// Get returns a preset from the default registry.
func Get(name string) (Preset, error) {
	return DefaultRegistry.Get(name)
}

// List returns all preset names from the default registry.
func List() []string {
	return DefaultRegistry.List()
}
