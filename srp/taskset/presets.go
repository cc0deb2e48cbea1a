package taskset

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/inference-sim/srp-analysis/srp"
)

// DefaultPreset is the preset analysed when no task-set file is given.
const DefaultPreset = "example"

//go:embed presets/*.yaml
var presetFS embed.FS

// Preset is a named built-in task set.
type Preset struct {
	Name        string
	Description string
	spec        *TaskSetSpec
}

// Tasks returns a fresh copy of the preset's tasks; callers may modify it freely.
func (p *Preset) Tasks() []srp.Task {
	return p.spec.ToTasks()
}

// Spec returns a copy of the preset's file-level spec.
func (p *Preset) Spec() *TaskSetSpec {
	spec := FromTasks(p.spec.ToTasks())
	spec.Description = p.Description
	return spec
}

// loadPresets parses every embedded preset once. The registry is read-only afterwards.
var loadPresets = sync.OnceValue(func() map[string]*Preset {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		panic(fmt.Sprintf("reading embedded presets: %v", err))
	}
	registry := make(map[string]*Preset, len(entries))
	for _, e := range entries {
		data, err := presetFS.ReadFile(path.Join("presets", e.Name()))
		if err != nil {
			panic(fmt.Sprintf("reading preset %s: %v", e.Name(), err))
		}
		spec, err := ParseTaskSet(bytes.NewReader(data))
		if err != nil {
			panic(fmt.Sprintf("preset %s: %v", e.Name(), err))
		}
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		registry[name] = &Preset{Name: name, Description: strings.TrimSpace(spec.Description), spec: spec}
	}
	return registry
})

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (*Preset, error) {
	p, ok := loadPresets()[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; valid: %s", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames returns the registered preset names, sorted.
func PresetNames() []string {
	registry := loadPresets()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
