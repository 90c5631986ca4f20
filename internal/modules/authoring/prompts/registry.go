package prompts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/courseforge-backend/internal/platform/promptstyle"
)

type Template struct {
	Name       PromptName
	Version    int
	SchemaName string
	Schema     func() map[string]any
	System     func(Input) string
	User       func(Input) string
	Validate   Validator
}

var (
	registryMu   sync.RWMutex
	registry     = map[PromptName]Template{}
	registerOnce sync.Once
)

// Register registers a compiled Template, replacing any with the same name.
func Register(t Template) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t.Name] = t
}

func lookup(name PromptName) (Template, bool) {
	registerOnce.Do(RegisterAll)
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[name]
	return t, ok
}

// Build returns a Prompt ready to pass to the model client.
func Build(name PromptName, in Input) (Prompt, error) {
	t, ok := lookup(name)
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.Schema == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing schema", string(name))
	}
	if t.System == nil || t.User == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing system/user renderers", string(name))
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", string(name), err)
		}
	}

	return Prompt{
		Name:       string(t.Name),
		Version:    t.Version,
		SchemaName: strings.TrimSpace(t.SchemaName),
		Schema:     t.Schema(),
		System:     promptstyle.ApplySystem(t.System(in), "json"),
		User:       strings.TrimSpace(t.User(in)),
	}, nil
}

// ID returns the "name@vN" identifier of a registered prompt.
func ID(name PromptName) (string, bool) {
	t, ok := lookup(name)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s@v%d", t.Name, t.Version), true
}

func Schema(name PromptName) (schemaName string, schema map[string]any, ok bool) {
	t, ok := lookup(name)
	if !ok || t.Schema == nil {
		return "", nil, false
	}
	return t.SchemaName, t.Schema(), true
}
