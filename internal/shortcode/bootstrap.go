package shortcode

import (
	"fmt"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// RegisterBuiltIns installs built-in shortcode definitions on the registry.
// An empty names slice installs every built-in; otherwise only the named
// shortcodes are installed and an unknown name is an error.
func RegisterBuiltIns(registry interfaces.ShortcodeRegistry, names []string) error {
	if registry == nil {
		return fmt.Errorf("shortcode: registry is required")
	}

	available := map[string]interfaces.ShortcodeDefinition{}
	for _, def := range BuiltInDefinitions() {
		available[normalizeName(def.Name)] = def
	}

	selected := make([]interfaces.ShortcodeDefinition, 0, len(available))
	if len(names) == 0 {
		for _, def := range available {
			selected = append(selected, def)
		}
	} else {
		for _, name := range names {
			key := normalizeName(name)
			if key == "" {
				continue
			}
			def, ok := available[key]
			if !ok {
				return fmt.Errorf("shortcode: built-in %q not found", name)
			}
			selected = append(selected, def)
		}
	}

	for _, def := range selected {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}
