package shortcode

import (
	"errors"
	"testing"

	"github.com/goliatone/go-press/pkg/interfaces"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry(NewValidator())

	def := interfaces.ShortcodeDefinition{
		Name:     "Figure",
		Template: "<figure></figure>",
	}
	if err := registry.Register(def); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, ok := registry.Get("figure")
	if !ok {
		t.Fatalf("expected case-insensitive lookup to succeed")
	}
	if got.Template != def.Template {
		t.Fatalf("unexpected definition %#v", got)
	}
}

func TestRegistryDuplicate(t *testing.T) {
	registry := NewRegistry(NewValidator())

	def := interfaces.ShortcodeDefinition{Name: "figure", Template: "x"}
	if err := registry.Register(def); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register(def); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("expected ErrDuplicateDefinition, got %v", err)
	}
}

func TestRegistryInvalidName(t *testing.T) {
	registry := NewRegistry(NewValidator())

	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "  "}); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestRegistryListAndRemove(t *testing.T) {
	registry := NewRegistry(NewValidator())

	for _, name := range []string{"youtube", "figure", "ref"} {
		if err := registry.Register(interfaces.ShortcodeDefinition{Name: name, Template: "x"}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	list := registry.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(list))
	}
	if list[0].Name != "figure" || list[2].Name != "youtube" {
		t.Fatalf("expected name ordering, got %#v", list)
	}

	registry.Remove("figure")
	if _, ok := registry.Get("figure"); ok {
		t.Fatalf("expected figure to be removed")
	}
	registry.Remove("figure") // no-op
}
