package shortcode

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

var (
	// ErrUnknownParameter indicates the invocation supplied an unexpected parameter.
	ErrUnknownParameter = errors.New("shortcode: unknown parameter")
	// ErrMissingParameter indicates a required parameter was not provided.
	ErrMissingParameter = errors.New("shortcode: missing required parameter")
	// ErrParameterType indicates a parameter could not be coerced to the requested type.
	ErrParameterType = errors.New("shortcode: parameter type mismatch")
)

var knownParamTypes = map[interfaces.ShortcodeParamType]struct{}{
	interfaces.ShortcodeParamString: {},
	interfaces.ShortcodeParamInt:    {},
	interfaces.ShortcodeParamBool:   {},
	interfaces.ShortcodeParamURL:    {},
}

// Validator performs definition and parameter validation.
type Validator struct{}

// NewValidator returns a Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDefinition ensures the definition carries a name and that every
// schema parameter is uniquely named with a known type.
func (v *Validator) ValidateDefinition(def interfaces.ShortcodeDefinition) error {
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}

	seen := map[string]struct{}{}
	for _, param := range def.Schema.Params {
		name := strings.TrimSpace(param.Name)
		if name == "" {
			return fmt.Errorf("%w: schema parameter name required", ErrInvalidDefinition)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate schema parameter %q", ErrInvalidDefinition, name)
		}
		seen[name] = struct{}{}

		if _, ok := knownParamTypes[param.Type]; !ok {
			return fmt.Errorf("%w: parameter %q unknown type %q", ErrInvalidDefinition, name, param.Type)
		}
	}
	return nil
}

// CoerceParams checks supplied parameters against the definition schema and
// returns a normalised map with defaults filled in. Unknown keys, missing
// required parameters, and values that cannot be converted are rejected.
func (v *Validator) CoerceParams(def interfaces.ShortcodeDefinition, supplied map[string]any) (map[string]any, error) {
	if err := v.ValidateDefinition(def); err != nil {
		return nil, err
	}

	schema := make(map[string]interfaces.ShortcodeParam, len(def.Schema.Params))
	out := make(map[string]any, len(def.Schema.Params))
	for _, param := range def.Schema.Params {
		schema[param.Name] = param
		if param.Default != nil {
			out[param.Name] = param.Default
		}
	}

	supplied = resolvePositional(def, supplied)

	for key, raw := range supplied {
		param, known := schema[key]
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, key)
		}

		value, err := convertParam(param.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %v", ErrParameterType, key, err)
		}
		if param.Validate != nil {
			if err := param.Validate(value); err != nil {
				return nil, err
			}
		}
		out[key] = value
	}

	for _, param := range def.Schema.Params {
		if !param.Required {
			continue
		}
		if _, ok := out[param.Name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingParameter, param.Name)
		}
	}

	return out, nil
}

// resolvePositional maps bare positional values, parsed as param1..N, onto
// the schema's declared parameter order so {{< ref "release-notes" >}} binds
// the value to the first parameter. A named value for the same parameter
// takes precedence.
func resolvePositional(def interfaces.ShortcodeDefinition, supplied map[string]any) map[string]any {
	out := make(map[string]any, len(supplied))
	for key, value := range supplied {
		if idx, ok := positionalIndex(key); ok && idx <= len(def.Schema.Params) {
			// Schemas may declare a parameter literally named paramN; only
			// remap when the names differ.
			if name := def.Schema.Params[idx-1].Name; name != key {
				if _, named := supplied[name]; !named {
					out[name] = value
				}
				continue
			}
		}
		out[key] = value
	}
	return out
}

func positionalIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "param")
	if !ok || rest == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 1 {
		return 0, false
	}
	return idx, true
}

func convertParam(kind interfaces.ShortcodeParamType, value any) (any, error) {
	switch kind {
	case interfaces.ShortcodeParamString:
		return toString(value)
	case interfaces.ShortcodeParamInt:
		return toInt(value)
	case interfaces.ShortcodeParamBool:
		return toBool(value)
	case interfaces.ShortcodeParamURL:
		raw, err := toString(value)
		if err != nil {
			return nil, err
		}
		if _, err := url.ParseRequestURI(raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
	return nil, fmt.Errorf("unsupported parameter type %q", kind)
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return fmt.Sprintf("%v", value), nil
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8, int16, int32, int64:
		return int(reflect.ValueOf(v).Int()), nil
	case uint, uint8, uint16, uint32, uint64:
		return int(reflect.ValueOf(v).Uint()), nil
	case float32:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}
	return 0, fmt.Errorf("cannot convert %T to int", value)
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true, nil
		case "0", "false", "f", "no", "n", "off":
			return false, nil
		}
		return false, fmt.Errorf("cannot convert %q to bool", v)
	}
	return false, fmt.Errorf("cannot convert %T to bool", value)
}
