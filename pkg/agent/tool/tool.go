package tool

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// ValidateArgs checks the given arguments against a tool's parameter
// schema. The error names the offending parameter, so the orchestrator can
// feed it back to the model as a correctable observation.
func ValidateArgs(spec gollem.ToolSpec, args map[string]any) error {
	for name, param := range spec.Parameters {
		value, ok := args[name]
		if !ok || value == nil {
			if param.Required {
				return goerr.New("missing required argument",
					goerr.V("tool", spec.Name),
					goerr.V("argument", name),
					goerr.T(types.ErrTagInvalidArgument))
			}
			continue
		}

		if !matchesType(param.Type, value) {
			return goerr.New("argument has wrong type",
				goerr.V("tool", spec.Name),
				goerr.V("argument", name),
				goerr.V("expected", string(param.Type)),
				goerr.T(types.ErrTagInvalidArgument))
		}
	}
	return nil
}

func matchesType(t gollem.ParameterType, value any) bool {
	switch t {
	case gollem.TypeString:
		_, ok := value.(string)
		return ok
	case gollem.TypeInteger, gollem.TypeNumber:
		switch value.(type) {
		case int, int32, int64, float32, float64:
			return true
		}
		return false
	case gollem.TypeBoolean:
		_, ok := value.(bool)
		return ok
	case gollem.TypeArray:
		_, ok := value.([]any)
		return ok
	case gollem.TypeObject:
		_, ok := value.(map[string]any)
		return ok
	}
	return true
}

// ExtractString returns the string argument or fallback when absent
func ExtractString(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// ExtractInt returns the integer argument or fallback when absent.
// JSON decoding hands integers over as float64, so both are accepted.
func ExtractInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}
