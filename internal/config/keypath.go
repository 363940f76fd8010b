package config

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// GetValue retrieves a value from a Config by dot-notation key path, for
// example "source.base_url" or "charts.trend.kind". It returns scalar values
// as-is, and maps/slices for intermediate nodes.
func GetValue(cfg *Config, keyPath string) (any, error) {
	if err := ValidateKeyPath(cfg, keyPath); err != nil {
		return nil, err
	}
	m, err := configToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return navigateMap(m, keyPath)
}

// sections maps each nested top-level key to its struct type.
var sections = map[string]reflect.Type{
	"source":    reflect.TypeOf(SourceConfig{}),
	"assistant": reflect.TypeOf(AssistantConfig{}),
	"store":     reflect.TypeOf(StoreConfig{}),
	"server":    reflect.TypeOf(ServerConfig{}),
}

// ValidateKeyPath checks that a dot-notation key path corresponds to a valid
// Config field. It uses yaml struct tags to build the valid key set.
func ValidateKeyPath(cfg *Config, keyPath string) error {
	parts := strings.Split(keyPath, ".")
	if keyPath == "" || len(parts) == 0 {
		return fmt.Errorf("empty key path")
	}

	topKeys := yamlKeys(reflect.TypeOf(Config{}))
	first := parts[0]
	if !topKeys[first] {
		return fmt.Errorf("unknown key %q; valid top-level keys: %s", first, sortedKeys(topKeys))
	}

	if t, ok := sections[first]; ok {
		if len(parts) == 1 {
			return nil
		}
		keys := yamlKeys(t)
		if len(parts) > 2 || !keys[parts[1]] {
			return fmt.Errorf("unknown %s field %q; valid fields: %s", first, strings.Join(parts[1:], "."), sortedKeys(keys))
		}
		return nil
	}

	if first != "charts" {
		if len(parts) > 1 {
			return fmt.Errorf("key %q is a scalar; cannot use sub-keys", first)
		}
		return nil
	}

	// charts[.<id>[.<field>...]]
	if len(parts) == 1 {
		return nil
	}
	if _, ok := cfg.Charts[parts[1]]; !ok {
		return fmt.Errorf("unknown chart %q; configured charts: %s", parts[1], strings.Join(cfg.ChartIDs(), ", "))
	}
	if len(parts) >= 3 {
		ccKeys := yamlKeys(reflect.TypeOf(ChartConfig{}))
		if !ccKeys[parts[2]] {
			return fmt.Errorf("unknown chart field %q; valid fields: %s", parts[2], sortedKeys(ccKeys))
		}
	}
	return nil
}

// configToMap marshals a Config to a map via YAML round-trip.
func configToMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// navigateMap traverses a nested map using a dot-notation key path.
func navigateMap(m map[string]any, keyPath string) (any, error) {
	parts := strings.Split(keyPath, ".")
	var current any = m
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key %q: parent is not a map", part)
		}
		val, exists := cm[part]
		if !exists {
			return nil, fmt.Errorf("key %q not set", keyPath)
		}
		current = val
	}
	return current, nil
}

// yamlKeys extracts yaml tag names from a struct type.
func yamlKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool)
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			keys[name] = true
		}
	}
	return keys
}

// sortedKeys returns a comma-separated sorted list of map keys.
func sortedKeys(m map[string]bool) string {
	return strings.Join(slices.Sorted(maps.Keys(m)), ", ")
}
