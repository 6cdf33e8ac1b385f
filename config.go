package tinyclj

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is a flat path->value settings map holding the tunables the
// value runtime exposes. A key's type is fixed by the default that
// introduces it; reading a missing key, or reading through the wrong
// type, raises the runtime's own Exception — config misuse is a
// programmer error on par with a double free.
type Config struct {
	vals map[string]any
}

// NewConfig creates a configuration object primed with the defaults:
// double-free and pool-imbalance are fatal, and multiplication
// overflow promotes to fixed-point rather than raising.
func NewConfig() *Config {
	cfg := &Config{vals: make(map[string]any)}
	cfg.SetBool("memory.double_free_fatal", true)
	cfg.SetBool("memory.pool_imbalance_fatal", true)
	cfg.SetBool("arith.promote_on_multiply_overflow", true)
	cfg.SetInt("vector.initial_capacity", 4)
	return cfg
}

// LoadConfigYAML parses a YAML document of "path: value" pairs into a
// Config seeded with NewConfig's defaults, overriding only the keys
// present in data. Overriding a known key with a differently-typed
// value is rejected here, at load time, instead of surfacing later as
// a read failure deep inside the runtime. Desktop hosts use this to
// tune the runtime from a file; embedded builds never link the yaml
// package in because they never call this function.
func LoadConfigYAML(data []byte) (*Config, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("tinyclj: parsing config yaml: %w", err)
	}
	cfg := NewConfig()
	for path, v := range raw {
		switch v.(type) {
		case bool, int, string:
		default:
			return nil, fmt.Errorf("tinyclj: config key %q has unsupported type %T", path, v)
		}
		if old, ok := cfg.vals[path]; ok && cfgKind(old) != cfgKind(v) {
			return nil, fmt.Errorf("tinyclj: config key %q wants a %s, got %s", path, cfgKind(old), cfgKind(v))
		}
		cfg.vals[path] = v
	}
	return cfg, nil
}

func cfgKind(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case int:
		return "int"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (c *Config) SetBool(path string, v bool)     { c.vals[path] = v }
func (c *Config) SetInt(path string, v int)       { c.vals[path] = v }
func (c *Config) SetString(path string, v string) { c.vals[path] = v }

// GetBool returns the bool at path, raising if path is unset or bound
// to another type.
func (c *Config) GetBool(path string) bool {
	v, ok := c.vals[path].(bool)
	if !ok {
		c.fail(path, "bool")
	}
	return v
}

func (c *Config) GetInt(path string) int {
	v, ok := c.vals[path].(int)
	if !ok {
		c.fail(path, "int")
	}
	return v
}

func (c *Config) GetString(path string) string {
	v, ok := c.vals[path].(string)
	if !ok {
		c.fail(path, "string")
	}
	return v
}

func (c *Config) fail(path, want string) {
	if v, ok := c.vals[path]; ok {
		panic(&Exception{
			Type:    "TypeError",
			Message: fmt.Sprintf("config setting %s holds a %s, not a %s", path, cfgKind(v), want),
		})
	}
	panic(&Exception{
		Type:    "IllegalArgumentException",
		Message: "config setting " + path + " does not exist",
	})
}
