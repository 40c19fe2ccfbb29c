package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/cmdllm/internal/domain"
)

// ErrKeyNotFound is returned when a dotted key names no configuration item.
var ErrKeyNotFound = errors.New("configuration item not found")

// Lookup returns the value at a dotted key such as "azure.endpoint". Nested
// sections are returned as maps.
func Lookup(cfg domain.Config, key string) (interface{}, error) {
	tree, err := toTree(cfg)
	if err != nil {
		return nil, err
	}
	var node interface{} = tree
	for _, part := range splitKey(key) {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		if node, ok = m[part]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
	}
	return node, nil
}

// Assign sets a dotted key and decodes the result back into a Config, so type
// mismatches (a word for an integer field) are rejected. Unknown keys are
// rejected as well.
func Assign(cfg domain.Config, key string, value interface{}) (domain.Config, error) {
	parts := splitKey(key)
	if len(parts) == 0 {
		return cfg, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	tree, err := toTree(cfg)
	if err != nil {
		return cfg, err
	}
	node := tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]interface{})
		if !ok {
			return cfg, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		node = child
	}
	last := parts[len(parts)-1]
	if _, ok := node[last]; !ok && !optionalKeys[key] {
		return cfg, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	node[last] = value

	raw, err := yaml.Marshal(tree)
	if err != nil {
		return cfg, err
	}
	var updated domain.Config
	if err := yaml.Unmarshal(raw, &updated); err != nil {
		return cfg, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return updated, nil
}

// Flatten renders every scalar as "section.key" -> value, sorted by key.
func Flatten(cfg domain.Config) ([]KeyValue, error) {
	tree, err := toTree(cfg)
	if err != nil {
		return nil, err
	}
	var out []KeyValue
	flattenInto("", tree, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// KeyValue is one flattened configuration item.
type KeyValue struct {
	Key   string
	Value string
}

// ParseValue converts command-line input to a bool, integer or float where it
// looks like one, otherwise keeps the string.
func ParseValue(input string) interface{} {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input
	}
	switch parsed.(type) {
	case bool, int, float64:
		return parsed
	default:
		return input
	}
}

// optionalKeys may be absent from the encoded tree because of omitempty.
var optionalKeys = map[string]bool{
	"openai_compatible.api_key_env": true,
	"openai_compatible.temperature": true,
	"azure.api_key_env":             true,
	"context.file":                  true,
	"prompt.language":               true,
	"prompt.system_template":        true,
	"history.path":                  true,
}

func toTree(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	tree := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func flattenInto(prefix string, node interface{}, out *[]KeyValue) {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, child := range v {
			name := key
			if prefix != "" {
				name = prefix + "." + key
			}
			flattenInto(name, child, out)
		}
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, fmt.Sprint(item))
		}
		*out = append(*out, KeyValue{Key: prefix, Value: strings.Join(items, ", ")})
	case nil:
		*out = append(*out, KeyValue{Key: prefix, Value: ""})
	default:
		*out = append(*out, KeyValue{Key: prefix, Value: fmt.Sprint(v)})
	}
}

func splitKey(key string) []string {
	key = strings.Trim(strings.TrimSpace(key), ".")
	if key == "" {
		return nil
	}
	return strings.Split(key, ".")
}
