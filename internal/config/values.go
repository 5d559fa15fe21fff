package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// fieldPath pairs a reflect.Value addressable leaf field with the dotted
// path it lives at (e.g. "default.status"), walking LoTaR's Config shape
// via reflection.
type fieldPath struct {
	path  string
	value reflect.Value
}

// walkFields recursively visits every leaf (non-struct) field of v,
// computing its dotted yaml-tag path relative to prefix.
func walkFields(v reflect.Value, prefix string, visit func(fieldPath)) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("yaml")
		name := strings.Split(tag, ",")[0]
		if name == "" || name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			walkFields(fv, path, visit)
			continue
		}
		visit(fieldPath{path: path, value: fv})
	}
}

// findFieldByTag resolves a dotted path against cfg, returning the
// addressable leaf reflect.Value.
func findFieldByTag(cfg *Config, path string) (reflect.Value, error) {
	v := reflect.ValueOf(cfg).Elem()
	parts := strings.Split(path, ".")
	for _, part := range parts {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("config path %q: not a struct at %q", path, part)
		}
		t := v.Type()
		found := false
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			name := strings.Split(sf.Tag.Get("yaml"), ",")[0]
			if name == part {
				v = v.Field(i)
				found = true
				break
			}
		}
		if !found {
			return reflect.Value{}, fmt.Errorf("unknown config path %q", path)
		}
	}
	return v, nil
}

// GetValue reads the value at a dotted config path (e.g. "default.status").
func GetValue(cfg *Config, path string) (any, error) {
	v, err := findFieldByTag(cfg, path)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// SetValue writes raw (typically a flag or env-var string) into the dotted
// config path, converting to the field's underlying type.
func SetValue(cfg *Config, path string, raw string) error {
	v, err := findFieldByTag(cfg, path)
	if err != nil {
		return err
	}
	return setFieldValue(v, raw)
}

func setFieldValue(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("expected bool, got %q", raw)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("expected integer, got %q", raw)
		}
		v.SetInt(n)
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type %s", v.Type().Elem())
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		v.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported config field kind %s", v.Kind())
	}
	return nil
}

// formatValue renders a leaf field value for display (--explain, dotted get).
func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Slice:
		n := v.Len()
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = fmt.Sprintf("%v", v.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// AllConfigPaths returns every dotted leaf path of the Config shape, sorted.
func AllConfigPaths() []string {
	var paths []string
	walkFields(reflect.ValueOf(Default()).Elem(), "", func(fp fieldPath) {
		paths = append(paths, fp.path)
	})
	sort.Strings(paths)
	return paths
}

// Normalize rewrites a dotted-key input (e.g. "default.project: X" typed at
// the top level of a config file) into its nested form. It is idempotent:
// normalizing an already-nested document is a no-op.
func Normalize(raw map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range raw {
		if !strings.Contains(k, ".") {
			out[k] = mergeAny(out[k], v)
			continue
		}
		parts := strings.Split(k, ".")
		setNested(out, parts, v)
	}
	return out
}

func setNested(m map[string]any, parts []string, value any) {
	if len(parts) == 1 {
		m[parts[0]] = value
		return
	}
	child, ok := m[parts[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[parts[0]] = child
	}
	setNested(child, parts[1:], value)
}

func mergeAny(existing, incoming any) any {
	existingMap, eok := existing.(map[string]any)
	incomingMap, iok := incoming.(map[string]any)
	if eok && iok {
		for k, v := range incomingMap {
			existingMap[k] = mergeAny(existingMap[k], v)
		}
		return existingMap
	}
	return incoming
}

// flatten turns a nested map[string]any (as decoded from YAML) into a set
// of dotted leaf paths, used by the loader to know which fields a file
// actually set versus left absent.
func flatten(m map[string]any, prefix string, out map[string]bool) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(nested, path, out)
			continue
		}
		out[path] = true
	}
}
