package cbor

import (
	"reflect"
	"strings"
)

type tagsCache struct {
	cmap map[reflect.Type]map[string]fieldTag
}

type fieldTag struct {
	id        int
	omitEmpty bool
}

func (tc *tagsCache) Get(v reflect.Value) map[string]fieldTag {
	if v.Kind() != reflect.Struct {
		return nil
	}

	if tc.cmap == nil {
		tc.cmap = make(map[reflect.Type]map[string]fieldTag)
	}

	t := v.Type()
	if m, ok := tc.cmap[t]; ok {
		return m
	}

	m := make(map[string]fieldTag)

	l := t.NumField()
	for i := 0; i < l; i++ {
		name, opts := parseTag(t.Field(i).Tag.Get("cbor"))
		if name == "-" {
			// cbor tag is "-" -- skip
			continue
		}

		if name == "" {
			// no tag? make one from the field name
			if pkgpath := t.Field(i).PkgPath; pkgpath != "" {
				// field not exported -- skip
				continue
			}
			name = t.Field(i).Name
		}
		m[name] = fieldTag{i, opts.Contains("omitempty")}
	}

	// empty map -- may as well store a nil
	if len(m) == 0 {
		m = nil
	}

	tc.cmap[t] = m
	return m
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	if idx := strings.Index(tag, ","); idx != -1 {
		return tag[:idx], tagOptions(tag[idx+1:])
	}
	return tag, tagOptions("")
}

func (o tagOptions) Contains(optionName string) bool {
	s := string(o)
	for s != "" {
		var next string
		if i := strings.Index(s, ","); i >= 0 {
			s, next = s[:i], s[i+1:]
		} else {
			next = ""
		}
		if s == optionName {
			return true
		}
		s = next
	}
	return false
}
