package utils

import (
	"reflect"
	"strings"
)

// PatchMap builds a map of column -> value from the non-nil pointer fields of
// a partial-update DTO. Column names come from the json tag (before any comma
// option); renames translates json names to database columns where they differ.
func PatchMap(dto any, renames map[string]string) map[string]any {
	out := make(map[string]any)
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return out
	}
	s := v.Elem()
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		fv := s.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			continue
		}
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if alt, ok := renames[name]; ok && alt != "" {
			name = alt
		}
		out[name] = fv.Elem().Interface()
	}
	return out
}
