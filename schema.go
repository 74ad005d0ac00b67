package gallerydex

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const tagKey = "gallerydex"

var errNilItem = errors.New("nil item")

// Field roles accepted in `gallerydex:"..."` struct tags.
const (
	RoleID              = "id"
	RoleTitle           = "title"
	RoleDescription     = "description"
	RoleCategory        = "category"
	RoleAlt             = "alt"
	RoleTags            = "tags"
	RoleLongDescription = "long_description"
	RoleURL             = "url"
)

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ   reflect.Type
	roles map[string]int // role -> struct field index
}

// parseSchema reflects on T and extracts gallerydex struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("gallerydex: type %v is not a struct", t)
	}

	meta := &schemaMeta{typ: t, roles: make(map[string]int)}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, &f, tag); err != nil {
			return nil, err
		}
	}

	return validateSchema(meta, t)
}

// applyTag processes a single struct field's gallerydex tag.
func applyTag(meta *schemaMeta, idx int, f *reflect.StructField, tag string) error {
	role := strings.TrimSpace(tag)
	switch role {
	case RoleID, RoleTitle, RoleDescription, RoleCategory, RoleAlt, RoleLongDescription, RoleURL:
	case RoleTags:
		if f.Type.Kind() != reflect.String && !isStringSlice(f.Type) {
			return fmt.Errorf("gallerydex: tags field %s must be string or []string, got %s", f.Name, f.Type)
		}
	default:
		return fmt.Errorf("gallerydex: unknown role %q on field %s", role, f.Name)
	}
	if _, dup := meta.roles[role]; dup {
		return fmt.Errorf("gallerydex: duplicate %s tag on field %s", role, f.Name)
	}
	meta.roles[role] = idx
	return nil
}

func validateSchema(meta *schemaMeta, t reflect.Type) (*schemaMeta, error) {
	if _, ok := meta.roles[RoleID]; !ok {
		return nil, fmt.Errorf("gallerydex: no field with `gallerydex:\"id\"` tag in %s", t)
	}
	if len(meta.roles) == 1 {
		return nil, fmt.Errorf("gallerydex: %s has no searchable fields", t)
	}
	return meta, nil
}

// toImage converts a typed struct to Image using schema metadata.
func (m *schemaMeta) toImage(item any) (Image, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Image{}, errNilItem
		}
		v = v.Elem()
	}

	img := Image{ID: m.text(v, RoleID)}
	img.Title = m.text(v, RoleTitle)
	img.Description = m.text(v, RoleDescription)
	img.Category = m.text(v, RoleCategory)
	img.Alt = m.text(v, RoleAlt)
	img.LongDescription = m.text(v, RoleLongDescription)
	img.URL = m.text(v, RoleURL)
	img.Tags = m.tags(v)
	return img, nil
}

func (m *schemaMeta) text(v reflect.Value, role string) string {
	idx, ok := m.roles[role]
	if !ok {
		return ""
	}
	f := v.Field(idx)
	if f.Kind() == reflect.String {
		return f.String()
	}
	return fmt.Sprint(f.Interface())
}

// tags accepts []string as-is and splits a string on commas.
func (m *schemaMeta) tags(v reflect.Value) []string {
	idx, ok := m.roles[RoleTags]
	if !ok {
		return nil
	}
	f := v.Field(idx)
	if f.Kind() == reflect.String {
		var out []string
		for _, t := range strings.Split(f.String(), ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
		return out
	}
	out := make([]string, f.Len())
	for i := range f.Len() {
		out[i] = f.Index(i).String()
	}
	return out
}

func isStringSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String
}
