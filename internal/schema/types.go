package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldType is the declared type of a content-type attribute
type FieldType string

const (
	FieldTypeString      FieldType = "string"
	FieldTypeText        FieldType = "text"
	FieldTypeUID         FieldType = "uid"
	FieldTypeEnumeration FieldType = "enumeration"
	FieldTypeDatetime    FieldType = "datetime"
	FieldTypeInteger     FieldType = "integer"
	FieldTypeBoolean     FieldType = "boolean"
	FieldTypeRelation    FieldType = "relation"
)

// RelationShape describes the cardinality of a relation attribute
type RelationShape string

const (
	RelationOneToOne   RelationShape = "oneToOne"
	RelationManyToOne  RelationShape = "manyToOne"
	RelationOneToMany  RelationShape = "oneToMany"
	RelationManyToMany RelationShape = "manyToMany"
)

// Field is a single declared attribute of a content type
type Field struct {
	// Name is set during YAML unmarshaling from the map key
	Name        string        `yaml:"-" json:"name"`
	Type        FieldType     `yaml:"type" json:"type"`
	Required    bool          `yaml:"required" json:"required,omitempty"`
	Relation    RelationShape `yaml:"relation" json:"relation,omitempty"`
	Target      string        `yaml:"target" json:"target,omitempty"`
	TargetField string        `yaml:"target_field" json:"target_field,omitempty"`
	Enum        []string      `yaml:"enum" json:"enum,omitempty"`
}

// IsRelation reports whether the field links to other records
func (f *Field) IsRelation() bool {
	return f.Type == FieldTypeRelation
}

// IsSingleRelation reports whether the field holds at most one linked record.
// Only these shapes can express a parent reference.
func (f *Field) IsSingleRelation() bool {
	return f.IsRelation() && (f.Relation == RelationOneToOne || f.Relation == RelationManyToOne)
}

// ContentType is the schema of one content kind
type ContentType struct {
	UID             string  `yaml:"uid" json:"uid"`
	Kind            string  `yaml:"-" json:"kind"` // derived from UID: api::pagina.pagina -> pagina
	Table           string  `yaml:"table" json:"table"`
	DraftAndPublish bool    `yaml:"draft_and_publish" json:"draft_and_publish"`
	Fields          []Field `yaml:"-" json:"fields"` // declaration order, populated by custom unmarshaler
}

// Field returns the declared field with the given name
func (c *ContentType) Field(name string) (*Field, bool) {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i], true
		}
	}
	return nil, false
}

// HasField reports whether name is a declared attribute
func (c *ContentType) HasField(name string) bool {
	_, ok := c.Field(name)
	return ok
}

// FieldNames returns declared field names in declaration order
func (c *ContentType) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		names = append(names, f.Name)
	}
	return names
}

// SingleRelations returns the names of every single-valued relation, which
// are the only relations a storage adapter keeps as a column.
func (c *ContentType) SingleRelations() []string {
	var names []string
	for _, f := range c.Fields {
		if f.IsSingleRelation() {
			names = append(names, f.Name)
		}
	}
	return names
}

// UnmarshalYAML preserves field declaration order, which parent-field
// auto-detection depends on.
func (c *ContentType) UnmarshalYAML(node *yaml.Node) error {
	type plain struct {
		UID             string           `yaml:"uid"`
		Table           string           `yaml:"table"`
		DraftAndPublish bool             `yaml:"draft_and_publish"`
		Fields          map[string]Field `yaml:"fields"`
	}
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	c.UID = p.UID
	c.Table = p.Table
	c.DraftAndPublish = p.DraftAndPublish

	kind, err := KindFromUID(p.UID)
	if err != nil {
		return err
	}
	c.Kind = kind

	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value != "fields" {
			continue
		}
		fieldsNode := node.Content[i+1]
		for j := 0; j < len(fieldsNode.Content); j += 2 {
			name := fieldsNode.Content[j].Value
			if f, ok := p.Fields[name]; ok {
				f.Name = name
				c.Fields = append(c.Fields, f)
			}
		}
		break
	}

	return nil
}

// KindFromUID extracts the kind name from a uid like "api::pagina.pagina"
func KindFromUID(uid string) (string, error) {
	rest, ok := strings.CutPrefix(uid, "api::")
	if !ok {
		return "", fmt.Errorf("content type uid %q must start with api::", uid)
	}
	kind, _, _ := strings.Cut(rest, ".")
	if kind == "" {
		return "", fmt.Errorf("content type uid %q has no kind", uid)
	}
	return kind, nil
}
