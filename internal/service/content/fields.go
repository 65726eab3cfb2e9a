package content

import (
	"fmt"

	"pagetree/internal/domain"
	models "pagetree/internal/domain/models/content"
	"pagetree/internal/schema"
)

// Conventional parent relation names, tried when no self relation is declared
var parentFieldFallbacks = []string{"parent", "pagina", "categoria", "genitore"}

// Label preference when no label field is requested
var labelFieldPreference = []string{"title", "titolo", "name", "label"}

// hierarchy is a content kind resolved together with the fields a walk needs
type hierarchy struct {
	ct          *schema.ContentType
	parentField string
	labelField  string
}

func lookupContentType(registry *schema.Registry, name string) (*schema.ContentType, error) {
	ct, ok := registry.Lookup(name)
	if !ok {
		return nil, &domain.ConfigurationError{
			Message:     fmt.Sprintf("unknown content type %q", name),
			ContentType: name,
		}
	}
	return ct, nil
}

// resolveHierarchy looks up a kind and its parent and label fields. Empty
// field names are auto-detected.
func resolveHierarchy(registry *schema.Registry, name, parentField, labelField string) (*hierarchy, error) {
	ct, err := lookupContentType(registry, name)
	if err != nil {
		return nil, err
	}

	parent, err := resolveParentField(ct, parentField)
	if err != nil {
		return nil, err
	}

	return &hierarchy{
		ct:          ct,
		parentField: parent,
		labelField:  resolveLabelField(ct, labelField),
	}, nil
}

// resolveParentField picks the relation linking a record to its parent: the
// explicit field when given, else the first single-valued relation back to
// the same kind, else the first conventional name declared as a single
// relation. Multi-valued relations cannot hold a parent.
func resolveParentField(ct *schema.ContentType, explicit string) (string, error) {
	if explicit != "" {
		if f, ok := ct.Field(explicit); ok && f.IsSingleRelation() {
			return explicit, nil
		}
		return "", &domain.ConfigurationError{
			Message:         fmt.Sprintf("field %q is not a single relation on %s", explicit, ct.UID),
			ContentType:     ct.UID,
			AvailableFields: ct.FieldNames(),
		}
	}

	for i := range ct.Fields {
		f := &ct.Fields[i]
		if f.IsSingleRelation() && f.Target == ct.UID {
			return f.Name, nil
		}
	}

	for _, name := range parentFieldFallbacks {
		if f, ok := ct.Field(name); ok && f.IsSingleRelation() {
			return name, nil
		}
	}

	return "", &domain.ConfigurationError{
		Message:         fmt.Sprintf("no parent relation found on %s", ct.UID),
		ContentType:     ct.UID,
		AvailableFields: ct.FieldNames(),
	}
}

// resolveLabelField returns the explicit field when declared, else the first
// preferred field the kind declares, else the id.
func resolveLabelField(ct *schema.ContentType, explicit string) string {
	if explicit != "" && ct.HasField(explicit) {
		return explicit
	}
	for _, name := range labelFieldPreference {
		if ct.HasField(name) {
			return name
		}
	}
	return models.FieldID
}
