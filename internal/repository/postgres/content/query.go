package content

import (
	"fmt"
	"strings"

	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	"pagetree/internal/schema"

	"github.com/jackc/pgx/v5"
)

// Column kinds decide how filter values are encoded
const (
	kindInt = iota
	kindText
	kindTime
)

// column is a SQL expression a filter or sort can target
type column struct {
	expr string
	kind int
}

// selectBuilder turns a repository Query into one SELECT over a kind table.
// Values always travel as parameters; identifiers come from the schema and
// are quoted.
type selectBuilder struct {
	table string
	ct    *schema.ContentType
	args  []any
}

func newSelectBuilder(table string, ct *schema.ContentType) *selectBuilder {
	return &selectBuilder{table: table, ct: ct}
}

// relationColumn is the storage column of a single relation field
func relationColumn(field string) string {
	return pgx.Identifier{field + "_id"}.Sanitize()
}

func (b *selectBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *selectBuilder) column(field string) (column, error) {
	switch field {
	case models.FieldID:
		return column{"t.id", kindInt}, nil
	case models.FieldDocumentID:
		return column{"t.document_id", kindText}, nil
	case models.FieldSlug:
		return column{"t.slug", kindText}, nil
	case models.FieldPublishedAt:
		return column{"t.published_at", kindTime}, nil
	}

	f, ok := b.ct.Field(field)
	if !ok {
		return column{}, fmt.Errorf("unknown field %q on %s", field, b.ct.Kind)
	}
	if f.IsSingleRelation() {
		return column{"t." + relationColumn(field), kindInt}, nil
	}
	return column{"(t.attributes->>" + b.arg(field) + ")", kindText}, nil
}

// build returns the statement and its arguments. Populated relations come
// from a LEFT JOIN on the same table, so dangling references keep their raw
// id with a NULL joined row.
func (b *selectBuilder) build(q repo.Query) (string, []any, error) {
	var sb strings.Builder

	sb.WriteString("SELECT t.id, t.document_id, COALESCE(t.slug, ''), t.published_at, ")
	sb.WriteString(b.projection(q.Fields))

	if q.Populate != "" {
		f, ok := b.ct.Field(q.Populate)
		if !ok || !f.IsSingleRelation() {
			return "", nil, fmt.Errorf("cannot populate %q on %s", q.Populate, b.ct.Kind)
		}
		rel := relationColumn(q.Populate)
		fmt.Fprintf(&sb, ", t.%s, p.id, p.document_id FROM %s t LEFT JOIN %s p ON p.id = t.%s",
			rel, b.table, b.table, rel)
	} else {
		fmt.Fprintf(&sb, " FROM %s t", b.table)
	}

	var where []string
	for _, f := range q.Filters {
		cond, err := b.condition(f)
		if err != nil {
			return "", nil, err
		}
		where = append(where, cond)
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if q.Sort != nil {
		col, err := b.column(q.Sort.Field)
		if err != nil {
			return "", nil, err
		}
		dir := "ASC"
		if q.Sort.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s NULLS LAST, t.id ASC", col.expr, dir)
	} else {
		sb.WriteString(" ORDER BY t.id ASC")
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	return sb.String(), b.args, nil
}

func (b *selectBuilder) projection(fields []string) string {
	if fields == nil {
		return "t.attributes"
	}
	if len(fields) == 0 {
		return "'{}'::jsonb"
	}
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		p := b.arg(f)
		pairs = append(pairs, fmt.Sprintf("%s::text, t.attributes->%s::text", p, p))
	}
	return "jsonb_strip_nulls(jsonb_build_object(" + strings.Join(pairs, ", ") + "))"
}

func (b *selectBuilder) condition(f repo.Filter) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	col, err := b.column(f.Field)
	if err != nil {
		return "", err
	}

	switch f.Op {
	case repo.OpIsNull, repo.OpIsNotNull:
		return fmt.Sprintf("%s %s", col.expr, f.Op), nil
	case repo.OpIn:
		values := f.Value.([]any)
		if len(values) == 0 {
			return "FALSE", nil
		}
		list, err := encodeList(col.kind, values)
		if err != nil {
			return "", fmt.Errorf("filter %s: %w", f.Field, err)
		}
		return fmt.Sprintf("%s = ANY(%s)", col.expr, b.arg(list)), nil
	default:
		v, err := encode(col.kind, f.Value)
		if err != nil {
			return "", fmt.Errorf("filter %s: %w", f.Field, err)
		}
		return fmt.Sprintf("%s %s %s", col.expr, f.Op, b.arg(v)), nil
	}
}

func encode(kind int, v any) (any, error) {
	switch kind {
	case kindInt:
		ref := models.ReferenceFrom(v)
		if ref == nil || ref.ID == 0 {
			return nil, fmt.Errorf("expected an integer id, got %v", v)
		}
		return ref.ID, nil
	case kindText:
		return fmt.Sprint(v), nil
	}
	return v, nil
}

func encodeList(kind int, values []any) (any, error) {
	switch kind {
	case kindInt:
		ids := make([]int64, 0, len(values))
		for _, v := range values {
			id, err := encode(kind, v)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id.(int64))
		}
		return ids, nil
	case kindText:
		texts := make([]string, 0, len(values))
		for _, v := range values {
			texts = append(texts, fmt.Sprint(v))
		}
		return texts, nil
	}
	return values, nil
}
