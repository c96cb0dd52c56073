package schema

// Schema describes the row format of one table. Schemas form a single-parent
// chain through Base; fields of the base-most schema come first.
type Schema struct {
	Name   string
	Table  string // table-association marker; required to resolve a layout
	Base   *Schema
	Fields []Field

	root bool
}

// DBCRecord is the recognised root of every table schema: a leading 32-bit ID.
var DBCRecord = &Schema{
	Name:   "DBCRecord",
	Fields: []Field{{Name: "ID", Kind: KindUint32, Owner: "DBCRecord"}},
	root:   true,
}

// SchemaOption customises a schema.
type SchemaOption func(*Schema)

// Table associates the schema with a table name.
func Table(name string) SchemaOption {
	return func(s *Schema) { s.Table = name }
}

// Extends sets the base schema.
func Extends(base *Schema) SchemaOption {
	return func(s *Schema) { s.Base = base }
}

// Fields appends fields in declaration order.
func Fields(fields ...Field) SchemaOption {
	return func(s *Schema) { s.Fields = append(s.Fields, fields...) }
}

// New builds a schema. It never fails; defects are reported when a layout is
// resolved.
func New(name string, opts ...SchemaOption) *Schema {
	s := &Schema{Name: name}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.Fields {
		s.Fields[i].Owner = name
	}
	return s
}

// Record builds a table schema extending DBCRecord.
func Record(name, table string, fields ...Field) *Schema {
	return New(name, Extends(DBCRecord), Table(table), Fields(fields...))
}

// Chain returns the schema lineage, base-most first. A cyclic chain is cut at
// the first repeated schema.
func (s *Schema) Chain() []*Schema {
	var chain []*Schema
	seen := make(map[*Schema]bool)
	for cur := s; cur != nil && !seen[cur]; cur = cur.Base {
		seen[cur] = true
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// AllFields returns declared and inherited fields, base-most first.
func (s *Schema) AllFields() []Field {
	var fields []Field
	for _, cur := range s.Chain() {
		fields = append(fields, cur.Fields...)
	}
	return fields
}

// IsRecord reports whether the lineage is rooted at DBCRecord.
func (s *Schema) IsRecord() bool {
	chain := s.Chain()
	return len(chain) > 0 && chain[0].root
}

func (s *Schema) String() string {
	return s.Name
}
