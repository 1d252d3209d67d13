package db

import "slices"

// IndexBuilder assembles an IndexDefinition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix restricts the index to hashes whose keys start with one of prefixes.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Numeric adds a filter-only NUMERIC field.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	return b.field(IndexField{Name: name, Type: IndexFieldNumeric})
}

// NumericSortable adds a NUMERIC field usable as an FT.AGGREGATE SORTBY key.
func (b *IndexBuilder) NumericSortable(name string) *IndexBuilder {
	return b.field(IndexField{Name: name, Type: IndexFieldNumeric, Sortable: true})
}

// Tag adds a case-sensitive TAG field. Enum values are stored verbatim.
func (b *IndexBuilder) Tag(name string) *IndexBuilder {
	return b.field(IndexField{Name: name, Type: IndexFieldTag, CaseSensitive: true})
}

// Text adds a TEXT field.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	return b.field(IndexField{Name: name, Type: IndexFieldText})
}

// KeepStopWords disables stop word removal, so every term of a TEXT field is searchable.
func (b *IndexBuilder) KeepStopWords() *IndexBuilder {
	b.def.KeepStopWords = true
	return b
}

func (b *IndexBuilder) field(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := IndexDefinition{
		Name:     b.def.Name,
		Prefixes: slices.Clone(b.def.Prefixes),
		Fields:   slices.Clone(b.def.Fields),

		KeepStopWords: b.def.KeepStopWords,
	}
	return &def, nil
}

// MustBuild is Build for static schemas; it panics on an invalid definition.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
