package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IndexFieldType enumerates the FT field types used by feed documents.
type IndexFieldType int

const (
	// IndexFieldNumeric is a numeric range field.
	IndexFieldNumeric IndexFieldType = iota
	// IndexFieldTag is an exact-match tag field.
	IndexFieldTag
	// IndexFieldText is a full-text field.
	IndexFieldText
)

// String returns the FT.CREATE keyword, "" for unknown types.
func (t IndexFieldType) String() string {
	switch t {
	case IndexFieldNumeric:
		return "NUMERIC"
	case IndexFieldTag:
		return "TAG"
	case IndexFieldText:
		return "TEXT"
	default:
		return ""
	}
}

// IndexField is one attribute of an FT schema.
type IndexField struct {
	Name          string
	Type          IndexFieldType
	Sortable      bool
	CaseSensitive bool // TAG only
}

// IndexDefinition is an FT index over hashes under Prefixes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField

	// KeepStopWords indexes and queries every term, including the
	// server's default stop words ("STOPWORDS 0").
	KeepStopWords bool
}

// Validate checks that the definition can be sent to FT.CREATE.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !isIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	for i, f := range idx.Fields {
		if f.Name == "" {
			return errors.New("field name is required at position " + strconv.Itoa(i))
		}
		if f.Type.String() == "" {
			return fmt.Errorf("field %q: unknown type %d", f.Name, f.Type)
		}
		if f.CaseSensitive && f.Type != IndexFieldTag {
			return fmt.Errorf("field %q: CASESENSITIVE applies to TAG fields only", f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// CreateArgs renders the FT.CREATE arguments that follow the command name.
func (idx *IndexDefinition) CreateArgs() ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	args := []string{idx.Name, "ON", "HASH"}
	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}
	if idx.KeepStopWords {
		args = append(args, "STOPWORDS", "0")
	}
	args = append(args, "SCHEMA")
	for _, f := range idx.Fields {
		args = append(args, f.Name, f.Type.String())
		if f.CaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
		if f.Sortable {
			args = append(args, "SORTABLE")
		}
	}
	return args, nil
}

// String renders the FT.CREATE command for logs.
func (idx *IndexDefinition) String() string {
	args, err := idx.CreateArgs()
	if err != nil {
		return "FT.CREATE <invalid: " + err.Error() + ">"
	}
	return "FT.CREATE " + strings.Join(args, " ")
}

// isIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == ':' || r == '-':
		default:
			return false
		}
	}
	return true
}
