// Package bulkimport runs the CSV import pipeline shared by every
// cadastro entity: column mapping, per-field coercion, duplicate
// detection and batched inserts under row and run deadlines.
package bulkimport

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind selects the coercion applied to a mapped CSV cell.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDate
)

// Field describes one importable column of a target entity.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// Target adapts one entity to the import engine. Exists and Insert run
// under the per-row deadline.
type Target interface {
	// Name is the route slug (cores, fornecedores, ...).
	Name() string
	// Label is the singular display name used in duplicate messages
	// (Cor, Fornecedor, ...).
	Label() string
	// Fields lists the importable columns in mapping order.
	Fields() []Field
	// NaturalKey names the field whose value identifies a duplicate.
	NaturalKey() string
	// Exists reports whether a record with the natural key value is
	// already stored.
	Exists(ctx context.Context, key string) (bool, error)
	// Insert stores one coerced row.
	Insert(ctx context.Context, row map[string]any) error
}

var truthy = map[string]bool{"true": true, "1": true, "sim": true, "yes": true}

// coerce converts a trimmed CSV cell to the field's kind. Empty cells
// yield nil so optional columns stay NULL.
func coerce(f Field, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch f.Kind {
	case KindString:
		return raw, nil
	case KindBool:
		return truthy[strings.ToLower(raw)], nil
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("valor '%s' não é um número inteiro", raw)
		}
		return n, nil
	case KindFloat:
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("valor '%s' não é um número", raw)
		}
		return v, nil
	case KindDate:
		for _, layout := range []string{"2006-01-02", "02/01/2006"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("valor '%s' não é uma data válida", raw)
	default:
		return raw, nil
	}
}
