// Package report renders scan results as the JSON document handed to the
// documentation generator.
package report

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"openapiscan/pkg/classindex/manifest"
	"openapiscan/pkg/domain"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// Report holds the three result sets of one scan.
type Report struct {
	// RunID identifies the scan run.
	RunID uuid.UUID
	// Module is the scanned module path.
	Module string
	// ApplicationType is the FQN of the application type, if one was constructed.
	ApplicationType string
	// Application is the constructed application, or nil.
	Application domain.Application
	// Schemas are the types found under the schema packages.
	Schemas domain.TypeSet
	// Classes are the path and definition marked types.
	Classes domain.TypeSet
}

// New returns an empty report with a fresh run id.
func New(module string) *Report {
	return &Report{
		RunID:   uuid.New(),
		Module:  module,
		Schemas: domain.NewTypeSet(),
		Classes: domain.NewTypeSet(),
	}
}

// Write encodes r to w. indent > 0 pretty-prints with that many spaces.
func Write(w io.Writer, r *Report, indent int) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.SetIdent(indent)

	e.Obj(func(e *jx.Encoder) {
		e.Field("runId", func(e *jx.Encoder) { e.Str(r.RunID.String()) })
		e.Field("module", func(e *jx.Encoder) { e.Str(r.Module) })
		e.Field("application", func(e *jx.Encoder) { encodeApplication(e, r) })
		e.Field("schemas", func(e *jx.Encoder) { encodeTypes(e, r.Schemas) })
		e.Field("classes", func(e *jx.Encoder) { encodeTypes(e, r.Classes) })
	})

	if _, err := w.Write(e.Bytes()); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}

	return nil
}

// encodeApplication writes null when no application type was found. The
// resources and properties are only present when the type was constructed.
func encodeApplication(e *jx.Encoder, r *Report) {
	if r.ApplicationType == "" && r.Application == nil {
		e.Null()

		return
	}

	e.Obj(func(e *jx.Encoder) {
		e.Field("type", func(e *jx.Encoder) { e.Str(r.ApplicationType) })
		if r.Application == nil {
			return
		}
		e.Field("resources", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, res := range r.Application.Resources() {
					e.Str(res)
				}
			})
		})
		e.Field("properties", func(e *jx.Encoder) { encodeValue(e, r.Application.Properties()) })
	})
}

// encodeValue writes scalars, slices and string keyed maps as their JSON
// counterparts. Anything else is written as its fmt representation.
func encodeValue(e *jx.Encoder, v any) {
	switch v := v.(type) {
	case nil:
		e.Null()
	case string:
		e.Str(v)
	case bool:
		e.Bool(v)
	case int:
		e.Int(v)
	case int8:
		e.Int8(v)
	case int16:
		e.Int16(v)
	case int32:
		e.Int32(v)
	case int64:
		e.Int64(v)
	case uint:
		e.UInt(v)
	case uint8:
		e.UInt8(v)
	case uint16:
		e.UInt16(v)
	case uint32:
		e.UInt32(v)
	case uint64:
		e.UInt64(v)
	case float32:
		e.Float32(v)
	case float64:
		e.Float64(v)
	case []string:
		e.Arr(func(e *jx.Encoder) {
			for _, item := range v {
				e.Str(item)
			}
		})
	case []any:
		e.Arr(func(e *jx.Encoder) {
			for _, item := range v {
				encodeValue(e, item)
			}
		})
	case map[string]any:
		e.Obj(func(e *jx.Encoder) {
			for _, k := range slices.Sorted(maps.Keys(v)) {
				e.Field(k, func(e *jx.Encoder) { encodeValue(e, v[k]) })
			}
		})
	case fmt.Stringer:
		e.Str(v.String())
	default:
		e.Str(fmt.Sprint(v))
	}
}

func encodeTypes(e *jx.Encoder, set domain.TypeSet) {
	e.Arr(func(e *jx.Encoder) {
		for _, t := range set.Sorted() {
			manifest.EncodeType(e, t)
		}
	})
}
