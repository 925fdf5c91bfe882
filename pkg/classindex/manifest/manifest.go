// Package manifest stores a type index ahead of time so a later scan does not
// need the module sources. The format is JSON:
//
//	{
//	  "version": 1,
//	  "module": "example.com/acme",
//	  "types": [
//	    {"package": "example.com/acme/api", "name": "UserResource", "kind": "struct",
//	     "file": "api/user.go", "methods": ["Get"], "markers": {"path": "/users"}}
//	  ]
//	}
package manifest

import (
	"fmt"
	"io"
	"os"

	"openapiscan/pkg/classindex"
	"openapiscan/pkg/domain"
	"openapiscan/pkg/serrors"

	"github.com/go-faster/jx"
)

// Version is the manifest format version written by Encode.
const Version = 1

// Encode writes snap to w. indent > 0 pretty-prints with that many spaces.
func Encode(w io.Writer, snap *classindex.Snapshot, indent int) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.SetIdent(indent)

	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(Version) })
		e.Field("module", func(e *jx.Encoder) { e.Str(snap.Module) })
		e.Field("types", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, t := range snap.Types() {
					EncodeType(e, t)
				}
			})
		})
	})

	if _, err := w.Write(e.Bytes()); err != nil {
		return fmt.Errorf("could not write manifest: %w", err)
	}

	return nil
}

// EncodeType writes a single type object.
func EncodeType(e *jx.Encoder, t domain.TypeRef) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("package", func(e *jx.Encoder) { e.Str(t.Package) })
		e.Field("name", func(e *jx.Encoder) { e.Str(t.Name) })
		e.Field("kind", func(e *jx.Encoder) { e.Str(string(t.Kind)) })
		if t.File != "" {
			e.Field("file", func(e *jx.Encoder) { e.Str(t.File) })
		}
		if len(t.Methods) > 0 {
			e.Field("methods", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, m := range t.Methods {
						e.Str(m)
					}
				})
			})
		}
		if len(t.Markers) > 0 {
			e.Field("markers", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					for _, m := range domain.Markers() {
						if arg, ok := t.Markers[m]; ok {
							e.Field(string(m), func(e *jx.Encoder) { e.Str(arg) })
						}
					}
				})
			})
		}
	})
}

// Decode reads a manifest from r. Malformed input, an unsupported version and
// entries without package or name fail with serrors.ErrBadRequest.
func Decode(r io.Reader) (*classindex.Snapshot, error) {
	var (
		version int
		module  string
		types   []domain.TypeRef
	)

	d := jx.Decode(r, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			version, err = d.Int()
		case "module":
			module, err = d.Str()
		case "types":
			err = d.Arr(func(d *jx.Decoder) error {
				t, err := decodeType(d)
				if err != nil {
					return err
				}
				types = append(types, t)

				return nil
			})
		default:
			err = d.Skip()
		}

		return err
	})
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not decode manifest")
	}
	if version != Version {
		return nil, serrors.With(serrors.ErrBadRequest, "unsupported manifest version %d", version)
	}

	return classindex.NewSnapshot(module, types), nil
}

func decodeType(d *jx.Decoder) (domain.TypeRef, error) {
	var t domain.TypeRef
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "package":
			v, err := d.Str()
			t.Package = v

			return err
		case "name":
			v, err := d.Str()
			t.Name = v

			return err
		case "kind":
			v, err := d.Str()
			t.Kind = domain.TypeKind(v)

			return err
		case "file":
			v, err := d.Str()
			t.File = v

			return err
		case "methods":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				t.Methods = append(t.Methods, v)

				return err
			})
		case "markers":
			t.Markers = make(map[domain.Marker]string)

			return d.Obj(func(d *jx.Decoder, key string) error {
				v, err := d.Str()
				t.Markers[domain.Marker(key)] = v

				return err
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return t, err
	}
	if t.Package == "" || t.Name == "" {
		return t, fmt.Errorf("type entry without package or name")
	}

	return t, nil
}

// Save writes snap to the file at path.
func Save(path string, snap *classindex.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create manifest: %w", err)
	}

	if err := Encode(f, snap, 2); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// Load reads the manifest file at path.
func Load(path string) (*classindex.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, serrors.Wrap(serrors.ErrNotFound, err, "manifest %s does not exist", path)
		}

		return nil, fmt.Errorf("could not open manifest: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
