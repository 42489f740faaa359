package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Feeling is a named emotional category with presentation metadata.
type Feeling struct {
	Name  string `json:"-"`
	Emoji string `json:"emoji"`
	Color string `json:"cor"`
}

// Label returns the feeling name with its first letter upper-cased.
func (f Feeling) Label() string {
	r, size := utf8.DecodeRuneInString(f.Name)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + f.Name[size:]
}

// Catalog is the ordered, immutable set of feelings. It persists as a JSON
// object keyed by name; key order is preserved in both directions.
type Catalog struct {
	order  []string
	byName map[string]Feeling
}

// NewCatalog builds a catalog from feelings in the given order. Names must
// be non-empty, unique and free of whitespace; colors must be #RRGGBB.
func NewCatalog(feelings []Feeling) (Catalog, error) {
	c := Catalog{
		order:  make([]string, 0, len(feelings)),
		byName: make(map[string]Feeling, len(feelings)),
	}
	for _, f := range feelings {
		if f.Name == "" || strings.ContainsAny(f.Name, " \t\n") {
			return Catalog{}, fmt.Errorf("%w: feeling name %q", ErrInvalidData, f.Name)
		}
		if _, dup := c.byName[f.Name]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate feeling %q", ErrInvalidData, f.Name)
		}
		if !ValidColor(f.Color) {
			return Catalog{}, fmt.Errorf("%w: feeling %q has color %q", ErrInvalidData, f.Name, f.Color)
		}
		c.order = append(c.order, f.Name)
		c.byName[f.Name] = f
	}
	return c, nil
}

// Len returns the number of feelings.
func (c Catalog) Len() int { return len(c.order) }

// Names returns feeling names in catalog order.
func (c Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Feelings returns the feelings in catalog order.
func (c Catalog) Feelings() []Feeling {
	out := make([]Feeling, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// Get returns the feeling with the given name.
func (c Catalog) Get(name string) (Feeling, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// Has reports whether name is in the catalog.
func (c Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// MarshalJSON writes the catalog as an object in catalog order.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a name-keyed object, keeping document order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: catalog: %v", ErrInvalidData, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: catalog must be a JSON object", ErrInvalidData)
	}

	var feelings []Feeling
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: catalog: %v", ErrInvalidData, err)
		}
		name, _ := tok.(string)
		var f Feeling
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("%w: feeling %q: %v", ErrInvalidData, name, err)
		}
		f.Name = name
		feelings = append(feelings, f)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: catalog: %v", ErrInvalidData, err)
	}

	built, err := NewCatalog(feelings)
	if err != nil {
		return err
	}
	*c = built
	return nil
}
