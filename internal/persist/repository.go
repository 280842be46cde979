package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"easel/internal/element"
)

// DefaultKey is the storage key holding the element list.
const DefaultKey = "canvas-elements"

// ErrMalformed is returned by Load when the stored payload is not a JSON
// array of element records.
var ErrMalformed = errors.New("malformed canvas data")

const elementsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"type": {"enum": ["rectangle", "text"]},
			"x": {"type": "number"},
			"y": {"type": "number"},
			"width": {"type": "number"},
			"height": {"type": "number"},
			"rotation": {"type": "number"},
			"bg": {"type": "string"},
			"color": {"type": "string"},
			"fontWeight": {"type": "string"},
			"fontStyle": {"type": "string"},
			"textDecoration": {"type": "string"},
			"text": {"type": "string"}
		}
	}
}`

var schema = jsonschema.MustCompileString("easel://elements.schema.json", elementsSchema)

// Repository reads and writes the element list under one key.
type Repository struct {
	backend Backend
	key     string

	mu      sync.Mutex
	written []byte
}

func NewRepository(b Backend, key string) *Repository {
	if key == "" {
		key = DefaultKey
	}
	return &Repository{backend: b, key: key}
}

func (r *Repository) Key() string { return r.key }

// Save overwrites the stored list with elems.
func (r *Repository) Save(elems []element.Element) error {
	data, err := Encode(elems)
	if err != nil {
		return err
	}
	if err := r.backend.Put(context.Background(), r.key, data); err != nil {
		return err
	}
	r.mu.Lock()
	r.written = data
	r.mu.Unlock()
	return nil
}

// Load returns the stored list. ok is false when nothing was ever stored.
// A payload that is not an array of element records yields ErrMalformed.
func (r *Repository) Load(ctx context.Context) (elems []element.Element, ok bool, err error) {
	data, ok, err := r.backend.Get(ctx, r.key)
	if err != nil || !ok {
		return nil, false, err
	}
	elems, err = Decode(data)
	if err != nil {
		return nil, true, err
	}
	return elems, true, nil
}

// Changed reports whether the stored payload differs from what this
// repository last wrote.
func (r *Repository) Changed(ctx context.Context) (bool, error) {
	data, ok, err := r.backend.Get(ctx, r.key)
	if err != nil || !ok {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return !bytes.Equal(data, r.written), nil
}

// Encode renders elems as the persisted JSON array.
func Encode(elems []element.Element) ([]byte, error) {
	if elems == nil {
		elems = []element.Element{}
	}
	data, err := json.Marshal(elems)
	if err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	return data, nil
}

// Decode parses and validates a persisted payload. Ids must be unique.
// Missing optional fields are filled with lenient defaults.
func Decode(data []byte) ([]element.Element, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, firstLine(err.Error()))
	}

	var elems []element.Element
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	seen := make(map[string]bool, len(elems))
	for i := range elems {
		if seen[elems[i].ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformed, elems[i].ID)
		}
		seen[elems[i].ID] = true
		elems[i].Normalize()
	}
	return elems, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
