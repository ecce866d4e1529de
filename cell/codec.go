package cell

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownCodec is returned by CodecByName for names it does not know.
var ErrUnknownCodec = errors.New("cell: unknown codec")

// Codec turns one persisted value into text and back. Every entry is encoded on its own,
// so a value that no longer decodes only loses that entry.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	// JSON encodes values with encoding/json.
	JSON Codec = jsonCodec{}

	// YAML encodes values with gopkg.in/yaml.v3.
	YAML Codec = yamlCodec{}
)

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) Name() string                       { return "yaml" }
func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// CodecByName returns the codec registered under name ("json" or "yaml").
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
