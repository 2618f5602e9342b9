// Package format renders class symbols for people and tools.
package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/javasem/semantic"
)

type Encoder interface {
	Encode(class *semantic.TypeSymbol) error
}

// New returns the encoder called name: "text" or "json".
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "text", "":
		return NewTextEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}

func classKind(c *semantic.TypeSymbol) string {
	switch {
	case c.IsAnnotation():
		return "annotation"
	case c.IsEnum():
		return "enum"
	case c.IsInterface():
		return "interface"
	}
	return "class"
}
