package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/javasem/semantic"
)

// TextEncoder prints a class header followed by its members, nested
// classes indented under their owner. Synthetic variables are omitted.
type TextEncoder struct {
	w io.Writer
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(class *semantic.TypeSymbol) error {
	return e.class(class, 0)
}

func (e *TextEncoder) class(c *semantic.TypeSymbol, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(e.w, "%s%s\n", indent, ClassHeader(c)); err != nil {
		return err
	}
	for _, sym := range c.Members().Members() {
		var err error
		switch s := sym.(type) {
		case *semantic.TypeSymbol:
			err = e.class(s, depth+1)
		case *semantic.MethodSymbol:
			_, err = fmt.Fprintf(e.w, "%s  %s\n", indent, MethodLine(s))
		case *semantic.VariableSymbol:
			if s.Flags().Has(semantic.Synthetic) {
				continue
			}
			_, err = fmt.Fprintf(e.w, "%s  %s%s %s\n", indent, modifiers(s.Flags()), s.Type(), s.Name())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ClassHeader renders modifiers, kind, name and supertypes on one line.
func ClassHeader(c *semantic.TypeSymbol) string {
	var b strings.Builder
	b.WriteString(modifiers(c.Flags() &^ (semantic.Interface | semantic.Annotation | semantic.Enum)))
	switch kind := classKind(c); kind {
	case "annotation":
		b.WriteString("@interface ")
	default:
		b.WriteString(kind + " ")
	}
	b.WriteString(c.FullName())
	if sup := c.Superclass(); sup != nil && !c.IsEnum() {
		b.WriteString(" extends " + sup.String())
	}
	for i, iface := range c.Interfaces() {
		if i == 0 {
			b.WriteString(" implements ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(iface.String())
	}
	return b.String()
}

func MethodLine(m *semantic.MethodSymbol) string {
	if m.IsConstructor() {
		return modifiers(m.Flags()) + m.Signature()
	}
	return modifiers(m.Flags()) + m.ReturnType().String() + " " + m.Signature()
}

func modifiers(f semantic.Flags) string {
	if s := f.String(); s != "" {
		return s + " "
	}
	return ""
}
