package format

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/dhamidi/javasem/semantic"
)

type JSONEncoder struct {
	w     io.Writer
	class *semantic.TypeSymbol
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *semantic.TypeSymbol) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildClass(e.class), "", "  ")
}

type jsonClass struct {
	Name           string       `json:"name"`
	FlatName       string       `json:"flatName"`
	SimpleName     string       `json:"simpleName"`
	Package        string       `json:"package"`
	Kind           string       `json:"kind"`
	Modifiers      []string     `json:"modifiers,omitempty"`
	TypeParameters []string     `json:"typeParameters,omitempty"`
	SuperClass     string       `json:"superClass,omitempty"`
	Interfaces     []string     `json:"interfaces,omitempty"`
	Annotations    []string     `json:"annotations,omitempty"`
	Fields         []jsonField  `json:"fields,omitempty"`
	Methods        []jsonMethod `json:"methods,omitempty"`
	Classes        []jsonClass  `json:"classes,omitempty"`
}

type jsonField struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Modifiers []string `json:"modifiers,omitempty"`
	Constant  any      `json:"constant,omitempty"`
}

type jsonMethod struct {
	Name       string          `json:"name"`
	ReturnType string          `json:"returnType,omitempty"`
	Parameters []jsonParameter `json:"parameters,omitempty"`
	Thrown     []string        `json:"thrown,omitempty"`
	Modifiers  []string        `json:"modifiers,omitempty"`
}

type jsonParameter struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

func buildClass(c *semantic.TypeSymbol) jsonClass {
	data := jsonClass{
		Name:        c.FullName(),
		FlatName:    c.FlatName(),
		SimpleName:  c.Name(),
		Kind:        classKind(c),
		Modifiers:   modifierList(c.Flags() &^ (semantic.Interface | semantic.Annotation | semantic.Enum)),
		Interfaces:  typeNames(c.Interfaces()),
		Annotations: c.Annotations(),
	}
	if pkg := semantic.PackageOf(c); pkg != nil {
		data.Package = pkg.FullName()
	}
	for _, tv := range c.TypeParameters() {
		data.TypeParameters = append(data.TypeParameters, tv.Name())
	}
	if sup := c.Superclass(); sup != nil {
		data.SuperClass = sup.String()
	}
	for _, sym := range c.Members().Members() {
		switch s := sym.(type) {
		case *semantic.TypeSymbol:
			data.Classes = append(data.Classes, buildClass(s))
		case *semantic.MethodSymbol:
			data.Methods = append(data.Methods, buildMethod(s))
		case *semantic.VariableSymbol:
			if s.Flags().Has(semantic.Synthetic) {
				continue
			}
			data.Fields = append(data.Fields, jsonField{
				Name:      s.Name(),
				Type:      s.Type().String(),
				Modifiers: modifierList(s.Flags()),
				Constant:  s.Constant(),
			})
		}
	}
	return data
}

func buildMethod(m *semantic.MethodSymbol) jsonMethod {
	data := jsonMethod{
		Name:      m.Name(),
		Thrown:    typeNames(m.ThrownTypes()),
		Modifiers: modifierList(m.Flags()),
	}
	if !m.IsConstructor() {
		data.ReturnType = m.ReturnType().String()
	}
	// Inner class constructors take the outer instance before the declared
	// parameters.
	params := m.Parameters()
	for i, t := range m.MethodType().Params {
		p := jsonParameter{Type: t.String()}
		if off := len(m.MethodType().Params) - len(params); i >= off && len(params) > 0 {
			p.Name = params[i-off].Name()
		}
		data.Parameters = append(data.Parameters, p)
	}
	return data
}

func typeNames(types []semantic.Type) []string {
	var out []string
	for _, t := range types {
		out = append(out, t.String())
	}
	return out
}

func modifierList(f semantic.Flags) []string {
	if s := f.String(); s != "" {
		return strings.Fields(s)
	}
	return nil
}
