package model

import (
	"strings"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

type Kind int

const (
	KindInvalid       Kind = iota // could not be classified; carries Raw
	KindSimple                    // non-generic, non-array type
	KindArray                     // Elem with Dims >= 1
	KindParameterized             // generic container Ref with Args
)

// Shape is the structural classification of a field's declared type. It is
// always a finite tree.
type Shape struct {
	Kind Kind

	// Ref is the type for KindSimple and the raw container for KindParameterized.
	Ref TypeRef

	// Elem and Dims describe KindArray. Dims counts from the innermost
	// non-array component, so Bean[][] is Array(Simple(Bean), 2).
	Elem *Shape
	Dims int

	// Args are the type arguments of KindParameterized, in order.
	Args []*Shape

	// Raw keeps the original text of a KindInvalid shape.
	Raw string
}

func Simple(ref TypeRef) *Shape {
	return &Shape{Kind: KindSimple, Ref: ref}
}

func Array(elem *Shape, dims int) *Shape {
	return &Shape{Kind: KindArray, Elem: elem, Dims: dims}
}

func Parameterized(raw TypeRef, args ...*Shape) *Shape {
	return &Shape{Kind: KindParameterized, Ref: raw, Args: args}
}

func Invalid(raw string) *Shape {
	return &Shape{Kind: KindInvalid, Raw: raw}
}

// IsBoolean reports whether the shape is the primitive boolean.
func (s *Shape) IsBoolean() bool {
	return s != nil && s.Kind == KindSimple && s.Ref.Namespace == "" && s.Ref.Name == "boolean"
}

// RawSimpleName is the simple name of the declared type with array markers
// and without type arguments: "List" for List<Bean>, "Bean[]" for Bean[].
func (s *Shape) RawSimpleName() string {
	if s == nil {
		return ""
	}
	switch s.Kind {
	case KindSimple, KindParameterized:
		return s.Ref.Name
	case KindArray:
		return s.Elem.RawSimpleName() + strings.Repeat("[]", s.Dims)
	default:
		return s.Raw
	}
}

// String renders the shape with fully qualified names, for diagnostics.
func (s *Shape) String() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case KindSimple:
		return s.Ref.QualifiedName()
	case KindArray:
		return s.Elem.String() + strings.Repeat("[]", s.Dims)
	case KindParameterized:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = a.String()
		}
		return s.Ref.QualifiedName() + "<" + strings.Join(args, ", ") + ">"
	default:
		return s.Raw
	}
}
