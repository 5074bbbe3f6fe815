package model

import (
	"strings"
)

// TypeRef names a type by namespace and simple name.
type TypeRef struct {
	Namespace string // "java.util", "" for primitives and the default package
	Name      string // "List", "int", "Bean"
}

// QualifiedName joins namespace and name with a dot.
func (r TypeRef) QualifiedName() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// ParseTypeRef splits a dotted qualified name into a TypeRef.
func ParseTypeRef(qualified string) TypeRef {
	i := strings.LastIndexByte(qualified, '.')
	if i < 0 {
		return TypeRef{Name: qualified}
	}
	return TypeRef{Namespace: qualified[:i], Name: qualified[i+1:]}
}

type FieldDescriptor struct {
	Name  string // identifier as declared
	Shape *Shape
}

// TypeDescriptor is one model type to mirror. Static fields never appear in
// Fields; discovery drops them.
type TypeDescriptor struct {
	QualifiedName string
	Fields        []FieldDescriptor
	Source        string // schema file the descriptor came from, for diagnostics
}

func (d *TypeDescriptor) Ref() TypeRef {
	return ParseTypeRef(d.QualifiedName)
}

func (d *TypeDescriptor) Namespace() string {
	return d.Ref().Namespace
}

func (d *TypeDescriptor) SimpleName() string {
	return d.Ref().Name
}

// MirrorSet is the set of descriptors generated together in one run.
type MirrorSet struct {
	order  []*TypeDescriptor
	byName map[string]*TypeDescriptor
}

// NewMirrorSet indexes descriptors by qualified name. Later duplicates win
// the index but the order keeps every entry; discovery rejects duplicates
// before this point.
func NewMirrorSet(descriptors []*TypeDescriptor) *MirrorSet {
	s := &MirrorSet{
		order:  make([]*TypeDescriptor, 0, len(descriptors)),
		byName: make(map[string]*TypeDescriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if d == nil {
			continue
		}
		s.order = append(s.order, d)
		s.byName[d.QualifiedName] = d
	}
	return s
}

// Contains reports whether ref is mirrored in this run.
func (s *MirrorSet) Contains(ref TypeRef) bool {
	if s == nil {
		return false
	}
	_, ok := s.byName[ref.QualifiedName()]
	return ok
}

func (s *MirrorSet) Lookup(qualifiedName string) (*TypeDescriptor, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.byName[qualifiedName]
	return d, ok
}

// Descriptors returns the descriptors in caller order.
func (s *MirrorSet) Descriptors() []*TypeDescriptor {
	if s == nil {
		return nil
	}
	return s.order
}

func (s *MirrorSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
