package emitter

import (
	"unicode"
	"unicode/utf8"

	"github.com/cmmoran/dtogen/internal/model"
)

// exported upper-cases the first character of name.
func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// AccessorName is "is"+Name for a primitive boolean field, "get"+Name otherwise.
func AccessorName(f model.FieldDescriptor) string {
	if f.Shape.IsBoolean() {
		return "is" + exported(f.Name)
	}
	return "get" + exported(f.Name)
}

func MutatorName(f model.FieldDescriptor) string {
	return "set" + exported(f.Name)
}
