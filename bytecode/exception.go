package bytecode

import "github.com/jerith/quill/object"

// ExceptionBlock declares one handler of a protected region: the exception
// classes it catches, where its code starts, and the local slot that
// receives the exception (-1 for none).
type ExceptionBlock struct {
	Names    []string
	Types    []object.Object
	Position int
	VarIndex int
}

// Match returns true if exc is an instance of any of the block's types.
func (b ExceptionBlock) Match(s *object.Space, exc object.Object) bool {
	cls := s.TypeOf(exc)
	for _, t := range b.Types {
		if target, ok := t.(*object.Class); ok && cls.IsSubclass(target) {
			return true
		}
	}
	return false
}

func (b ExceptionBlock) clone() ExceptionBlock {
	types := make([]object.Object, len(b.Types))
	copy(types, b.Types)
	return ExceptionBlock{
		Names:    copyStrings(b.Names),
		Types:    types,
		Position: b.Position,
		VarIndex: b.VarIndex,
	}
}
