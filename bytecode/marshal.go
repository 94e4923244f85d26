package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/object"
)

// constantState is the serialized form of a Constant.
type constantState struct {
	Kind ConstantKind `cbor:"k"`
	Int  int64        `cbor:"i,omitempty"`
	Str  string       `cbor:"s,omitempty"`
}

type argState struct {
	Name    string         `cbor:"name"`
	Type    string         `cbor:"type,omitempty"`
	Default *constantState `cbor:"default,omitempty"`
}

type blockState struct {
	Names    []string `cbor:"names"`
	Position int      `cbor:"position"`
	VarIndex int      `cbor:"var"`
}

type unitState struct {
	ID              string          `cbor:"id"`
	Name            string          `cbor:"name"`
	Filename        string          `cbor:"filename,omitempty"`
	Source          string          `cbor:"source,omitempty"`
	Code            []byte          `cbor:"code"`
	LineTable       []int           `cbor:"lines"`
	Constants       []constantState `cbor:"constants"`
	LocalNames      []string        `cbor:"locals"`
	Args            []argState      `cbor:"args"`
	ExceptionBlocks []blockState    `cbor:"blocks"`
}

func marshalConstant(c Constant) (constantState, error) {
	switch c := c.(type) {
	case IntConstant:
		return constantState{Kind: IntKind, Int: c.Value}, nil
	case StrConstant:
		return constantState{Kind: StrKind, Str: c.Value}, nil
	default:
		return constantState{}, fmt.Errorf("unsupported constant type: %T", c)
	}
}

func unmarshalConstant(state constantState) (Constant, error) {
	switch state.Kind {
	case IntKind:
		return IntConstant{Value: state.Int}, nil
	case StrKind:
		return StrConstant{Value: state.Str}, nil
	default:
		return nil, fmt.Errorf("unsupported constant kind: %q", state.Kind)
	}
}

// Marshal serializes a unit to CBOR. Exception block types are stored by
// name and the module is not stored.
func Marshal(u *Unit) ([]byte, error) {
	state := unitState{
		ID:         u.id,
		Name:       u.name,
		Filename:   u.filename,
		Source:     u.source,
		Code:       u.code,
		LineTable:  u.lineTable,
		LocalNames: u.localNames,
	}
	for _, c := range u.rawConstants {
		cs, err := marshalConstant(c)
		if err != nil {
			return nil, err
		}
		state.Constants = append(state.Constants, cs)
	}
	for _, arg := range u.args {
		as := argState{Name: arg.Name, Type: arg.Type}
		if arg.Default != nil {
			cs, err := marshalConstant(arg.Default)
			if err != nil {
				return nil, err
			}
			as.Default = &cs
		}
		state.Args = append(state.Args, as)
	}
	for _, block := range u.exceptionBlocks {
		state.ExceptionBlocks = append(state.ExceptionBlocks, blockState{
			Names:    block.Names,
			Position: block.Position,
			VarIndex: block.VarIndex,
		})
	}
	return cbor.Marshal(state)
}

// Unmarshal deserializes a unit produced by Marshal. Exception type names
// are resolved against module, and the unit is verified again. Verification
// proves stack balance along the straight-line order of the code only; the
// interpreter still rejects a jump that would take a frame past its stack
// capacity.
func Unmarshal(data []byte, module *object.Module) (*Unit, error) {
	var state unitState
	if err := cbor.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding unit: %w", err)
	}
	params := UnitParams{
		ID:         state.ID,
		Name:       state.Name,
		Filename:   state.Filename,
		Source:     state.Source,
		Code:       state.Code,
		LineTable:  state.LineTable,
		LocalNames: state.LocalNames,
		Module:     module,
	}
	for _, cs := range state.Constants {
		c, err := unmarshalConstant(cs)
		if err != nil {
			return nil, err
		}
		params.Constants = append(params.Constants, c)
	}
	for _, as := range state.Args {
		arg := Arg{Name: as.Name, Type: as.Type}
		if as.Default != nil {
			c, err := unmarshalConstant(*as.Default)
			if err != nil {
				return nil, err
			}
			arg.Default = c
		}
		params.Args = append(params.Args, arg)
	}
	for _, bs := range state.ExceptionBlocks {
		block := ExceptionBlock{
			Names:    bs.Names,
			Position: bs.Position,
			VarIndex: bs.VarIndex,
		}
		for _, name := range bs.Names {
			if module == nil {
				return nil, errz.UnknownGlobalName(name)
			}
			value, ok := module.Lookup(name)
			if !ok {
				return nil, errz.UnknownGlobalName(name)
			}
			block.Types = append(block.Types, value)
		}
		params.ExceptionBlocks = append(params.ExceptionBlocks, block)
	}
	return NewUnit(params)
}
