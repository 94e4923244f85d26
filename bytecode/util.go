package bytecode

import "encoding/binary"

// ReadOperand decodes the 16-bit big-endian operand at pos.
func ReadOperand(code []byte, pos int) int {
	return int(binary.BigEndian.Uint16(code[pos:]))
}

// PutOperand encodes a 16-bit big-endian operand at pos.
func PutOperand(code []byte, pos int, value int) {
	binary.BigEndian.PutUint16(code[pos:], uint16(value))
}

// copyStrings returns a copy of the given string slice.
func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// copyBytes returns a copy of the given byte slice.
func copyBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// copyInts returns a copy of the given int slice.
func copyInts(src []int) []int {
	if src == nil {
		return nil
	}
	dst := make([]int, len(src))
	copy(dst, src)
	return dst
}

// copyConstants returns a copy of the given constant slice.
func copyConstants(src []Constant) []Constant {
	if src == nil {
		return nil
	}
	dst := make([]Constant, len(src))
	copy(dst, src)
	return dst
}

// copyArgs returns a copy of the given argument slice.
func copyArgs(src []Arg) []Arg {
	if src == nil {
		return nil
	}
	dst := make([]Arg, len(src))
	copy(dst, src)
	return dst
}

// copyBlocks returns a deep copy of the given exception block slice.
func copyBlocks(src []ExceptionBlock) []ExceptionBlock {
	if src == nil {
		return nil
	}
	dst := make([]ExceptionBlock, len(src))
	for i, b := range src {
		dst[i] = b.clone()
	}
	return dst
}
