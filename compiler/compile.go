// Package compiler turns an AST into verified bytecode units.
package compiler

import (
	"github.com/jerith/quill/bytecode"
	"github.com/jerith/quill/object"
	"github.com/jerith/quill/op"
)

// Node is an AST node that emits its own instructions.
type Node interface {
	// Compile emits the node's instructions, compiling its children.
	Compile(b *Builder) error

	// EndLine is the last source line of the node.
	EndLine() int
}

// Config holds compiler configuration options.
type Config struct {
	// Name of the function being compiled, used in diagnostics.
	Name string

	// Filename is the source filename. Defaults to the module name.
	Filename string

	// Source is the original source code, used for better error messages.
	Source string
}

func (c *Config) withDefaults(module *object.Module) Config {
	var cfg Config
	if c != nil {
		cfg = *c
	}
	if cfg.Name == "" {
		cfg.Name = "<code>"
	}
	if cfg.Filename == "" && module != nil {
		cfg.Filename = module.Name()
	}
	return cfg
}

// CompileBytecode compiles a function body. The parameters become the first
// locals, and a trailing "return None" is appended so control never runs
// off the end of the unit. Pass nil for cfg to use default settings.
func CompileBytecode(node Node, module *object.Module, args []bytecode.Arg, cfg *Config) (*bytecode.Unit, error) {
	b, err := NewBuilder(module, args, cfg)
	if err != nil {
		return nil, err
	}
	if err := node.Compile(b); err != nil {
		return nil, err
	}
	b.Emit(node.EndLine(), op.LoadNone)
	b.Emit(node.EndLine(), op.Return)
	return b.Build()
}
