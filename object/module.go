package object

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/jerith/quill/op"
)

// Module is a compilation namespace: an ordered table of globals and an
// index from global name to slot. Units compiled within a module resolve
// global names to slots at compile time.
type Module struct {
	name         string
	globals      []Object
	globalsIndex map[string]int
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{
		name:         name,
		globalsIndex: map[string]int{},
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Declare adds a global and returns its index. Declaring an existing name
// replaces its value and keeps its index.
func (m *Module) Declare(name string, value Object) int {
	if index, found := m.globalsIndex[name]; found {
		m.globals[index] = value
		return index
	}
	index := len(m.globals)
	m.globals = append(m.globals, value)
	m.globalsIndex[name] = index
	return index
}

// Index returns the index of the named global.
func (m *Module) Index(name string) (int, bool) {
	index, found := m.globalsIndex[name]
	return index, found
}

// GlobalAt returns the global at index.
func (m *Module) GlobalAt(index int) Object {
	return m.globals[index]
}

// SetGlobalAt replaces the global at index.
func (m *Module) SetGlobalAt(index int, value Object) {
	m.globals[index] = value
}

// Lookup returns the named global.
func (m *Module) Lookup(name string) (Object, bool) {
	index, found := m.globalsIndex[name]
	if !found {
		return nil, false
	}
	return m.globals[index], true
}

// GlobalCount returns the number of globals.
func (m *Module) GlobalCount() int {
	return len(m.globals)
}

// Names returns the global names in index order.
func (m *Module) Names() []string {
	names := make([]string, len(m.globals))
	for name, index := range m.globalsIndex {
		names[index] = name
	}
	return names
}

// ModuleSnapshot is the state of a module's globals at one point in time.
type ModuleSnapshot struct {
	globals []Object
}

// Snapshot records the current globals so they can be restored later.
func (m *Module) Snapshot() ModuleSnapshot {
	return ModuleSnapshot{globals: append([]Object(nil), m.globals...)}
}

// Restore returns the module to snap. Globals declared since the snapshot
// are removed and the values of the others are put back, so indexes
// resolved before the snapshot stay valid.
func (m *Module) Restore(snap ModuleSnapshot) {
	n := len(snap.globals)
	for name, index := range m.globalsIndex {
		if index >= n {
			delete(m.globalsIndex, name)
		}
	}
	for i := n; i < len(m.globals); i++ {
		m.globals[i] = nil
	}
	m.globals = m.globals[:n]
	copy(m.globals, snap.globals)
}

// Setup prepares every global that needs it. All failures are reported
// together.
func (m *Module) Setup(s *Space) error {
	var result error
	names := m.Names()
	for i, global := range m.globals {
		setuper, ok := global.(Setuper)
		if !ok {
			continue
		}
		if err := setuper.Setup(s); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", names[i], err))
		}
	}
	return result
}

func (m *Module) Type() Type {
	return MODULE
}

func (m *Module) Inspect() string {
	return m.String()
}

func (m *Module) String() string {
	return fmt.Sprintf("module(%s)", m.name)
}

func (m *Module) Interface() interface{} {
	return nil
}

func (m *Module) GetAttr(name string) (Object, bool) {
	return m.Lookup(name)
}

func (m *Module) SetAttr(s *Space, name string, value Object) error {
	return s.AttributeErrorf("cannot modify module attributes")
}

func (m *Module) IsTruthy() bool {
	return true
}

func (m *Module) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	return s.NotImplemented(), nil
}
