// Package interp is loom's tree-walking evaluator: it reduces the
// Expression nodes built by internal/parser to literal-form values, under a
// frame-stacked Context, with loop contracts validated as loops run.
package interp

import "github.com/loomlang/loom/internal/ast"

// Frame is one level of the environment stack: the bindings introduced by
// a function entry, a block, or a loop-body iteration.
type Frame map[string]ast.Expression

// Context is the runtime environment for one function evaluation: a stack
// of frames plus the contract table the function was seeded with. A
// Context is uniquely owned by one in-flight evaluation; nested function
// calls get fresh child contexts rather than sharing this one.
type Context struct {
	frames    []Frame
	contracts map[string]*ast.Contract
}

// NewContext creates a Context with no frames, seeded with the given
// contract table (nil is treated as empty).
func NewContext(contracts map[string]*ast.Contract) *Context {
	return &Context{contracts: contracts}
}

// PushFrame adds an empty innermost frame.
func (c *Context) PushFrame() {
	c.frames = append(c.frames, Frame{})
}

// PopFrame removes the innermost frame. Push and pop are strictly paired;
// callers use defer so an error mid-construct still unwinds.
func (c *Context) PopFrame() {
	c.frames = c.frames[:len(c.frames)-1]
}

// Depth returns the current number of frames.
func (c *Context) Depth() int { return len(c.frames) }

// Lookup resolves name against the frames, innermost out.
func (c *Context) Lookup(name string) (ast.Expression, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if v, ok := c.frames[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign updates name in the frame that owns it, or binds it in the
// innermost frame when no frame holds it yet.
func (c *Context) Assign(name string, value ast.Expression) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if _, ok := c.frames[i][name]; ok {
			c.frames[i][name] = value
			return
		}
	}
	c.frames[len(c.frames)-1][name] = value
}

// BindLocal inserts name into the innermost frame, shadowing any outer
// binding. Used for parameter binding and loop iterator variables.
func (c *Context) BindLocal(name string, value ast.Expression) {
	c.frames[len(c.frames)-1][name] = value
}

// AssignIndexed writes value into one slot of the vector bound to name,
// locating the owning frame first.
func (c *Context) AssignIndexed(name string, index uint64, value ast.Expression) error {
	for i := len(c.frames) - 1; i >= 0; i-- {
		existing, ok := c.frames[i][name]
		if !ok {
			continue
		}
		vec, isVector := existing.(*ast.Vector)
		if !isVector {
			return &NotIndexableError{Name: name}
		}
		if index >= uint64(len(vec.Elements)) {
			return &IndexOutOfRangeError{Name: name, Index: index}
		}
		vec.Elements[index] = value
		return nil
	}
	return &UnknownReferenceError{Name: name}
}

var emptyContract = &ast.Contract{}

// Contract returns the contract registered for tag, or an empty contract
// when the tag is absent (or the loop carries no tag at all).
func (c *Context) Contract(tag string) *ast.Contract {
	if tag == "" {
		return emptyContract
	}
	if contract, ok := c.contracts[tag]; ok {
		return contract
	}
	return emptyContract
}
