// Package check type-checks a parsed compilation unit.
//
// The checker validates field types, locates the static entry point
// `main(String[])` and walks its body with a flat symbol table. Every
// problem is reported to the diag.Sink once: a name whose declaration was
// rejected, or that was never declared, is entered with type Unknown and
// later uses of it stay silent.
package check

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/tjc/internal/logging"
	"github.com/dhamidi/tjc/java/ast"
	"github.com/dhamidi/tjc/java/diag"
	"github.com/dhamidi/tjc/java/token"
)

// PrintlnCallee is the only call target the checker accepts.
const PrintlnCallee = "System.out.println"

// DefaultMaxDepth bounds the nesting of parenthesized groups and call
// arguments. It matches the parser's default, and depth is counted the
// same way, so a tree the parser built never trips it.
const DefaultMaxDepth = 256

type Option func(*Checker)

func WithMaxLocals(n int) Option {
	return func(c *Checker) {
		c.maxLocals = n
	}
}

func WithMaxDepth(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

type Checker struct {
	arena     *ast.Arena
	sink      *diag.Sink
	locals    *Table
	maxLocals int
	maxDepth  int
	tooDeep   bool
	errors    int
	// overflow holds names that did not fit in the table; they behave
	// like Unknown entries.
	overflow map[string]bool
	log       commonlog.Logger
}

func New(arena *ast.Arena, sink *diag.Sink, opts ...Option) *Checker {
	c := &Checker{
		arena:     arena,
		sink:      sink,
		maxLocals: DefaultMaxLocals,
		maxDepth:  DefaultMaxDepth,
		log:       logging.Get("check"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.locals = NewTable(c.maxLocals)
	return c
}

// Check type-checks the tree rooted at root and reports whether it is
// valid: root must be a compilation unit with a class containing `main`,
// and no diagnostic may have been reported during the call.
func Check(arena *ast.Arena, root ast.NodeID, sink *diag.Sink, opts ...Option) bool {
	return New(arena, sink, opts...).Check(root)
}

// Locals returns the symbol table of `main` as it stood after Check.
func (c *Checker) Locals() []Local {
	return c.locals.Locals()
}

func (c *Checker) lookup(name string) (Local, bool) {
	if local, ok := c.locals.Lookup(name); ok {
		return local, true
	}
	if c.overflow[name] {
		return Local{Name: name, Type: Unknown}, true
	}
	return Local{}, false
}

// declare adds name to the table, falling back to the overflow set when
// the table is full. It reports whether the table had room.
func (c *Checker) declare(name string, typ Type) bool {
	if c.locals.Add(name, typ) {
		return true
	}
	if c.overflow == nil {
		c.overflow = map[string]bool{}
	}
	c.overflow[name] = true
	return false
}

func (c *Checker) errorf(id ast.NodeID, format string, args ...any) {
	c.errors++
	offset := 0
	if n := c.arena.Node(id); n != nil {
		offset = n.Tok.Offset
	}
	c.sink.Errorf(offset, format, args...)
}

func (c *Checker) Check(root ast.NodeID) bool {
	unitNode := c.arena.Node(root)
	if unitNode == nil {
		return false
	}
	unit, ok := unitNode.Data.(*ast.CompilationUnit)
	if !ok {
		return false
	}
	class, ok := c.arena.Data(unit.Class).(*ast.Class)
	if !ok {
		return false
	}

	members := c.arena.Siblings(class.Members)
	for _, id := range members {
		if field, ok := c.arena.Data(id).(*ast.Field); ok {
			if !TypeFromName(field.Type).IsValue() {
				c.errorf(id, "unsupported field type '%s'", field.Type)
			}
		}
	}

	main := c.findMain(members)
	if main == ast.NoNode {
		c.errorf(root, "main method not found")
		return false
	}
	c.checkMain(main)

	c.log.Debugf("checked class %s: %d locals, %d diagnostics", class.Name, c.locals.Len(), c.errors)
	return c.errors == 0
}

// findMain prefers the first static method named main. A non-static one
// is reported and still used so that its body gets checked.
func (c *Checker) findMain(members []ast.NodeID) ast.NodeID {
	candidate := ast.NoNode
	for _, id := range members {
		method, ok := c.arena.Data(id).(*ast.Method)
		if !ok || method.Name != "main" {
			continue
		}
		if method.Static {
			return id
		}
		if candidate == ast.NoNode {
			candidate = id
		}
	}
	if candidate.Valid() {
		c.errorf(candidate, "main must be static")
	}
	return candidate
}

func (c *Checker) checkMain(id ast.NodeID) {
	method := c.arena.Data(id).(*ast.Method)
	if TypeFromName(method.ReturnType) != Void {
		c.errorf(id, "main must return void")
	}

	params := c.arena.Siblings(method.Params)
	if len(params) != 1 {
		c.errorf(id, "main must have one parameter")
	}
	if len(params) > 0 {
		param := c.arena.Data(params[0]).(*ast.LocalVar)
		typ := TypeFromName(param.Type)
		if typ != StringArray {
			c.errorf(params[0], "main parameter must be String[]")
			typ = Unknown
		}
		c.declare(param.Name, typ)
	}

	if body := c.arena.Node(method.Body); body != nil {
		for _, stmt := range c.arena.Siblings(body.Data.(*ast.Block).Stmts) {
			c.checkStmt(stmt)
		}
	}
}

func (c *Checker) checkStmt(id ast.NodeID) {
	n := c.arena.Node(id)
	if n == nil {
		return
	}

	switch s := n.Data.(type) {
	case *ast.LocalVar:
		c.checkLocalVar(id, s)

	case *ast.ExprStmt:
		c.checkExpr(s.Expr, 0)

	case *ast.Assign:
		local, ok := c.lookup(s.Name)
		if !ok {
			c.errorf(id, "unknown local '%s'", s.Name)
			c.declare(s.Name, Unknown)
			return
		}
		if local.Type == Unknown {
			return
		}
		if typ := c.checkExpr(s.Value, 0); typ != Unknown && typ != local.Type {
			c.errorf(id, "type mismatch: '%s' cannot be assigned to '%s'", typ, local.Type)
		}

	case *ast.Increment:
		local, ok := c.lookup(s.Name)
		if !ok {
			c.errorf(id, "++ only supports int locals")
			c.declare(s.Name, Unknown)
			return
		}
		if local.Type != Int && local.Type != Unknown {
			c.errorf(id, "++ only supports int locals")
		}

	case *ast.Return:
		if s.Value.Valid() {
			c.errorf(id, "return expression not allowed in void method")
			c.checkExpr(s.Value, 0)
		}

	case *ast.Block:
		for _, stmt := range c.arena.Siblings(s.Stmts) {
			c.checkStmt(stmt)
		}

	default:
		c.errorf(id, "unsupported statement")
	}
}

func (c *Checker) checkLocalVar(id ast.NodeID, decl *ast.LocalVar) {
	if _, exists := c.lookup(decl.Name); exists {
		c.errorf(id, "duplicate local '%s'", decl.Name)
		return
	}

	typ := TypeFromName(decl.Type)
	if !typ.IsValue() {
		c.errorf(id, "unsupported local type '%s'", decl.Type)
		c.declare(decl.Name, Unknown)
		return
	}
	if !c.declare(decl.Name, typ) {
		c.errorf(id, "too many locals")
		return
	}

	if decl.Init == ast.NoNode {
		return
	}
	if init := c.checkExpr(decl.Init, 0); init != Unknown && init != typ {
		c.errorf(id, "type mismatch: '%s' cannot be assigned to '%s'", init, typ)
	}
}

func (c *Checker) checkExpr(id ast.NodeID, depth int) Type {
	n := c.arena.Node(id)
	if n == nil {
		return Unknown
	}
	if depth > c.maxDepth {
		if !c.tooDeep {
			c.errorf(id, "expression nested too deeply")
			c.tooDeep = true
		}
		return Unknown
	}

	switch e := n.Data.(type) {
	case *ast.IntLiteral:
		return Int
	case *ast.StringLiteral:
		return String
	case *ast.Ident:
		return c.checkIdent(id, e)
	case *ast.Binary:
		return c.checkBinaryChain(id, depth)
	case *ast.Call:
		return c.checkCall(id, e, depth)
	default:
		c.errorf(id, "unsupported expression")
		return Unknown
	}
}

func (c *Checker) checkIdent(id ast.NodeID, e *ast.Ident) Type {
	local, ok := c.lookup(e.Name)
	if !ok {
		c.errorf(id, "unknown local '%s'", e.Name)
		c.declare(e.Name, Unknown)
		return Unknown
	}
	return local.Type
}

// checkBinaryChain walks the left spine of a binary expression without
// recursion, since left-associative chains like 1 + 2 + ... + n grow only
// along that spine. A right operand costs one level only when it is a
// parenthesized group.
func (c *Checker) checkBinaryChain(id ast.NodeID, depth int) Type {
	var spine []ast.NodeID
	leaf := id
	for {
		bin, ok := c.arena.Data(leaf).(*ast.Binary)
		if !ok {
			break
		}
		spine = append(spine, leaf)
		leaf = bin.Left
	}

	left := c.checkExpr(leaf, depth)
	foldable := c.isLiteral(leaf)
	for i := len(spine) - 1; i >= 0; i-- {
		bin := c.arena.Data(spine[i]).(*ast.Binary)
		right := c.checkExpr(bin.Right, depth+c.groupCost(bin.Op, bin.Right))
		foldable = foldable && bin.Op == token.Plus && c.concatFoldable(bin.Right)
		left = c.checkBinary(spine[i], bin.Op, left, right, foldable)
	}
	return left
}

// groupCost is 1 when right, as the right operand of op, must have been
// written in parentheses: precedence climbing only nests a binary on the
// right when it binds tighter than op.
func (c *Checker) groupCost(op token.Kind, right ast.NodeID) int {
	bin, ok := c.arena.Data(right).(*ast.Binary)
	if ok && precedence(bin.Op) <= precedence(op) {
		return 1
	}
	return 0
}

func precedence(op token.Kind) int {
	switch op {
	case token.Plus, token.Minus:
		return 10
	case token.Star, token.Slash, token.Percent:
		return 20
	}
	return 0
}

func (c *Checker) checkBinary(id ast.NodeID, op token.Kind, left, right Type, foldable bool) Type {
	if left == Unknown || right == Unknown {
		return Unknown
	}
	if op == token.Plus {
		if left == Int && right == Int {
			return Int
		}
		if (left == String || right == String) && foldable {
			return String
		}
		c.errorf(id, "unsupported '+' operands (%s, %s)", left, right)
		return Unknown
	}
	if left == Int && right == Int {
		return Int
	}
	c.errorf(id, "binary operator only supports int operands")
	return Unknown
}

func (c *Checker) isLiteral(id ast.NodeID) bool {
	switch c.arena.Node(id).Kind() {
	case ast.KindIntLiteral, ast.KindStringLiteral:
		return true
	}
	return false
}

// concatFoldable reports whether id is built only from literals joined by
// '+'. It uses an explicit stack so arbitrarily deep trees are safe.
func (c *Checker) concatFoldable(id ast.NodeID) bool {
	stack := []ast.NodeID{id}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := c.arena.Node(top)
		if n == nil {
			return false
		}
		switch e := n.Data.(type) {
		case *ast.IntLiteral, *ast.StringLiteral:
		case *ast.Binary:
			if e.Op != token.Plus {
				return false
			}
			stack = append(stack, e.Left, e.Right)
		default:
			return false
		}
	}
	return true
}

func (c *Checker) checkCall(id ast.NodeID, call *ast.Call, depth int) Type {
	if call.Callee != PrintlnCallee {
		c.errorf(id, "unsupported call '%s'", call.Callee)
		return Unknown
	}

	args := c.arena.Siblings(call.Args)
	switch len(args) {
	case 0:
		return Void
	case 1:
	default:
		c.errorf(id, "println expects zero or one argument")
		return Unknown
	}

	arg := c.checkExpr(args[0], depth+1)
	if arg != Unknown && !arg.IsValue() {
		c.errorf(id, "println argument must be int or String")
	}
	return Void
}
