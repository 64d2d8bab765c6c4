package cube

import "strconv"

const localsMax = 256

// Precedence orders the Pratt table's infix binding power, lowest to
// highest, exactly as spec.md 4.6 lists it.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment       // =
	PrecOr               // or
	PrecAnd              // and
	PrecEquality         // == !=
	PrecComparison       // < > <= >=
	PrecTerm             // + -
	PrecFactor           // * / %
	PrecPower            // ^
	PrecUnary            // ! -
	PrecCall             // . () []
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[TokenKind]parseRule

func init() {
	rules = map[TokenKind]parseRule{
		TOKEN_LEFT_PAREN:    {prefix: (*Compiler).grouping},
		TOKEN_MINUS:         {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		TOKEN_PLUS:          {infix: (*Compiler).binary, precedence: PrecTerm},
		TOKEN_SLASH:         {infix: (*Compiler).binary, precedence: PrecFactor},
		TOKEN_STAR:          {infix: (*Compiler).binary, precedence: PrecFactor},
		TOKEN_PERCENT:       {infix: (*Compiler).binary, precedence: PrecFactor},
		TOKEN_CARET:         {infix: (*Compiler).binary, precedence: PrecPower},
		TOKEN_BANG:          {prefix: (*Compiler).unary},
		TOKEN_BANG_EQUAL:    {infix: (*Compiler).binary, precedence: PrecEquality},
		TOKEN_EQUAL_EQUAL:   {infix: (*Compiler).binary, precedence: PrecEquality},
		TOKEN_GREATER:       {infix: (*Compiler).binary, precedence: PrecComparison},
		TOKEN_GREATER_EQUAL: {infix: (*Compiler).binary, precedence: PrecComparison},
		TOKEN_LESS:          {infix: (*Compiler).binary, precedence: PrecComparison},
		TOKEN_LESS_EQUAL:    {infix: (*Compiler).binary, precedence: PrecComparison},
		TOKEN_IDENTIFIER:    {prefix: (*Compiler).variable},
		TOKEN_STRING:        {prefix: (*Compiler).stringLiteral},
		TOKEN_INTEGER:       {prefix: (*Compiler).number},
		TOKEN_REAL:          {prefix: (*Compiler).number},
		TOKEN_AND:           {infix: (*Compiler).and_, precedence: PrecAnd},
		TOKEN_OR:            {infix: (*Compiler).or_, precedence: PrecOr},
		TOKEN_FALSE:         {prefix: (*Compiler).literal},
		TOKEN_TRUE:          {prefix: (*Compiler).literal},
		TOKEN_NIL:           {prefix: (*Compiler).literal},
	}
}

func getRule(kind TokenKind) parseRule {
	return rules[kind]
}

type local struct {
	name  Token
	depth int
}

// Compiler is a single-pass Pratt parser: it holds a two-token window
// (previous, current), the lexical-scope stack of locals, and error
// recovery state (hadError/panicMode). It emits directly into chunk;
// there is no separate AST.
type Compiler struct {
	scanner *Scanner
	heap    *heap

	previous Token
	current  Token

	hadError  bool
	panicMode bool
	errors    []CompileError

	chunk *Chunk

	locals     []local
	scopeDepth int
}

// Compile parses source and emits bytecode into chunk, using heap to
// intern every identifier and string literal it encounters. Returns
// true on success; on failure chunk's contents are unspecified and
// the caller should discard it.
func Compile(source string, chunk *Chunk, h *heap) (bool, []CompileError) {
	c := &Compiler{
		scanner: NewScanner(source, ""),
		heap:    h,
		chunk:   chunk,
	}
	c.advance()
	for !c.match(TOKEN_EOF) {
		c.declaration()
	}
	c.emitByte(byte(OpReturn))
	return !c.hadError, c.errors
}

// --- token stream plumbing ---

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.NextToken()
		if c.current.Kind != TOKEN_ERROR {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(kind TokenKind) bool {
	return c.current.Kind == kind
}

func (c *Compiler) match(kind TokenKind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind TokenKind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// --- error reporting / panic-mode recovery ---

func (c *Compiler) errorAt(token Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	lexeme := token.Lexeme
	if lexeme == "" {
		lexeme = token.Kind.String()
	}
	c.errors = append(c.errors, CompileError{
		Message: message,
		Lexeme:  lexeme,
		AtEOF:   token.Kind == TOKEN_EOF,
		Line:    token.Line,
		Column:  token.Column,
	})
}

func (c *Compiler) error(message string)        { c.errorAt(c.previous, message) }
func (c *Compiler) errorAtCurrent(message string) { c.errorAt(c.current, message) }

func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Kind != TOKEN_EOF {
		if c.previous.Kind == TOKEN_SEMICOLON {
			return
		}
		switch c.current.Kind {
		case TOKEN_CLASS, TOKEN_DEF, TOKEN_IF, TOKEN_WHILE, TOKEN_RETURN:
			return
		}
		c.advance()
	}
}

// --- bytecode emission helpers ---

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitBytes(a, b byte) {
	c.emitByte(a)
	c.emitByte(b)
}

func (c *Compiler) emitConstant(v Value) {
	idx, ok := c.chunk.AddConstant(v)
	if !ok {
		c.error("Too many constants in one chunk.")
		return
	}
	c.emitBytes(byte(OpConstant), idx)
}

// emitJump writes the opcode and a placeholder 2-byte operand,
// returning the offset of the first placeholder byte for patchJump.
func (c *Compiler) emitJump(op OpCode) int {
	c.emitByte(byte(op))
	c.emitByte(0xFF)
	c.emitByte(0xFF)
	return c.chunk.Len() - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := c.chunk.Len() - offset - 2
	if jump > 0xFFFF {
		c.error("Too much code to jump over.")
		return
	}
	c.chunk.PatchU16(offset, uint16(jump))
}

func (c *Compiler) emitLoop(loopStart int) {
	c.emitByte(byte(OpLoop))
	offset := (c.chunk.Len() - loopStart) + 2
	if offset > 0xFFFF {
		c.error("Loop body too large.")
		return
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}

// --- grammar ---

func (c *Compiler) declaration() {
	if c.match(TOKEN_VAR) {
		c.varDeclaration()
	} else {
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	global, isGlobal, slotName := c.parseVariable("Expect variable name.")

	if c.match(TOKEN_EQUAL) {
		c.expression()
	} else {
		c.emitByte(byte(OpNil))
	}
	c.consume(TOKEN_SEMICOLON, "Expect ';' after variable declaration.")

	c.defineVariable(global, isGlobal, slotName)
}

func (c *Compiler) statement() {
	switch {
	case c.match(TOKEN_PRINT):
		c.printStatement()
	case c.match(TOKEN_IF):
		c.ifStatement()
	case c.match(TOKEN_WHILE):
		c.whileStatement()
	case c.check(TOKEN_LEFT_BRACE) || c.check(TOKEN_DO):
		opener := c.current.Kind
		c.advance()
		c.beginScope()
		c.block(opener)
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block(opener TokenKind) {
	closer := TOKEN_RIGHT_BRACE
	closerMsg := "Expect '}' after block."
	if opener == TOKEN_DO {
		closer = TOKEN_END
		closerMsg = "Expect 'end' after block."
	}
	for !c.check(closer) && !c.check(TOKEN_EOF) {
		c.declaration()
	}
	c.consume(closer, closerMsg)
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(TOKEN_SEMICOLON, "Expect ';' after value.")
	c.emitByte(byte(OpPrint))
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(TOKEN_SEMICOLON, "Expect ';' after expression.")
	c.emitByte(byte(OpPop))
}

func (c *Compiler) ifStatement() {
	c.consume(TOKEN_LEFT_PAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(TOKEN_RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(OpJumpIfFalse)
	c.emitByte(byte(OpPop))
	c.statement()

	elseJump := c.emitJump(OpJump)
	c.patchJump(thenJump)
	c.emitByte(byte(OpPop))

	if c.match(TOKEN_ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.chunk.Len()
	c.consume(TOKEN_LEFT_PAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(TOKEN_RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(OpJumpIfFalse)
	c.emitByte(byte(OpPop))
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitByte(byte(OpPop))
}

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefix := getRule(c.previous.Kind).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := prec <= PrecAssignment
	prefix(c, canAssign)

	for prec <= getRule(c.current.Kind).precedence {
		c.advance()
		infix := getRule(c.previous.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(TOKEN_EQUAL) {
		c.error("Invalid assignment target.")
	}
}

// --- scopes and locals ---

func (c *Compiler) beginScope() { c.scopeDepth++ }

func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.emitByte(byte(OpPop))
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// parseVariable consumes the variable name and, for locals, declares
// it immediately; for globals it returns the constant-pool index the
// caller later passes to OP_DEFINE_GLOBAL.
func (c *Compiler) parseVariable(message string) (global uint8, isGlobal bool, name Token) {
	c.consume(TOKEN_IDENTIFIER, message)
	name = c.previous

	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0, false, name
	}
	global = c.identifierConstant(name)
	return global, true, name
}

func (c *Compiler) identifierConstant(name Token) uint8 {
	obj := c.heap.internString([]byte(name.Lexeme))
	idx, ok := c.chunk.AddConstant(ObjValue(obj))
	if !ok {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return idx
}

func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.previous
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name.Lexeme == name.Lexeme {
			c.error("Variable with this name already declared in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) addLocal(name Token) {
	if len(c.locals) >= localsMax {
		c.error("Too many local variables in scope.")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: -1})
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

func (c *Compiler) defineVariable(global uint8, isGlobal bool, name Token) {
	if !isGlobal {
		c.markInitialized()
		return
	}
	c.emitBytes(byte(OpDefineGlobal), global)
}

// resolveLocal scans locals top-down for name, returning its slot.
// Entries still mid-initialization (depth == -1) are skipped rather
// than matched: this lets `var a = a + 1;` inside a block read an
// outer binding named `a` (global or enclosing-scope local) while
// compiling its own initializer, matching spec.md's lexical-scoping
// example (`var a = 10; { var a = a + 1; ... }` -> 11). A bare
// self-reference with no outer binding at all (`{ var a = a; }`
// alone) falls through to a global lookup that doesn't exist either,
// and surfaces as the ordinary "Undefined variable" runtime error
// rather than a distinct compile-time one; see DESIGN.md.
func (c *Compiler) resolveLocal(name Token) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].depth == -1 {
			continue
		}
		if c.locals[i].name.Lexeme == name.Lexeme {
			return i, true
		}
	}
	return -1, false
}

func (c *Compiler) namedVariable(name Token, canAssign bool) {
	var getOp, setOp OpCode
	slot, isLocal := c.resolveLocal(name)

	if isLocal {
		getOp, setOp = OpGetLocal, OpSetLocal
	} else {
		slot = int(c.identifierConstant(name))
		getOp, setOp = OpGetGlobal, OpSetGlobal
	}

	if canAssign && c.match(TOKEN_EQUAL) {
		c.expression()
		c.emitBytes(byte(setOp), uint8(slot))
		return
	}
	c.emitBytes(byte(getOp), uint8(slot))
}

// --- prefix / infix parse functions ---

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) grouping(bool) {
	c.expression()
	c.consume(TOKEN_RIGHT_PAREN, "Expect ')' after expression.")
}

func (c *Compiler) number(bool) {
	lexeme := c.previous.Lexeme
	if c.previous.Kind == TOKEN_REAL {
		f, _ := strconv.ParseFloat(lexeme, 64)
		c.emitConstant(RealValue(f))
		return
	}
	i, _ := strconv.ParseInt(lexeme, 10, 64)
	c.emitConstant(IntValue(i))
}

func (c *Compiler) stringLiteral(bool) {
	obj := c.heap.internString([]byte(c.previous.Lexeme))
	c.emitConstant(ObjValue(obj))
}

func (c *Compiler) literal(bool) {
	switch c.previous.Kind {
	case TOKEN_FALSE:
		c.emitConstant(BoolValue(false))
	case TOKEN_TRUE:
		c.emitConstant(BoolValue(true))
	case TOKEN_NIL:
		c.emitByte(byte(OpNil))
	}
}

func (c *Compiler) unary(bool) {
	kind := c.previous.Kind
	c.parsePrecedence(PrecUnary)
	switch kind {
	case TOKEN_BANG:
		c.emitByte(byte(OpNot))
	case TOKEN_MINUS:
		c.emitByte(byte(OpNegate))
	}
}

func (c *Compiler) binary(bool) {
	kind := c.previous.Kind
	rule := getRule(kind)

	if kind == TOKEN_CARET {
		// right-associative: parse the operand at the SAME precedence
		c.parsePrecedence(rule.precedence)
	} else {
		c.parsePrecedence(rule.precedence + 1)
	}

	switch kind {
	case TOKEN_BANG_EQUAL:
		c.emitBytes(byte(OpEqual), byte(OpNot))
	case TOKEN_EQUAL_EQUAL:
		c.emitByte(byte(OpEqual))
	case TOKEN_GREATER:
		c.emitByte(byte(OpGreater))
	case TOKEN_GREATER_EQUAL:
		c.emitBytes(byte(OpLess), byte(OpNot))
	case TOKEN_LESS:
		c.emitByte(byte(OpLess))
	case TOKEN_LESS_EQUAL:
		c.emitBytes(byte(OpGreater), byte(OpNot))
	case TOKEN_PLUS:
		c.emitByte(byte(OpAdd))
	case TOKEN_MINUS:
		c.emitByte(byte(OpSub))
	case TOKEN_STAR:
		c.emitByte(byte(OpMul))
	case TOKEN_SLASH:
		c.emitByte(byte(OpDiv))
	case TOKEN_PERCENT:
		c.emitByte(byte(OpMod))
	case TOKEN_CARET:
		c.emitByte(byte(OpPow))
	}
}

func (c *Compiler) and_(bool) {
	endJump := c.emitJump(OpJumpIfFalse)
	c.emitByte(byte(OpPop))
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or_(bool) {
	elseJump := c.emitJump(OpJumpIfFalse)
	endJump := c.emitJump(OpJump)
	c.patchJump(elseJump)
	c.emitByte(byte(OpPop))
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}
