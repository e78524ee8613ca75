// Package lexer implements the streaming tokenizer: a single left-to-right
// pass over a source.Source producing token.Token values on demand, with
// an explicit sub-state stack for interpolated strings and an atomic
// reader for bit-width specifiers, per spec.md §4.1.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fluxlang/flux/internal/arena"
	"github.com/fluxlang/flux/internal/source"
	"github.com/fluxlang/flux/internal/token"
)

// Lexer walks src.Text one rune at a time. It never panics; malformed
// input is reported as an ERROR_TOKEN whose Literal holds the message,
// and scanning always continues to EOF (spec.md's tokenizer totality
// requirement).
type Lexer struct {
	src *source.Source

	// arena is the compilation unit's Arena: the lexer writes every
	// identifier and string-literal lexeme into it via Intern, so
	// repeated occurrences of the same text share one backing string for
	// the rest of compilation, per spec.md §5's ownership model. Shared
	// with the Parser constructed over this Lexer, not private to it.
	arena *arena.Arena

	input        string
	position     int
	readPosition int
	ch           rune

	// istringDepth is a stack of brace nesting depths, one entry per
	// currently-open i-string expression list (:{ ... }). A nested
	// i-string pushes its own entry; seeing the matching RBRACE at
	// depth 1 pops it and yields ISTRING_EXPR_END instead of RBRACE.
	istringDepth []int

	// pendingExprStart / pendingIStringEnd let NextIStringToken emit
	// the follow-up token ReadIStringText determined but did not
	// itself return (it always returns the ISTRING_TEXT token first).
	pendingExprStart  bool
	pendingIStringEnd bool
}

// New returns a Lexer reading src from its start, with its own private
// Arena. Use NewWithArena instead when a Parser (or another collaborator
// sharing this compilation unit) needs to reach the same interned table.
func New(src *source.Source) *Lexer {
	return NewWithArena(src, arena.New())
}

// NewWithArena returns a Lexer that interns identifier and string-literal
// lexemes into a, rather than a private Arena of its own.
func NewWithArena(src *source.Source, a *arena.Arena) *Lexer {
	l := &Lexer{src: src, input: src.Text, arena: a}
	l.readChar()
	return l
}

// Arena returns the Arena this lexer interns lexemes into.
func (l *Lexer) Arena() *arena.Arena { return l.arena }

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekChar2() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	next := l.readPosition + w
	if next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:])
	return r
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for {
				if l.ch == 0 {
					break
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}
		break
	}
}

func (l *Lexer) mk(kind token.Kind, start int, lexeme string, literal interface{}) token.Token {
	return token.Token{
		Kind:    kind,
		Lexeme:  lexeme,
		Range:   source.Range{Start: start, End: l.position},
		Literal: literal,
	}
}

// NextToken scans and returns the next token, advancing lexer state.
// Reported errors are returned as ERROR_TOKEN values, not panics; the
// caller decides whether to keep scanning (it always can — NextToken
// remains total even immediately after an error).
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()
	start := l.position

	switch {
	case l.ch == 0:
		return l.mk(token.EOF, start, "", nil)
	case l.ch == '"':
		return l.readString(start)
	case l.ch == '\'':
		return l.readChar_(start)
	}

	if isIdentStart(l.ch) {
		return l.readIdentifierOrKeyword(start)
	}
	if isDigit(l.ch) {
		return l.readNumber(start)
	}

	return l.readOperator(start)
}

// TryBitWidth attempts to read a `{N}` bit-width specifier starting at
// the current '{'. Call this after lexing a type keyword or a numeric
// literal when the grammar expects one may follow; returns ok=false
// (with state unchanged) when '{' is not followed by digits and '}'.
func (l *Lexer) TryBitWidth() (tok token.Token, ok bool) {
	if l.ch != '{' {
		return token.Token{}, false
	}
	save := *l
	start := l.position
	l.readChar() // consume {
	digitStart := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.position == digitStart || l.ch != '}' {
		*l = save
		return token.Token{}, false
	}
	digits := l.input[digitStart:l.position]
	l.readChar() // consume }
	n, err := strconv.Atoi(digits)
	if err != nil {
		*l = save
		return token.Token{}, false
	}
	return l.mk(token.BIT_WIDTH, start, l.input[start:l.position], n), true
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentCont(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *Lexer) readIdentifierOrKeyword(start int) token.Token {
	for isIdentCont(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.position]
	if lit == "i" && l.ch == '"' {
		return l.ReadIStringStart(start)
	}
	kind := token.LookupIdent(lit)
	switch kind {
	case token.TRUE:
		return l.mk(token.BOOL, start, lit, true)
	case token.FALSE:
		return l.mk(token.BOOL, start, lit, false)
	case token.NULLKW:
		return l.mk(token.NULL, start, lit, nil)
	case token.IDENT:
		interned := l.arena.Intern(lit)
		return l.mk(token.IDENT, start, interned, interned)
	default:
		return l.mk(kind, start, lit, nil)
	}
}

// readNumber handles decimal `[0-9]+`, hex `0x[0-9A-Fa-f]+`, binary
// suffix `[01]+b`, and octal suffix `[0-7]+o` integers, plus decimal
// floats `[0-9]+.[0-9]+`, per spec.md §4.1.
func (l *Lexer) readNumber(start int) token.Token {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar() // 0
		l.readChar() // x
		digStart := l.position
		for isHexDigit(l.ch) {
			l.readChar()
		}
		lit := l.input[start:l.position]
		v, err := strconv.ParseInt(l.input[digStart:l.position], 16, 64)
		if err != nil {
			return l.mk(token.ERROR_TOKEN, start, lit, "malformed hex integer literal: "+lit)
		}
		return l.mk(token.INT, start, lit, v)
	}

	digStart := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	// Binary suffix: ^[01]+b$ — only valid if every digit seen so far is 0/1.
	if l.ch == 'b' && !isIdentCont(l.peekChar()) {
		digits := l.input[digStart:l.position]
		if allBinaryDigits(digits) {
			l.readChar() // consume b
			v, err := strconv.ParseInt(digits, 2, 64)
			lit := l.input[start:l.position]
			if err != nil {
				return l.mk(token.ERROR_TOKEN, start, lit, "malformed binary integer literal: "+lit)
			}
			return l.mk(token.INT, start, lit, v)
		}
	}
	// Octal suffix: [0-7]+o
	if l.ch == 'o' && !isIdentCont(l.peekChar()) {
		digits := l.input[digStart:l.position]
		if allOctalDigits(digits) {
			l.readChar() // consume o
			v, err := strconv.ParseInt(digits, 8, 64)
			lit := l.input[start:l.position]
			if err != nil {
				return l.mk(token.ERROR_TOKEN, start, lit, "malformed octal integer literal: "+lit)
			}
			return l.mk(token.INT, start, lit, v)
		}
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // .
		for isDigit(l.ch) {
			l.readChar()
		}
		lit := l.input[start:l.position]
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return l.mk(token.ERROR_TOKEN, start, lit, "malformed float literal: "+lit)
		}
		return l.mk(token.FLOAT, start, lit, v)
	}

	lit := l.input[start:l.position]
	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return l.mk(token.ERROR_TOKEN, start, lit, "malformed integer literal: "+lit)
	}
	return l.mk(token.INT, start, lit, v)
}

func allBinaryDigits(s string) bool {
	for _, r := range s {
		if r != '0' && r != '1' {
			return false
		}
	}
	return len(s) > 0
}

func allOctalDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '7' {
			return false
		}
	}
	return len(s) > 0
}

func (l *Lexer) readChar_(start int) token.Token {
	l.readChar() // consume opening '
	if l.ch == 0 {
		return l.mk(token.ERROR_TOKEN, start, l.input[start:l.position], "unterminated char literal")
	}
	var r rune
	if l.ch == '\\' {
		l.readChar()
		esc, ok := l.decodeEscape()
		if !ok {
			return l.mk(token.ERROR_TOKEN, start, l.input[start:l.position], "unknown escape sequence in char literal")
		}
		r = esc
	} else {
		r = l.ch
	}
	l.readChar() // consume literal char
	if l.ch != '\'' {
		return l.mk(token.ERROR_TOKEN, start, l.input[start:l.position], "char literal must contain exactly one character")
	}
	l.readChar() // consume closing '
	return l.mk(token.CHAR, start, l.input[start:l.position], r)
}

// decodeEscape decodes the backslash-escape whose specifier character
// is l.ch (the character immediately after the backslash), per spec.md
// §4.1's `\n \r \t \\ \" \' \0 \xHH \uHHHH` escape table. `\xHH`/`\uHHHH`
// also consume their following hex digits, leaving l.ch on the last
// digit consumed — exactly like the single-character escapes, so every
// caller always follows up with one more l.readChar() to advance past
// the whole escape sequence.
func (l *Lexer) decodeEscape() (rune, bool) {
	switch l.ch {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	case 'x':
		return l.readHexEscape(2)
	case 'u':
		return l.readHexEscape(4)
	default:
		return 0, false
	}
}

// readHexEscape consumes n hex digit characters following the escape
// specifier ('x' or 'u', currently l.ch) and returns their value as a
// rune, leaving l.ch on the last digit consumed.
func (l *Lexer) readHexEscape(n int) (rune, bool) {
	var v rune
	for i := 0; i < n; i++ {
		l.readChar()
		d, ok := hexDigitValue(l.ch)
		if !ok {
			return 0, false
		}
		v = v*16 + rune(d)
	}
	return v, true
}

func hexDigitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	}
	return 0, false
}

// readString scans a plain `"..."` string literal. An identifier "i"
// immediately followed by '"' is diverted to ReadIStringStart by
// readIdentifierOrKeyword before reaching here, so ordinary strings
// never interpolate.
func (l *Lexer) readString(start int) token.Token {
	l.readChar() // consume opening "
	var b strings.Builder
	for {
		if l.ch == 0 {
			return l.mk(token.ERROR_TOKEN, start, l.input[start:l.position], "unterminated string literal")
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			esc, ok := l.decodeEscape()
			if !ok {
				return l.mk(token.ERROR_TOKEN, start, l.input[start:l.position], "unknown escape sequence in string literal")
			}
			b.WriteRune(esc)
			l.readChar()
			continue
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	return l.mk(token.STRING, start, l.input[start:l.position], l.arena.Intern(b.String()))
}

// ReadIStringStart is called once the lexer has just consumed the
// identifier "i" immediately followed by '"' (no intervening
// whitespace): it consumes the opening quote and returns ISTRING_START.
func (l *Lexer) ReadIStringStart(start int) token.Token {
	l.readChar() // consume opening "
	return l.mk(token.ISTRING_START, start, `i"`, nil)
}

// ReadIStringText buffers literal text (resolving escapes, preserving
// bare `{}` placeholder markers) until it sees the closing `"`, and
// returns that text as ISTRING_TEXT. The next NextIStringToken call then
// yields ISTRING_END (no trailing `:{`) or ISTRING_EXPR_START; in the
// latter case a new entry is already on the brace-depth stack, so the
// caller's subsequent NextIStringToken calls tokenize the argument list
// until the matching close, per spec.md §4.1.
func (l *Lexer) ReadIStringText() token.Token {
	start := l.position
	var b strings.Builder
	for {
		if l.ch == 0 {
			return l.mk(token.ERROR_TOKEN, start, l.input[start:l.position], "unterminated interpolated string")
		}
		if l.ch == '"' {
			textTok := l.mk(token.ISTRING_TEXT, start, l.input[start:l.position], b.String())
			l.readChar() // consume closing "
			if l.ch == ':' && l.peekChar() == '{' {
				exprStart := l.position
				l.readChar() // :
				l.readChar() // {
				l.istringDepth = append(l.istringDepth, 1)
				_ = exprStart
				// The caller receives ISTRING_TEXT now; ISTRING_EXPR_START
				// is produced by the following NextIStringToken call so
				// the text and the expr-start remain two separate tokens.
				l.pendingExprStart = true
				return textTok
			}
			l.pendingIStringEnd = true
			return textTok
		}
		if l.ch == '\\' {
			l.readChar()
			esc, ok := l.decodeEscape()
			if !ok {
				return l.mk(token.ERROR_TOKEN, start, l.input[start:l.position], "unknown escape sequence in interpolated string")
			}
			b.WriteRune(esc)
			l.readChar()
			continue
		}
		if l.ch == '{' && l.peekChar() == '}' {
			b.WriteString("{}")
			l.readChar()
			l.readChar()
			continue
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
}

// NextIStringToken drains any token ReadIStringText deferred, else
// delegates to the brace-depth-aware expression tokenizer.
func (l *Lexer) NextIStringToken() token.Token {
	if l.pendingExprStart {
		l.pendingExprStart = false
		start := l.position - 2 // ":{" already consumed by ReadIStringText
		return l.mk(token.ISTRING_EXPR_START, start, ":{", nil)
	}
	if l.pendingIStringEnd {
		l.pendingIStringEnd = false
		return l.mk(token.ISTRING_END, l.position, `"`, nil)
	}
	return l.nextExprToken()
}

// nextExprToken tokenizes normally but watches the brace-depth stack:
// seeing RBRACE while a depth entry is open decrements it, and at
// depth zero pops the entry and yields ISTRING_EXPR_END instead of
// RBRACE, returning the lexer to NONE.
func (l *Lexer) nextExprToken() token.Token {
	l.skipWhitespaceAndComments()
	start := l.position
	if l.ch == '{' && len(l.istringDepth) > 0 {
		l.istringDepth[len(l.istringDepth)-1]++
	}
	if l.ch == '}' && len(l.istringDepth) > 0 {
		top := len(l.istringDepth) - 1
		l.istringDepth[top]--
		if l.istringDepth[top] == 0 {
			l.istringDepth = l.istringDepth[:top]
			l.readChar()
			return l.mk(token.ISTRING_EXPR_END, start, "}", nil)
		}
	}
	return l.NextToken()
}

// InIStringExpr reports whether the lexer is currently inside an open
// i-string expression list (used by the parser to know when a plain
// NextToken call should instead route through NextIStringToken).
func (l *Lexer) InIStringExpr() bool { return len(l.istringDepth) > 0 }

func (l *Lexer) readOperator(start int) token.Token {
	ch := l.ch
	two := func(k token.Kind, lex string) token.Token {
		l.readChar()
		l.readChar()
		return l.mk(k, start, lex, nil)
	}
	one := func(k token.Kind) token.Token {
		l.readChar()
		return l.mk(k, start, string(ch), nil)
	}

	switch ch {
	case '(':
		return one(token.LPAREN)
	case ')':
		return one(token.RPAREN)
	case '{':
		return one(token.LBRACE)
	case '}':
		return one(token.RBRACE)
	case '[':
		return one(token.LBRACKET)
	case ']':
		return one(token.RBRACKET)
	case ';':
		return one(token.SEMICOLON)
	case ',':
		return one(token.COMMA)
	case '~':
		return one(token.TILDE)
	case '@':
		return one(token.AT)
	case ':':
		if l.peekChar() == ':' {
			return two(token.COLONCOLON, "::")
		}
		return one(token.COLON)
	case '.':
		return one(token.DOT)
	case '=':
		if l.peekChar() == '=' {
			return two(token.EQ, "==")
		}
		return one(token.ASSIGN)
	case '+':
		switch l.peekChar() {
		case '+':
			return two(token.PLUS_PLUS, "++")
		case '=':
			return two(token.PLUS_ASSIGN, "+=")
		}
		return one(token.PLUS)
	case '-':
		switch l.peekChar() {
		case '-':
			return two(token.MINUS_MINUS, "--")
		case '=':
			return two(token.MINUS_ASSIGN, "-=")
		case '>':
			return two(token.ARROW, "->")
		}
		return one(token.MINUS)
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			return l.mk(token.POWER, start, "**", nil)
		}
		if l.peekChar() == '=' {
			return two(token.STAR_ASSIGN, "*=")
		}
		return one(token.STAR)
	case '/':
		if l.peekChar() == '=' {
			return two(token.SLASH_ASSIGN, "/=")
		}
		return one(token.SLASH)
	case '%':
		if l.peekChar() == '=' {
			return two(token.PERCENT_ASSIGN, "%=")
		}
		return one(token.PERCENT)
	case '^':
		if l.peekChar() == '=' {
			return two(token.CARET_ASSIGN, "^=")
		}
		return one(token.CARET)
	case '&':
		switch l.peekChar() {
		case '&':
			return two(token.AND_AND, "&&")
		case '=':
			return two(token.AMP_ASSIGN, "&=")
		}
		return one(token.AMP)
	case '|':
		switch l.peekChar() {
		case '|':
			return two(token.OR_OR, "||")
		case '=':
			return two(token.PIPE_ASSIGN, "|=")
		}
		return one(token.PIPE)
	case '!':
		if l.peekChar() == '=' {
			return two(token.NOT_EQ, "!=")
		}
		return one(token.BANG)
	case '<':
		switch l.peekChar() {
		case '=':
			return two(token.LTE, "<=")
		case '<':
			if l.peekChar2() == '=' {
				l.readChar()
				l.readChar()
				l.readChar()
				return l.mk(token.LSHIFT_ASSIGN, start, "<<=", nil)
			}
			return two(token.LSHIFT, "<<")
		}
		return one(token.LT)
	case '>':
		switch l.peekChar() {
		case '=':
			return two(token.GTE, ">=")
		case '>':
			if l.peekChar2() == '=' {
				l.readChar()
				l.readChar()
				l.readChar()
				return l.mk(token.RSHIFT_ASSIGN, start, ">>=", nil)
			}
			return two(token.RSHIFT, ">>")
		}
		return one(token.GT)
	case '?':
		switch l.peekChar() {
		case '?':
			return two(token.QUESTION_QUESTION, "??")
		case '.':
			return two(token.QUESTION_DOT, "?.")
		}
		return one(token.QUESTION)
	default:
		l.readChar()
		return l.mk(token.ERROR_TOKEN, start, string(ch), "unexpected character "+strconv.QuoteRune(ch))
	}
}
