// Package token defines the lexical vocabulary shared by the lexer and
// parser: token kinds, the keyword table, and the Pratt precedence table.
package token

import "github.com/fluxlang/flux/internal/source"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT
	INT
	FLOAT
	STRING
	CHAR
	BOOL
	NULL
	BIT_WIDTH // {N} following a type keyword or literal

	// Interpolated-string sub-tokens (spec.md §4.1 I-string sub-state machine)
	ISTRING_START // i"
	ISTRING_TEXT  // literal chunk between { } placeholders
	ISTRING_END   // closing " with no :{...} tail
	ISTRING_EXPR_START
	ISTRING_EXPR_END

	// Identifiers & keywords
	keywordBeg
	DEF
	CLASS
	STRUCT
	OBJECT
	UNION
	NAMESPACE
	TYPEDEF
	IMPORT
	USING
	IF
	ELSE
	WHILE
	DO
	FOR
	FOREACH
	IN
	RETURN
	BREAK
	CONTINUE
	THROW
	TRY
	CATCH
	ASM
	SWITCH
	CASE
	DEFAULT
	ASSERT
	TRUE
	FALSE
	NULLKW
	AUTO
	SIZEOF
	TYPEOF
	AS
	AND
	OR
	NOT
	XOR
	IS
	VOLATILE
	SIGNED
	UNSIGNED
	DATA
	INT_KW
	FLOAT_KW
	BOOL_KW
	CHAR_KW
	STRING_KW
	VOID_KW
	keywordEnd

	// Punctuation & operators
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	SEMICOLON
	COLON
	COLONCOLON // ::
	COMMA
	DOT
	ARROW // ->
	AT    // @ (address-of)

	ASSIGN
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	CARET
	TILDE
	AMP
	PIPE
	BANG

	PLUS_PLUS
	MINUS_MINUS

	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	AMP_ASSIGN
	PIPE_ASSIGN
	CARET_ASSIGN
	LSHIFT_ASSIGN
	RSHIFT_ASSIGN

	LSHIFT
	RSHIFT

	EQ
	NOT_EQ
	LT
	GT
	LTE
	GTE

	AND_AND
	OR_OR

	POWER // **

	QUESTION
	QUESTION_QUESTION // ??
	QUESTION_DOT      // ?.

	ERROR_TOKEN // lexer error carrier
)

// keywords maps lowercase identifier text to its keyword Kind.
var keywords = map[string]Kind{
	"def":       DEF,
	"class":     CLASS,
	"struct":    STRUCT,
	"object":    OBJECT,
	"union":     UNION,
	"namespace": NAMESPACE,
	"typedef":   TYPEDEF,
	"import":    IMPORT,
	"using":     USING,
	"if":        IF,
	"else":      ELSE,
	"while":     WHILE,
	"do":        DO,
	"for":       FOR,
	"foreach":   FOREACH,
	"in":        IN,
	"return":    RETURN,
	"break":     BREAK,
	"continue":  CONTINUE,
	"throw":     THROW,
	"try":       TRY,
	"catch":     CATCH,
	"asm":       ASM,
	"switch":    SWITCH,
	"case":      CASE,
	"default":   DEFAULT,
	"assert":    ASSERT,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULLKW,
	"auto":      AUTO,
	"sizeof":    SIZEOF,
	"typeof":    TYPEOF,
	"as":        AS,
	"and":       AND,
	"or":        OR,
	"not":       NOT,
	"xor":       XOR,
	"is":        IS,
	"volatile":  VOLATILE,
	"signed":    SIGNED,
	"unsigned":  UNSIGNED,
	"data":      DATA,
	"int":       INT_KW,
	"float":     FLOAT_KW,
	"bool":      BOOL_KW,
	"char":      CHAR_KW,
	"string":    STRING_KW,
	"void":      VOID_KW,
}

// LookupIdent resolves an identifier's lexeme to a keyword Kind, or IDENT
// when it names no keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// IsKeyword reports whether kind names a reserved word.
func IsKeyword(kind Kind) bool {
	return kind > keywordBeg && kind < keywordEnd
}

// Token is a single lexical unit: its kind, the exact source slice it
// covers, the range it spans, and an optional decoded literal payload.
//
// Literal holds, depending on Kind: int64 (INT; a `{N}` bit width is
// carried in Bits, not here), float64 (FLOAT), bool
// (BOOL), rune (CHAR), string (STRING, IDENT, ISTRING_TEXT), or a parse
// error message (ERROR_TOKEN).
type Token struct {
	Kind    Kind
	Lexeme  string
	Range   source.Range
	Literal interface{}

	// Bits holds a trailing `{N}` bit-width specifier folded in at lex
	// time, for type keywords (INT_KW, FLOAT_KW, SIGNED, UNSIGNED, DATA)
	// and integer literals (INT). Zero means no specifier was present.
	Bits int
}

// Precedence levels, low to high, per spec.md §4.2.
const (
	LOWEST      = iota
	ASSIGNMENT  // = += -= ...  (right-assoc)
	TERNARY     // ?:           (right-assoc)
	LOGIC_OR    // or ||
	LOGIC_AND   // and &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALITY    // == != is
	RELATIONAL  // < > <= >= in as
	SHIFT       // << >>
	ADDITIVE    // + -
	MULTIPLY    // * / %
	EXPONENT    // ** (right-assoc)
	UNARY       // - ! ~ * @ ++ -- (prefix)
	POSTFIX     // . -> :: [] () ++ --
)

// Precedences maps an infix/postfix token Kind to its binding power.
// Tokens absent from this table bind at LOWEST (i.e. are not infix
// operators).
var Precedences = map[Kind]int{
	ASSIGN:         ASSIGNMENT,
	PLUS_ASSIGN:    ASSIGNMENT,
	MINUS_ASSIGN:   ASSIGNMENT,
	STAR_ASSIGN:    ASSIGNMENT,
	SLASH_ASSIGN:   ASSIGNMENT,
	PERCENT_ASSIGN: ASSIGNMENT,
	AMP_ASSIGN:     ASSIGNMENT,
	PIPE_ASSIGN:    ASSIGNMENT,
	CARET_ASSIGN:   ASSIGNMENT,
	LSHIFT_ASSIGN:  ASSIGNMENT,
	RSHIFT_ASSIGN:  ASSIGNMENT,
	QUESTION:       TERNARY,
	OR:             LOGIC_OR,
	OR_OR:          LOGIC_OR,
	AND:            LOGIC_AND,
	AND_AND:        LOGIC_AND,
	PIPE:           BIT_OR,
	CARET:          BIT_XOR,
	AMP:            BIT_AND,
	EQ:             EQUALITY,
	NOT_EQ:         EQUALITY,
	IS:             EQUALITY,
	LT:             RELATIONAL,
	GT:             RELATIONAL,
	LTE:            RELATIONAL,
	GTE:            RELATIONAL,
	IN:             RELATIONAL,
	AS:             RELATIONAL,
	LSHIFT:         SHIFT,
	RSHIFT:         SHIFT,
	PLUS:           ADDITIVE,
	MINUS:          ADDITIVE,
	STAR:           MULTIPLY,
	SLASH:          MULTIPLY,
	PERCENT:        MULTIPLY,
	POWER:          EXPONENT,
	DOT:            POSTFIX,
	ARROW:          POSTFIX,
	COLONCOLON:     POSTFIX,
	LBRACKET:       POSTFIX,
	LPAREN:         POSTFIX,
	PLUS_PLUS:      POSTFIX,
	MINUS_MINUS:    POSTFIX,
	QUESTION_QUESTION: TERNARY,
	QUESTION_DOT:      POSTFIX,
}

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING", CHAR: "CHAR", BOOL: "BOOL", NULL: "NULL",
	BIT_WIDTH:          "BIT_WIDTH",
	ISTRING_START:      "ISTRING_START",
	ISTRING_TEXT:       "ISTRING_TEXT",
	ISTRING_END:        "ISTRING_END",
	ISTRING_EXPR_START: "ISTRING_EXPR_START",
	ISTRING_EXPR_END:   "ISTRING_EXPR_END",
	DEF: "def", CLASS: "class", STRUCT: "struct", OBJECT: "object", UNION: "union",
	NAMESPACE: "namespace", TYPEDEF: "typedef", IMPORT: "import", USING: "using",
	IF: "if", ELSE: "else", WHILE: "while", DO: "do", FOR: "for", FOREACH: "foreach", IN: "in",
	RETURN: "return", BREAK: "break", CONTINUE: "continue", THROW: "throw", TRY: "try", CATCH: "catch",
	ASM: "asm", SWITCH: "switch", CASE: "case", DEFAULT: "default", ASSERT: "assert",
	TRUE: "true", FALSE: "false", NULLKW: "null", AUTO: "auto", SIZEOF: "sizeof", TYPEOF: "typeof", AS: "as",
	AND: "and", OR: "or", NOT: "not", XOR: "xor", IS: "is", VOLATILE: "volatile",
	SIGNED: "signed", UNSIGNED: "unsigned", DATA: "data",
	INT_KW: "int", FLOAT_KW: "float", BOOL_KW: "bool", CHAR_KW: "char", STRING_KW: "string", VOID_KW: "void",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	SEMICOLON: ";", COLON: ":", COLONCOLON: "::", COMMA: ",", DOT: ".", ARROW: "->", AT: "@",
	ASSIGN: "=", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	CARET: "^", TILDE: "~", AMP: "&", PIPE: "|", BANG: "!",
	PLUS_PLUS: "++", MINUS_MINUS: "--",
	PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=",
	AMP_ASSIGN: "&=", PIPE_ASSIGN: "|=", CARET_ASSIGN: "^=", LSHIFT_ASSIGN: "<<=", RSHIFT_ASSIGN: ">>=",
	LSHIFT: "<<", RSHIFT: ">>",
	EQ: "==", NOT_EQ: "!=", LT: "<", GT: ">", LTE: "<=", GTE: ">=",
	AND_AND: "&&", OR_OR: "||", POWER: "**",
	QUESTION: "?", QUESTION_QUESTION: "??", QUESTION_DOT: "?.",
	ERROR_TOKEN: "ERROR_TOKEN",
}

// String names kind for diagnostic and -tokens dump output.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}
