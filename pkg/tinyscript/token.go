package tinyscript

// tokKind identifies a token. Single-character operators are represented by
// their byte value; keyword kinds start at 256 so the two ranges can never
// collide.
type tokKind int

const (
	tokEOF      tokKind = 0 // end of input
	tokIdent    tokKind = 1 // identifier, numeric-typed ("foo")
	tokStrIdent tokKind = 2 // identifier with trailing $ ("foo$")
	tokNumber   tokKind = 3
	tokQuote    tokKind = 4
	tokLF       tokKind = 5 // newline, a significant statement separator
)

const (
	tokLet tokKind = iota + 256
	tokIf
	tokThen
	tokGoto
	tokGosub
	tokReturn
	tokOn
	tokEnd
	tokAnd
	tokOr
	tokNot
	tokFor
	tokTo
	tokDo
	tokStep
	tokNext
)

// keywords are matched case-insensitively; the tokenizer folds identifiers
// to lower case before the lookup.
var keywords = map[string]tokKind{
	"let":    tokLet,
	"if":     tokIf,
	"then":   tokThen,
	"goto":   tokGoto,
	"gosub":  tokGosub,
	"return": tokReturn,
	"on":     tokOn,
	"end":    tokEnd,
	"and":    tokAnd,
	"or":     tokOr,
	"not":    tokNot,
	"for":    tokFor,
	"to":     tokTo,
	"do":     tokDo,
	"step":   tokStep,
	"next":   tokNext,
}

// operators is the fixed set of single-character operator/punctuation tokens.
const operators = "=<>~+-*/%&()[],:"

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isIdStart returns true if the character can begin an identifier.
func isIdStart(ch byte) bool {
	return isAlpha(ch) || ch == '_'
}

// isIdChar returns true if the character can continue an identifier.
func isIdChar(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || ch == '_'
}

func foldByte(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + 'a' - 'A'
	}
	return ch
}
