package tinyscript

import "strconv"

// Value is the tagged scalar handled by the interpreter: either an integer
// or a string. Variables, function arguments and function results all use
// the same representation.
type Value struct {
	IsNum bool
	Num   int
	Str   string
}

// IntVal wraps an integer in a Value.
func IntVal(n int) Value { return Value{IsNum: true, Num: n} }

// StrVal wraps a string in a Value.
func StrVal(s string) Value { return Value{Str: s} }

// Int returns the value coerced to an integer. A string converts via its
// leading decimal-integer prefix and falls back to 0.
func (v Value) Int() int {
	if v.IsNum {
		return v.Num
	}
	return parseLeadingInt(v.Str)
}

// String returns the value coerced to a string. Integers render in base 10.
func (v Value) String() string {
	if v.IsNum {
		return strconv.Itoa(v.Num)
	}
	return v.Str
}

// parseLeadingInt reads an optionally signed decimal integer from the start
// of s, skipping leading whitespace, like C's atoi. No digits means 0.
func parseLeadingInt(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if neg {
		return -n
	}
	return n
}
