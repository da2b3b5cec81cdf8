package hostfuncs

import (
	"fmt"
	"regexp"

	"github.com/antibyte/tinyscript/pkg/tinyscript"
)

// REGEX(pattern$, string$) matches a POSIX extended regular expression
// against a string. It returns the number of matched groups, or 0 when the
// string does not match. On a match the array _m$[] holds the groups;
// _m$[0] is the full match, so the largest index is one less than the
// return value. At most ten groups are captured.
func fnRegex(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	pat := ip.ArgString(argv, 0)
	str := ip.ArgString(argv, 1)

	re, err := regexp.CompilePOSIX(pat)
	if err != nil {
		ip.Throw("in REGEX(): %v", err)
	}

	m := re.FindStringSubmatchIndex(str)
	if m == nil {
		return tinyscript.IntVal(0)
	}

	n := len(m) / 2
	if n > 10 {
		n = 10
	}
	count := 0
	for i := 0; i < n; i++ {
		if m[2*i] < 0 {
			break
		}
		ip.SetString(fmt.Sprintf("_m$[%d]", i), str[m[2*i]:m[2*i+1]])
		count++
	}
	return tinyscript.IntVal(count)
}
