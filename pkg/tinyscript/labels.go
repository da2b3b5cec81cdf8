package tinyscript

import "strconv"

// scanLabels is the pre-pass that runs before any statement executes. It
// walks the whole source token by token and records every label with the
// offset of the token that follows it. A label is only recognized as the
// first token on a line, either a bare NUMBER or an IDENT followed by ':'.
// Numeric labels must strictly increase through the source; duplicates of
// either form are fatal. The cursor is restored before returning.
func (ip *Interp) scanLabels() {
	savePos, saveLast := ip.pos, ip.last
	lastNum := -1
	atLineStart := true

	for {
		var t tokKind
		if atLineStart {
			t = tokLF
		} else {
			t = ip.next()
			if t == tokEOF {
				break
			}
		}
		if t == tokLF {
			switch t2 := ip.next(); t2 {
			case tokEOF:
				goto done
			case tokNumber:
				n, _ := strconv.Atoi(ip.tok)
				if n <= lastNum {
					ip.Throw("label %d out of sequence", n)
				}
				lastNum = n
				if _, dup := ip.labels.find(ip.tok); dup {
					ip.Throw("duplicate label '%s'", ip.tok)
				}
				ip.labels.put(ip.tok, ip.pos)
			case tokIdent:
				name := ip.tok
				if ip.next() == tokKind(':') {
					if _, dup := ip.labels.find(name); dup {
						ip.Throw("duplicate label '%s'", name)
					}
					ip.labels.put(name, ip.pos)
				} else {
					ip.pushBack()
				}
			case tokLF:
				ip.pushBack()
			}
		}
		atLineStart = false
	}

done:
	ip.pos, ip.last = savePos, saveLast
}
