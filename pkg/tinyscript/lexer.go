package tinyscript

// The tokenizer works directly on the interpreter's cursor: next reads one
// token from the remaining source and pushBack rewinds to the start of the
// most recent token. Exactly one level of pushback is supported; control
// transfers invalidate it by setting last to -1.

// pushBack rewinds the cursor so the next call to next re-reads the most
// recent token. One level only.
func (ip *Interp) pushBack() {
	if ip.last >= 0 {
		ip.pos = ip.last
	}
}

// next scans the next token, leaving its text in ip.tok. Identifiers are
// folded to lower case here, which is what makes every name in the language
// case-insensitive by construction.
func (ip *Interp) next() tokKind {
	ip.last = ip.pos
	src := ip.src

	// Whitespace, comments and line continuations. A newline is significant
	// and comes back as its own token.
	for {
		for ip.pos < len(src) && isSpace(src[ip.pos]) {
			ip.pos++
			if src[ip.pos-1] == '\n' {
				return tokLF
			}
		}
		if ip.pos < len(src) && src[ip.pos] == '#' {
			for ip.pos < len(src) && src[ip.pos] != '\n' {
				ip.pos++
			}
			if ip.pos >= len(src) {
				return tokEOF
			}
			ip.pos++
			return tokLF
		}
		if ip.pos < len(src) && src[ip.pos] == '\\' {
			ip.pos++
			for ip.pos < len(src) && src[ip.pos] != '\n' && isSpace(src[ip.pos]) {
				ip.pos++
			}
			if ip.pos >= len(src) || src[ip.pos] != '\n' {
				ip.Throw("bad '\\' at end of line")
			}
			ip.pos++
			continue
		}
		break
	}

	ip.last = ip.pos

	if ip.pos >= len(src) {
		ip.tok = ""
		return tokEOF
	}

	switch c := src[ip.pos]; {
	case c == '"' || c == '\'':
		return ip.scanString(c, false)
	case (c == 'r' || c == 'R') && ip.pos+1 < len(src) && (src[ip.pos+1] == '"' || src[ip.pos+1] == '\''):
		ip.pos++
		return ip.scanString(src[ip.pos], true)
	case isIdStart(c):
		return ip.scanIdent()
	case isDigit(c):
		return ip.scanNumber()
	default:
		for i := 0; i < len(operators); i++ {
			if operators[i] == c {
				ip.pos++
				ip.tok = string(c)
				return tokKind(c)
			}
		}
		ip.Throw("unknown token '%c'", c)
		return tokEOF
	}
}

// scanString reads a quoted string after the cursor has been positioned on
// its opening quote. Standard strings understand the \n \r \t escapes and
// pass any other escaped character through literally; raw strings take
// every character up to the terminator as-is.
func (ip *Interp) scanString(term byte, raw bool) tokKind {
	src := ip.src
	ip.pos++ // opening quote
	buf := make([]byte, 0, 16)
	for {
		if ip.pos >= len(src) {
			ip.Throw("unterminated string")
		}
		if src[ip.pos] == term {
			ip.pos++
			ip.tok = string(buf)
			return tokQuote
		}
		if len(buf) > ip.limits.MaxToken-2 {
			ip.Throw("token too long")
		}
		if !raw && src[ip.pos] == '\\' {
			if ip.pos+1 >= len(src) {
				ip.Throw("unterminated string")
			}
			switch src[ip.pos+1] {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			default:
				buf = append(buf, src[ip.pos+1])
			}
			ip.pos += 2
			continue
		}
		buf = append(buf, src[ip.pos])
		ip.pos++
	}
}

func (ip *Interp) scanIdent() tokKind {
	src := ip.src
	buf := make([]byte, 0, 16)
	for ip.pos < len(src) && isIdChar(src[ip.pos]) {
		if len(buf) > ip.limits.MaxToken-3 {
			ip.Throw("token too long")
		}
		buf = append(buf, foldByte(src[ip.pos]))
		ip.pos++
	}
	kind := tokIdent
	if ip.pos < len(src) && src[ip.pos] == '$' {
		kind = tokStrIdent
		buf = append(buf, '$')
		ip.pos++
	}
	ip.tok = string(buf)
	if k, ok := keywords[ip.tok]; ok {
		return k
	}
	return kind
}

func (ip *Interp) scanNumber() tokKind {
	src := ip.src
	start := ip.pos
	for ip.pos < len(src) && isDigit(src[ip.pos]) {
		if ip.pos-start > ip.limits.MaxToken-2 {
			ip.Throw("token too long")
		}
		ip.pos++
	}
	ip.tok = src[start:ip.pos]
	return tokNumber
}
