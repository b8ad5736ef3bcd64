package netpbm

// scanner splits a buffer into whitespace-delimited tokens.
//
// The cursor only moves forward: prev <= pos <= len(buf) at all times.
// There is no lookahead, so a raw body following the header is never
// inspected before rest() hands it over.
type scanner struct {
	buf   []byte
	pos   int  // next unread byte
	prev  int  // start of the last returned token
	delim byte // delimiter consumed by the last next(), 0 if none
}

func newScanner(buf []byte) *scanner {
	return &scanner{buf: buf}
}

// next returns the bytes from the cursor up to the next whitespace byte and
// moves the cursor past that byte. Adjacent delimiters produce an empty
// token. Without a delimiter the token runs to the end of the buffer.
func (s *scanner) next() []byte {
	s.prev = s.pos
	s.delim = 0
	for i := s.pos; i < len(s.buf); i++ {
		if isWhitespace(s.buf[i]) {
			s.delim = s.buf[i]
			s.pos = i + 1
			return s.buf[s.prev:i]
		}
	}
	s.pos = len(s.buf)
	return s.buf[s.prev:]
}

// rest returns everything after the cursor and moves the cursor to the end.
func (s *scanner) rest() []byte {
	s.prev = s.pos
	s.pos = len(s.buf)
	s.delim = 0
	return s.buf[s.prev:]
}

// skipLine discards the remainder of a comment. A comment token that was
// itself terminated by a line break has already ended.
func (s *scanner) skipLine() {
	if isLineBreak(s.delim) {
		return
	}
	for s.pos < len(s.buf) {
		b := s.buf[s.pos]
		s.pos++
		if isLineBreak(b) {
			s.delim = b
			return
		}
	}
	s.delim = 0
}

func (s *scanner) done() bool {
	return s.pos >= len(s.buf)
}

// offset is the position of the last returned token.
func (s *scanner) offset() int {
	return s.prev
}

// isWhitespace returns true if b is a whitespace character.
// Whitespace is defined as: space, tab, \n, \r
func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isLineBreak(b byte) bool {
	return b == '\n' || b == '\r'
}

// Body is the part of the input that follows the header, as seen by a
// BodyDecoder. Plain formats read it token by token; raw formats take
// it whole with Rest.
type Body struct {
	s *scanner
}

// Token returns the next whitespace-delimited token. Empty tokens are
// returned as-is and should be skipped by the caller.
func (b *Body) Token() []byte {
	return b.s.next()
}

// Rest returns all unread bytes. It must be called at most once.
func (b *Body) Rest() []byte {
	return b.s.rest()
}

// Done reports whether the whole input has been consumed.
func (b *Body) Done() bool {
	return b.s.done()
}

// Offset is the byte offset of the last token or Rest slice within the input.
func (b *Body) Offset() int {
	return b.s.offset()
}
