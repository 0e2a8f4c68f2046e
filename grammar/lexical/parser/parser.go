package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nihei9/lrgen/grammar/lexical/charset"
)

// maxRepeatCount bounds the counts of `{m,n}` so that unrolling a quantifier stays tractable.
const maxRepeatCount = 1000

// maxUnrolledSize bounds the number of character sets a pattern expands into once every quantifier is
// unrolled. Nested quantifiers multiply their counts.
const maxUnrolledSize = 100000

type parser struct {
	pattern string
	src     []rune
	pos     int
}

// Parse parses a pattern into a syntax tree. It returns *ParseError when the pattern is malformed.
func Parse(pattern string) (root Node, retErr error) {
	p := &parser{
		pattern: pattern,
		src:     []rune(pattern),
	}

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(*ParseError)
		if !ok {
			panic(v)
		}
		retErr = err
	}()

	return p.parseRegexp(), nil
}

func (p *parser) parseRegexp() Node {
	if len(p.src) == 0 {
		p.raiseParseError(SynErrNullPattern, "a character, a character class, or a group")
	}
	n := p.parseBranch()
	if !p.eof() {
		// parseBranch stops only at EOF or `)`.
		p.raiseParseError(SynErrGroupNoInitiator, "")
	}
	return n
}

func (p *parser) parseBranch() Node {
	var branches []Node
	branches = append(branches, p.parseSequence())
	for p.consume('|') {
		branches = append(branches, p.parseSequence())
	}
	if len(branches) == 1 {
		return branches[0]
	}
	return &Alternation{
		Branches: branches,
	}
}

func (p *parser) parseSequence() Node {
	var elems []Node
	for {
		c, ok := p.peek()
		if !ok || c == '|' || c == ')' {
			break
		}
		elems = append(elems, p.parseQuantifier())
	}
	switch len(elems) {
	case 0:
		c, ok := p.peek()
		switch {
		case ok && c == '|', p.pos > 0 && p.src[p.pos-1] == '|':
			p.raiseParseError(SynErrAltLackOfOperand, "a character, a character class, or a group")
		case ok && c == ')' && p.pos > 0 && p.src[p.pos-1] == '(':
			p.raiseParseError(SynErrGroupNoElem, "a character, a character class, or a group")
		case ok && c == ')':
			p.raiseParseError(SynErrGroupNoInitiator, "")
		}
		p.raiseParseError(SynErrNullPattern, "a character, a character class, or a group")
	case 1:
		return elems[0]
	}
	return &Sequence{
		Elements: elems,
	}
}

func (p *parser) parseQuantifier() Node {
	operand := p.parsePrimary()
	c, ok := p.peek()
	if !ok {
		return operand
	}
	var q *Quantifier
	switch c {
	case '*':
		p.next()
		q = &Quantifier{Operand: operand, Min: 0, Max: Infinite}
	case '+':
		p.next()
		q = &Quantifier{Operand: operand, Min: 1, Max: Infinite}
	case '?':
		p.next()
		q = &Quantifier{Operand: operand, Min: 0, Max: 1}
	case '{':
		p.next()
		min, max := p.parseBounds()
		q = &Quantifier{Operand: operand, Min: min, Max: max}
	default:
		return operand
	}
	if unrolledSize(q) > maxUnrolledSize {
		p.raiseParseError(SynErrRepTooLarge, fmt.Sprintf("a pattern expanding into <= %v character sets", maxUnrolledSize))
	}
	return q
}

// unrolledSize returns the number of character sets a node expands into. The result saturates at
// maxUnrolledSize+1.
func unrolledSize(n Node) int {
	limit := maxUnrolledSize + 1
	switch n := n.(type) {
	case *CharSet:
		return 1
	case *Sequence:
		return sumSizes(n.Elements, limit)
	case *Alternation:
		return sumSizes(n.Branches, limit)
	case *Quantifier:
		copies := n.Max
		if n.Max == Infinite {
			copies = n.Min + 1
		}
		size := unrolledSize(n.Operand)
		if copies > 0 && size > limit/copies {
			return limit
		}
		return size * copies
	}
	panic(fmt.Errorf("unknown node type: %T", n))
}

func sumSizes(ns []Node, limit int) int {
	sum := 0
	for _, n := range ns {
		sum += unrolledSize(n)
		if sum >= limit {
			return limit
		}
	}
	return sum
}

// parseBounds parses `m}`, `m,}`, or `m,n}` following `{`.
func (p *parser) parseBounds() (int, int) {
	min := p.parseCount()
	max := min
	if p.consume(',') {
		c, ok := p.peek()
		if ok && isDigit(c) {
			max = p.parseCount()
			if max < min {
				p.raiseParseError(SynErrRepInvalidOrder, fmt.Sprintf("an upper bound >= %v", min))
			}
		} else {
			max = Infinite
		}
	}
	if p.eof() {
		p.raiseParseError(SynErrRepUnclosed, "}")
	}
	if !p.consume('}') {
		p.raiseParseError(SynErrRepInvalidBound, "}")
	}
	return min, max
}

func (p *parser) parseCount() int {
	start := p.pos
	for {
		c, ok := p.peek()
		if !ok || !isDigit(c) {
			break
		}
		p.next()
	}
	if p.pos == start {
		if p.eof() {
			p.raiseParseError(SynErrRepUnclosed, "a decimal number")
		}
		p.raiseParseError(SynErrRepInvalidBound, "a decimal number")
	}
	n, err := strconv.Atoi(string(p.src[start:p.pos]))
	if err != nil || n > maxRepeatCount {
		p.pos = start
		p.raiseParseError(SynErrRepInvalidBound, fmt.Sprintf("a decimal number <= %v", maxRepeatCount))
	}
	return n
}

func (p *parser) parsePrimary() Node {
	c, ok := p.peek()
	if !ok {
		p.raiseParseError(SynErrNullPattern, "a character, a character class, or a group")
	}
	switch c {
	case '(':
		p.next()
		n := p.parseBranch()
		if p.eof() {
			p.raiseParseError(SynErrGroupUnclosed, ")")
		}
		p.next() // `)`
		return n
	case '[':
		p.next()
		return p.parseBracketExp()
	case '.':
		p.next()
		return &CharSet{
			Ranges: charset.NewFullSet(),
		}
	case '\\':
		p.next()
		set, _, _ := p.parseEscape()
		return &CharSet{
			Ranges: set,
		}
	case '*', '+', '?', '{':
		p.raiseParseError(SynErrRepNoTarget, fmt.Sprintf("an operand of %c", c))
	case ']', '}':
		p.raiseParseError(SynErrUnexpectedChar, fmt.Sprintf("\\%c", c))
	}
	p.next()
	return newCharNode(c)
}

func (p *parser) parseBracketExp() Node {
	negated := p.consume('^')
	set := &charset.Set{}
	count := 0
	for {
		c, ok := p.peek()
		if !ok {
			p.raiseParseError(SynErrBExpUnclosed, "]")
		}
		if c == ']' {
			p.next()
			break
		}
		count++

		from, single, fromChar := p.parseBracketAtom()
		if !single || !p.isRangeOperator() {
			set = set.Union(from)
			continue
		}
		rangeOpPos := p.pos
		p.next() // `-`
		to, single, toChar := p.parseBracketAtom()
		if !single {
			// The hyphen is literal when one side of it is a character class.
			set = set.Union(from).Union(to)
			set.Insert(charset.NewCharRange('-'))
			continue
		}
		if fromChar > toChar {
			p.pos = rangeOpPos
			p.raiseParseError(SynErrRangeInvalidOrder, fmt.Sprintf("%U <= %U", fromChar, toChar))
		}
		set.Insert(charset.NewRange(fromChar, toChar))
	}
	if count == 0 {
		p.pos--
		p.raiseParseError(SynErrBExpNoElem, "a character or a character class")
	}
	n := &CharSet{
		Negated: negated,
		Ranges:  set,
	}
	if n.Matching().IsEmpty() {
		p.raiseParseError(SynErrUnmatchablePattern, "")
	}
	return n
}

// isRangeOperator reports whether the next `-` is a range operator rather than a literal hyphen.
func (p *parser) isRangeOperator() bool {
	if p.pos+1 >= len(p.src) {
		return false
	}
	return p.src[p.pos] == '-' && p.src[p.pos+1] != ']'
}

func (p *parser) parseBracketAtom() (*charset.Set, bool, rune) {
	c, _ := p.peek()
	p.next()
	if c == '\\' {
		return p.parseEscape()
	}
	return charset.NewSet(charset.NewCharRange(c)), true, c
}

// parseEscape parses an escape sequence following `\`. It returns the set of code points the
// sequence denotes, and the code point itself when the sequence denotes a single character.
func (p *parser) parseEscape() (*charset.Set, bool, rune) {
	c, ok := p.peek()
	if !ok {
		p.raiseParseError(SynErrIncompletedEscSeq, "an escaped character")
	}
	p.next()
	switch c {
	case 'd':
		return charset.Digit.Clone(), false, 0
	case 'D':
		return charset.Digit.Complement(), false, 0
	case 'w':
		return charset.Word.Clone(), false, 0
	case 'W':
		return charset.Word.Complement(), false, 0
	case 's':
		return charset.Space.Clone(), false, 0
	case 'S':
		return charset.Space.Complement(), false, 0
	case 'n':
		return single('\n')
	case 't':
		return single('\t')
	case 'r':
		return single('\r')
	case 'v':
		return single('\v')
	case 'f':
		return single('\f')
	case '0':
		return single(0)
	case 'c':
		l, ok := p.peek()
		if !ok || !isLetter(l) {
			p.raiseParseError(SynErrCtrlCharInvalid, "a letter")
		}
		p.next()
		return single(l & 0x1f)
	case 'u':
		return single(p.parseCodePoint())
	}
	if isLetter(c) || isDigit(c) {
		p.pos--
		p.raiseParseError(SynErrInvalidEscSeq, fmt.Sprintf("\\%c is not a valid escape sequence", c))
	}
	return single(c)
}

// parseCodePoint parses `XXXX` or `{X+}` following `\u`.
func (p *parser) parseCodePoint() rune {
	var digits []rune
	if p.consume('{') {
		for {
			c, ok := p.peek()
			if !ok {
				p.raiseParseError(SynErrCPExpUnclosed, "}")
			}
			if c == '}' {
				p.next()
				break
			}
			if !isHexDigit(c) {
				p.raiseParseError(SynErrInvalidCodePoint, "a hex digit")
			}
			digits = append(digits, c)
			p.next()
		}
		if len(digits) == 0 {
			p.raiseParseError(SynErrInvalidCodePoint, "a hex digit")
		}
	} else {
		for i := 0; i < 4; i++ {
			c, ok := p.peek()
			if !ok || !isHexDigit(c) {
				p.raiseParseError(SynErrInvalidCodePoint, "a hex digit")
			}
			digits = append(digits, c)
			p.next()
		}
	}
	s := strings.TrimLeft(string(digits), "0")
	if len(s) > 6 {
		p.raiseParseError(SynErrCPExpOutOfRange, "a code point <= U+10FFFF")
	}
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		panic(fmt.Errorf("failed to decode a code point (%v) into a int: %v", s, err))
	}
	if n > int64(charset.MaxCodePoint) {
		p.raiseParseError(SynErrCPExpOutOfRange, "a code point <= U+10FFFF")
	}
	return rune(n)
}

func single(c rune) (*charset.Set, bool, rune) {
	return charset.NewSet(charset.NewCharRange(c)), true, c
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() (rune, bool) {
	if p.eof() {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) next() {
	p.pos++
}

func (p *parser) consume(c rune) bool {
	if next, ok := p.peek(); ok && next == c {
		p.next()
		return true
	}
	return false
}

func (p *parser) raiseParseError(cause error, expected string) {
	panic(&ParseError{
		Pattern:  p.pattern,
		Pos:      p.pos,
		Cause:    cause,
		Expected: expected,
	})
}
