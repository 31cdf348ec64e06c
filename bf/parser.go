package bf

import (
	"io"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"
)

type parser struct {
	s     scanner.Scanner
	eof   bool   // Have we reached eof yet?
	token string // Last token read
	err   error  // First error reported by the scanner
}

// Parse parses the formula from the given input Reader.
// It returns the corresponding Formula.
// Formulas are written using the following operators (from lowest to highest priority) :
//
// - for an equivalence, the "=" operator,
// - for an implication, the "->" operator,
// - for a disjunction ("or"), the "|" operator,
// - for an exclusive or, the "xor" operator,
// - for a conjunction ("and"), the "&" operator,
// - for a negation, the "^", "~" or "!" unary operators.
//
// Parentheses can be used to group subformulas. 0 and 1 denote the constants.
func Parse(r io.Reader) (Formula, error) {
	var p parser
	p.s.Init(r)
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanComments | scanner.SkipComments
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = errors.Errorf("%s at %s", msg, s.Position)
		}
	}
	p.scan()
	f, err := p.parseEquiv()
	if err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	if !p.eof {
		return nil, errors.Errorf("unexpected token %q at %s", p.token, p.s.Position)
	}
	return f, nil
}

// ParseString parses the formula described in str.
func ParseString(str string) (Formula, error) {
	return Parse(strings.NewReader(str))
}

func isOperator(token string) bool {
	return token == "=" || token == "-" || token == "|" || token == "&" || token == "xor"
}

func isNegation(token string) bool {
	return token == "^" || token == "~" || token == "!"
}

func (p *parser) scan() {
	if p.eof {
		return
	}
	p.eof = (p.s.Scan() == scanner.EOF)
	p.token = p.s.TokenText()
}

// next consumes the current token and fails if there is nothing after it.
func (p *parser) next() error {
	p.scan()
	if p.eof {
		return errors.New("unexpected EOF")
	}
	return nil
}

func (p *parser) parseEquiv() (f Formula, err error) {
	if p.eof {
		return nil, errors.Errorf("at position %v, expected expression, found EOF", p.s.Position)
	}
	f, err = p.parseImplies()
	if err != nil {
		return nil, err
	}
	if !p.eof && p.token == "=" {
		if err := p.next(); err != nil {
			return nil, err
		}
		f2, err := p.parseEquiv()
		if err != nil {
			return nil, err
		}
		return Eq(f, f2), nil
	}
	return f, nil
}

func (p *parser) parseImplies() (f Formula, err error) {
	f, err = p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.eof && p.token == "-" {
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.token != ">" {
			return nil, errors.Errorf("invalid token %q at %v", "-"+p.token, p.s.Position)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		f2, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return Implies(f, f2), nil
	}
	return f, nil
}

// parseBinary parses a right-associative chain of operands separated by op.
func (p *parser) parseBinary(op string, operand func() (Formula, error), combine func(f1, f2 Formula) Formula) (Formula, error) {
	f, err := operand()
	if err != nil {
		return nil, err
	}
	if !p.eof && p.token == op {
		if err := p.next(); err != nil {
			return nil, err
		}
		f2, err := p.parseBinary(op, operand, combine)
		if err != nil {
			return nil, err
		}
		return combine(f, f2), nil
	}
	return f, nil
}

func (p *parser) parseOr() (Formula, error) {
	return p.parseBinary("|", p.parseXor, func(f1, f2 Formula) Formula { return Or(f1, f2) })
}

func (p *parser) parseXor() (Formula, error) {
	return p.parseBinary("xor", p.parseAnd, Xor)
}

func (p *parser) parseAnd() (Formula, error) {
	return p.parseBinary("&", p.parseNot, func(f1, f2 Formula) Formula { return And(f1, f2) })
}

func (p *parser) parseNot() (f Formula, err error) {
	if isNegation(p.token) {
		if err := p.next(); err != nil {
			return nil, err
		}
		f, err = p.parseNot()
		if err != nil {
			return nil, err
		}
		return Not(f), nil
	}
	return p.parseBasic()
}

func (p *parser) parseBasic() (f Formula, err error) {
	if isOperator(p.token) || p.token == ")" {
		return nil, errors.Errorf("unexpected token %q at %s", p.token, p.s.Position)
	}
	if p.token == "(" {
		if err := p.next(); err != nil {
			return nil, err
		}
		f, err = p.parseEquiv()
		if err != nil {
			return nil, err
		}
		if p.eof {
			return nil, errors.Errorf("expected closing parenthesis, found EOF at %s", p.s.Position)
		}
		if p.token != ")" {
			return nil, errors.Errorf("expected closing parenthesis, found %q at %s", p.token, p.s.Position)
		}
		p.scan()
		return f, nil
	}
	defer p.scan()
	switch tok := p.token; {
	case tok == "0":
		return False, nil
	case tok == "1":
		return True, nil
	case isIdent(tok):
		return Var(tok), nil
	default:
		return nil, errors.Errorf("invalid token %q at %s", tok, p.s.Position)
	}
}

func isIdent(token string) bool {
	if token == "" {
		return false
	}
	for i, c := range token {
		letter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}
