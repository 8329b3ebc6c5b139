package assistant

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	wordOperators = []struct {
		re  *regexp.Regexp
		sym string
	}{
		{regexp.MustCompile(`\bmultiplied by\b`), "*"},
		{regexp.MustCompile(`\bdivided by\b`), "/"},
		{regexp.MustCompile(`\bto the power of\b`), "**"},
		{regexp.MustCompile(`\bplus\b`), "+"},
		{regexp.MustCompile(`\badd(?:ed)?\b`), "+"},
		{regexp.MustCompile(`\bminus\b`), "-"},
		{regexp.MustCompile(`\bsubtract(?:ed)?\b`), "-"},
		{regexp.MustCompile(`\binto\b`), "*"},
		{regexp.MustCompile(`\btimes\b`), "*"},
		{regexp.MustCompile(`\bmultiply\b`), "*"},
		{regexp.MustCompile(`\bdivide\b`), "/"},
		{regexp.MustCompile(`\bover\b`), "/"},
		{regexp.MustCompile(`(\d)\s*x\s*(\d)`), "$1*$2"},
	}

	exprStartRe  = regexp.MustCompile(`[0-9().]`)
	exprStripRe  = regexp.MustCompile(`[^0-9.+\-*/()\s]`)
	exprSpacesRe = regexp.MustCompile(`\s+`)
)

// ExtractExpression turns "calculate 5 plus 3" into "5+3".
func ExtractExpression(command string) (string, bool) {
	expr := strings.ToLower(command)
	expr = strings.NewReplacer("×", "*", "÷", "/").Replace(expr)
	for _, op := range wordOperators {
		if strings.HasPrefix(op.sym, "$") {
			expr = op.re.ReplaceAllString(expr, op.sym)
			continue
		}
		expr = op.re.ReplaceAllString(expr, " "+op.sym+" ")
	}

	loc := exprStartRe.FindStringIndex(expr)
	if loc == nil {
		return "", false
	}
	expr = expr[loc[0]:]
	expr = exprStripRe.ReplaceAllString(expr, " ")
	expr = exprSpacesRe.ReplaceAllString(expr, "")
	expr = strings.TrimRight(expr, "+-*/.")
	return expr, expr != ""
}

// errDivisionByZero is reported by Evaluate for x/0.
var errDivisionByZero = fmt.Errorf("division by zero")

// Evaluate computes an arithmetic expression over + - * / ** and parentheses.
// ** binds tighter than unary minus and is right-associative.
func Evaluate(expr string) (float64, error) {
	p := &exprParser{src: strings.ReplaceAll(expr, " ", "")}
	v, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("unexpected %q at %d", p.src[p.pos:], p.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("result out of range")
	}
	return v, nil
}

// FormatNumber prints whole results without a fractional part.
func FormatNumber(v float64) string {
	if r := math.Round(v); math.Abs(v-r) < 1e-9 && math.Abs(r) < 1e15 {
		return strconv.FormatFloat(r, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) peek(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *exprParser) parseSum() (float64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '+':
			p.pos++
			right, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
	return left, nil
}

func (p *exprParser) parseProduct() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.src) {
		if p.peek("**") {
			return left, nil
		}
		switch p.src[p.pos] {
		case '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, errDivisionByZero
			}
			left /= right
		default:
			return left, nil
		}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '-':
			p.pos++
			v, err := p.parseUnary()
			return -v, err
		case '+':
			p.pos++
			return p.parseUnary()
		}
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	if p.peek("**") {
		p.pos += 2
		exp, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parseAtom() (float64, error) {
	if p.pos >= len(p.src) {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	if p.src[p.pos] == '(' {
		p.pos++
		v, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}

	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at %d", start)
	}
	return strconv.ParseFloat(p.src[start:p.pos], 64)
}
