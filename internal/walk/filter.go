package walk

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Filter accepts or rejects a path by comparing its length to an operand.
type Filter struct {
	operator Operator
	operand  int
}

// ParseFilter parses an expression of the form "<operator><whitespace>?<digits>",
// e.g. "gte 20", ">=20" or "ne3".
func ParseFilter(expression string) (Filter, error) {
	value := strings.TrimSpace(expression)

	// Operator token: maximal run of characters that are neither digits nor whitespace.
	i := 0
	for i < len(value) {
		r, size := utf8.DecodeRuneInString(value[i:])
		if isDigit(r) || unicode.IsSpace(r) {
			break
		}
		i += size
	}
	opToken := value[:i]

	j := i
	for j < len(value) {
		r, size := utf8.DecodeRuneInString(value[j:])
		if !unicode.IsSpace(r) {
			break
		}
		j += size
	}

	k := j
	for k < len(value) && isDigit(rune(value[k])) {
		k++
	}
	operandToken := value[j:k]

	if opToken == "" || operandToken == "" || k != len(value) {
		return Filter{}, fmt.Errorf("%w: invalid filter: %q", ErrInvalidExpression, value)
	}

	op, err := ParseOperator(opToken)
	if err != nil {
		return Filter{}, err
	}

	operand, err := strconv.Atoi(operandToken)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: invalid filter operand %q: %v", ErrInvalidExpression, operandToken, err)
	}

	return Filter{operator: op, operand: operand}, nil
}

// MustParseFilter is like ParseFilter but panics on error.
func MustParseFilter(expression string) Filter {
	f, err := ParseFilter(expression)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFilter builds a Filter directly. The operand is rounded to the nearest
// integer and must not be negative. Like ParseFilter it accepts any operand
// that fits in an int.
func NewFilter(op Operator, operand float64) (Filter, error) {
	if !op.Valid() {
		return Filter{}, fmt.Errorf("%w: operator must be specified", ErrInvalidArgument)
	}
	if math.IsNaN(operand) || math.IsInf(operand, 0) {
		return Filter{}, fmt.Errorf("%w: operand must be a number: %v", ErrInvalidArgument, operand)
	}
	if operand < 0 {
		return Filter{}, fmt.Errorf("%w: operand must be positive: %v", ErrInvalidArgument, operand)
	}
	rounded := math.Round(operand)
	if rounded >= float64(math.MaxInt) {
		return Filter{}, fmt.Errorf("%w: operand out of range: %v", ErrInvalidArgument, operand)
	}

	return Filter{operator: op, operand: int(rounded)}, nil
}

// Operator returns the comparison used by the filter.
func (f Filter) Operator() Operator { return f.operator }

// Operand returns the right-hand side of the comparison.
func (f Filter) Operand() int { return f.operand }

// Check reports whether path passes the filter.
func (f Filter) Check(path string) bool {
	return f.operator.Evaluate(PathLength(path), f.operand)
}

// String returns the canonical form, e.g. "gte 20".
func (f Filter) String() string {
	return fmt.Sprintf("%s %d", f.operator, f.operand)
}

// PathLength returns the number of characters in path, counted on its NFC form
// so that decomposed file names report the length a reader would count.
func PathLength(path string) int {
	return utf8.RuneCountInString(norm.NFC.String(path))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
