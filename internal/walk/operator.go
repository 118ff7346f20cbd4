package walk

import (
	"fmt"
	"strings"
)

// Operator is a logical comparison between a path length and a filter operand.
// The zero value is not a valid operator.
type Operator int

const (
	Equals Operator = iota + 1
	GreaterThan
	GreaterThanOrEqualTo
	LessThan
	LessThanOrEqualTo
	NotEquals
)

// Operators lists the built-in operators in lookup order.
var Operators = []Operator{
	Equals,
	GreaterThan,
	GreaterThanOrEqualTo,
	LessThan,
	LessThanOrEqualTo,
	NotEquals,
}

type operatorDef struct {
	name    string
	aliases []string
	eval    func(lhs, rhs int) bool
}

var operatorDefs = map[Operator]operatorDef{
	Equals:               {"eq", []string{"=", "==", "==="}, func(lhs, rhs int) bool { return lhs == rhs }},
	GreaterThan:          {"gt", []string{">"}, func(lhs, rhs int) bool { return lhs > rhs }},
	GreaterThanOrEqualTo: {"gte", []string{">="}, func(lhs, rhs int) bool { return lhs >= rhs }},
	LessThan:             {"lt", []string{"<"}, func(lhs, rhs int) bool { return lhs < rhs }},
	LessThanOrEqualTo:    {"lte", []string{"<="}, func(lhs, rhs int) bool { return lhs <= rhs }},
	NotEquals:            {"ne", []string{"!", "!=", "!=="}, func(lhs, rhs int) bool { return lhs != rhs }},
}

// ParseOperator resolves token against the canonical name and aliases of each
// built-in operator. Matching is exact and case-sensitive on the trimmed token.
func ParseOperator(token string) (Operator, error) {
	token = strings.TrimSpace(token)

	for _, op := range Operators {
		def := operatorDefs[op]
		if def.name == token {
			return op, nil
		}
		for _, alias := range def.aliases {
			if alias == token {
				return op, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: invalid operator: %q", ErrInvalidExpression, token)
}

// Valid reports whether o is one of the built-in operators.
func (o Operator) Valid() bool {
	_, ok := operatorDefs[o]
	return ok
}

// Name returns the canonical name (e.g. "gte").
func (o Operator) Name() string {
	return operatorDefs[o].name
}

// Aliases returns a copy of the operator's alternative tokens.
func (o Operator) Aliases() []string {
	aliases := operatorDefs[o].aliases
	out := make([]string, len(aliases))
	copy(out, aliases)
	return out
}

// Evaluate compares lhs against rhs. Invalid operators never match.
func (o Operator) Evaluate(lhs, rhs int) bool {
	def, ok := operatorDefs[o]
	if !ok {
		return false
	}
	return def.eval(lhs, rhs)
}

func (o Operator) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return o.Name()
}
