// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package strata

import "fmt"

// MarshalText returns a string representing a query operator.
func (op Operator) MarshalText() ([]byte, error) {
	switch op {
	case Eq:
		return []byte("="), nil
	case NotEq:
		return []byte("!="), nil
	case Lt:
		return []byte("<"), nil
	case LtEq:
		return []byte("<="), nil
	case Gt:
		return []byte(">"), nil
	case GtEq:
		return []byte(">="), nil
	case Has:
		return []byte("has"), nil
	case Length:
		return []byte("length"), nil
	default:
		return nil, fmt.Errorf("invalid operator (marshal, %+v)", int(op))
	}
}

// UnmarshalText populates a query operator from a string.
func (op *Operator) UnmarshalText(text []byte) error {
	switch string(text) {
	case "=", "eq":
		*op = Eq
	case "!=", "ne":
		*op = NotEq
	case "<", "lt":
		*op = Lt
	case "<=", "le":
		*op = LtEq
	case ">", "gt":
		*op = Gt
	case ">=", "ge":
		*op = GtEq
	case "has":
		*op = Has
	case "length":
		*op = Length
	default:
		return fmt.Errorf("invalid operator (unmarshal, %q)", string(text))
	}
	return nil
}

// String returns the same representation as MarshalText, or a
// placeholder for invalid operators.
func (op Operator) String() string {
	text, err := op.MarshalText()
	if err != nil {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return string(text)
}
