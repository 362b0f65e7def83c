package story

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/novelgraph/pkg/errors"
)

// Op is an assignment operator of a variable node.
type Op string

const (
	OpSet Op = "="
	OpAdd Op = "+="
	OpSub Op = "-="
)

// Assignment is the expression "<name> <op> <value>" a variable node holds.
type Assignment struct {
	Name  string
	Op    Op
	Value float64
}

// ParseAssignment parses a variable node's text. Tokens are separated by
// whitespace.
func ParseAssignment(text string) (Assignment, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Assignment{}, errors.New(errors.ErrCodeInvalidExpression,
			"expected \"<name> <op> <value>\", got %q", text)
	}
	if err := errors.ValidateVariableName(fields[0]); err != nil {
		return Assignment{}, err
	}
	op := Op(fields[1])
	switch op {
	case OpSet, OpAdd, OpSub:
	default:
		return Assignment{}, errors.New(errors.ErrCodeInvalidExpression, "unknown operator %q", fields[1])
	}
	v, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Assignment{}, errors.Wrap(errors.ErrCodeInvalidExpression, err, "invalid value %q", fields[2])
	}
	return Assignment{Name: fields[0], Op: op, Value: v}, nil
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s %s %s", a.Name, a.Op, strconv.FormatFloat(a.Value, 'f', -1, 64))
}

// Apply evaluates the assignment against vars.
func (a Assignment) Apply(vars map[string]float64) {
	switch a.Op {
	case OpSet:
		vars[a.Name] = a.Value
	case OpAdd:
		vars[a.Name] += a.Value
	case OpSub:
		vars[a.Name] -= a.Value
	}
}

// Assignment parses the text of a variable node.
func (n *Node) Assignment() (Assignment, error) {
	if n.Kind != KindVariable {
		return Assignment{}, errors.New(errors.ErrCodeInvalidInput, "node %d is a %s, not a variable", n.ID, n.Kind)
	}
	return ParseAssignment(n.Text())
}

// SetAssignment stores a as the variable node's text.
func (n *Node) SetAssignment(a Assignment) bool {
	if n.Kind != KindVariable {
		return false
	}
	return n.SetText(a.String())
}
