/*
	Copyright NetFoundry Inc.

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

	https://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package calculator implements the arithmetic service: four binary operations over float64 operands, exposed as
// a JSON API.
package calculator

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Operation string

const (
	Add      Operation = "add"
	Subtract Operation = "subtract"
	Multiply Operation = "multiply"
	Divide   Operation = "divide"
)

// Operations in the order they are listed and routed.
var Operations = []Operation{Add, Subtract, Multiply, Divide}

var symbols = map[Operation]string{
	Add:      "+",
	Subtract: "-",
	Multiply: "×",
	Divide:   "÷",
}

// ErrInvalidOperation is returned by Calculate for operation names it does not know.
var ErrInvalidOperation = errors.New("invalid operation")

// Result of a calculation. Operation is the normalized (lower case) operation name.
type Result struct {
	Value      float64
	Operation  Operation
	Expression string
}

// Calculate applies the named operation to a and b. Operation names are case-insensitive. Division by zero is not an
// error: it yields +Inf whatever the sign of a.
func Calculate(a, b float64, operation string) (Result, error) {
	op := Operation(strings.ToLower(operation))

	symbol, ok := symbols[op]
	if !ok {
		return Result{Operation: op}, errors.Wrapf(ErrInvalidOperation, "unknown operation [%s]", op)
	}

	result := Result{
		Operation:  op,
		Expression: FormatOperand(a) + " " + symbol + " " + FormatOperand(b),
	}

	switch op {
	case Add:
		result.Value = a + b
	case Subtract:
		result.Value = a - b
	case Multiply:
		result.Value = a * b
	case Divide:
		if b == 0 {
			result.Value = math.Inf(1)
		} else {
			result.Value = a / b
		}
	}

	return result, nil
}

// FormatOperand renders a float the way expressions show it: always with a fractional part ("2.0", "2.5"), switching
// to exponent notation for very large or very small magnitudes ("1e+16", "1e-05").
func FormatOperand(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
