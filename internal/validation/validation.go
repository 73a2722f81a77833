// Package validation checks submitted listing and review payloads before
// any write is attempted. Every violated rule is reported, joined into a
// single message.
package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldErrors collects one message per field, preserving field order.
type fieldErrors struct {
	order    []string
	messages map[string]string
}

func newFieldErrors(order ...string) *fieldErrors {
	return &fieldErrors{order: order, messages: make(map[string]string)}
}

func (f *fieldErrors) add(field, message string) {
	if _, exists := f.messages[field]; !exists {
		f.messages[field] = message
	}
}

// collect records the failures reported by validator, looking messages up
// by "Field.tag".
func (f *fieldErrors) collect(err error, table map[string]string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		msg, ok := table[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid."
		}
		f.add(fe.Field(), msg)
	}
	return nil
}

func (f *fieldErrors) err() error {
	if len(f.messages) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(f.messages))
	for _, field := range f.order {
		if msg, ok := f.messages[field]; ok {
			msgs = append(msgs, msg)
		}
	}
	return apperr.Validation(strings.Join(msgs, ", "))
}

// parseNumber parses a trimmed numeric form value. NaN and infinities are
// not numbers for our purposes.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
