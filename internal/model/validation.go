package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

func maxBytes(n int) func(value any) error {
	return func(value any) error {
		s, _ := value.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes", n)
		}
		return nil
	}
}

func nonNegativeDecimal(value any) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func optionalNotBlank(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if *s == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
