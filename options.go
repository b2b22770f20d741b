package uritemplate

import (
	"fmt"

	"github.com/frobware/uritemplate/timeutil"
)

type compileOptions struct {
	handlers       map[string]HandlerFactory
	validFirstYear int
	validLastYear  int
	pivot          int
}

// Option configures Compile.
type Option func(o *compileOptions) error

// WithHandler makes factory serve the field code name in this
// template only, taking precedence over the process-wide registry.
func WithHandler(name string, factory HandlerFactory) Option {
	return func(o *compileOptions) error {
		if err := validHandlerName(name); err != nil {
			return err
		}
		if factory == nil {
			return fmt.Errorf("handler %q: nil factory", name)
		}
		if o.handlers == nil {
			o.handlers = map[string]HandlerFactory{}
		}
		o.handlers[name] = factory
		return nil
	}
}

// WithValidYears sets the years accepted by Template.Validate. The
// default is 1900 to 2100.
func WithValidYears(first, last int) Option {
	return func(o *compileOptions) error {
		if first > last {
			return fmt.Errorf("first valid year %d is after last valid year %d", first, last)
		}
		o.validFirstYear = first
		o.validLastYear = last
		return nil
	}
}

// WithTwoDigitYearPivot sets the first year represented by $y fields
// that do not set their own with start=.
func WithTwoDigitYearPivot(year int) Option {
	return func(o *compileOptions) error {
		if year < 0 {
			return fmt.Errorf("two digit year pivot must not be negative: %d", year)
		}
		o.pivot = year
		return nil
	}
}

func defaultCompileOptions() compileOptions {
	return compileOptions{
		validFirstYear: timeutil.ValidFirstYear,
		validLastYear:  timeutil.ValidLastYear,
		pivot:          DefaultTwoDigitYearPivot,
	}
}

func (o *compileOptions) lookupHandler(name string) (HandlerFactory, bool) {
	if f, ok := o.handlers[name]; ok {
		return f, true
	}
	return lookupHandler(name)
}
