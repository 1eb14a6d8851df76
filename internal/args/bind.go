package args

import (
	"errors"
	"fmt"

	"github.com/dotandev/tooling/internal/task"
)

var (
	// ErrOptionRequired is returned when a required option has no value.
	ErrOptionRequired = errors.New("option is required")
	// ErrRequiredBoolean is returned for a boolean option declared required,
	// which can never be satisfied meaningfully.
	ErrRequiredBoolean = errors.New("boolean option cannot be required")
)

// Bind builds the argument bag for meta from parsed input. Options are
// checked in declaration order and the first violation is returned.
func Bind(meta task.Meta, parsed *Parsed) (*task.Args, error) {
	bag := task.NewArgs(meta)

	if meta.Positionals != "" && len(parsed.Positionals) > 0 {
		if err := bag.Set(meta.Positionals, task.ListValue(parsed.Positionals)); err != nil {
			return nil, err
		}
	}

	for _, opt := range meta.Options {
		v, supplied := parsed.Lookup(FlagName(opt.Name))

		if opt.Required {
			if opt.Type == task.Boolean {
				return nil, fmt.Errorf("%w: '%s'", ErrRequiredBoolean, opt.Name)
			}
			if !supplied || v.Str() == "" {
				return nil, fmt.Errorf("%w: %s", ErrOptionRequired, opt.Name)
			}
		}

		if opt.Type == task.Boolean {
			if err := bag.Set(opt.Name, task.BoolValue(supplied && v.Bool())); err != nil {
				return nil, err
			}
			continue
		}
		if supplied {
			if err := bag.Set(opt.Name, v); err != nil {
				return nil, err
			}
		}
	}
	return bag, nil
}
