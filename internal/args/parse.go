package args

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dotandev/tooling/internal/task"
)

// NetworkFlag selects the network a task runs against.
const NetworkFlag = "network"

// DefaultOptions are accepted by every task.
var DefaultOptions = []task.Option{
	{
		Name:        NetworkFlag,
		Type:        task.String,
		Description: "Network to run the task against",
	},
}

// ParseError reports a malformed argument vector.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Parsed is the result of Parse.
type Parsed struct {
	// Values holds every flag that was supplied or has a declared default,
	// keyed by flag name.
	Values      map[string]task.Value
	Positionals []string
}

// Lookup returns the value parsed for flag.
func (p *Parsed) Lookup(flag string) (task.Value, bool) {
	v, ok := p.Values[flag]
	return v, ok
}

// Parse parses argv against options (already normalized) merged with
// DefaultOptions. A default option replaces a task option with the same flag
// name. Parsing is strict: unknown flags and malformed values are errors.
func Parse(argv []string, options []task.Option) (*Parsed, error) {
	merged := merge(options, DefaultOptions)

	fs := pflag.NewFlagSet("task", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	strs := make(map[string]*string)
	bools := make(map[string]*bool)
	for _, opt := range merged {
		if fs.Lookup(opt.Name) != nil {
			return nil, &ParseError{Err: fmt.Errorf("option %s is declared more than once", opt.Name)}
		}
		switch opt.Type {
		case task.String:
			strs[opt.Name] = fs.String(opt.Name, opt.Default, opt.Description)
		case task.Boolean:
			def := false
			if opt.Default != "" {
				b, err := strconv.ParseBool(opt.Default)
				if err != nil {
					return nil, &ParseError{Err: fmt.Errorf("option %s: invalid boolean default %q", opt.Name, opt.Default)}
				}
				def = b
			}
			bools[opt.Name] = fs.Bool(opt.Name, def, opt.Description)
		default:
			return nil, &ParseError{Err: fmt.Errorf("option %s: unsupported type %q", opt.Name, opt.Type)}
		}
	}

	if err := checkValues(argv, strs, bools); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			err = errors.New("unknown flag: --help")
		}
		return nil, &ParseError{Err: err}
	}

	p := &Parsed{
		Values:      make(map[string]task.Value),
		Positionals: append([]string{}, fs.Args()...),
	}
	for _, opt := range merged {
		if !fs.Changed(opt.Name) && opt.Default == "" {
			continue
		}
		if s, ok := strs[opt.Name]; ok {
			p.Values[opt.Name] = task.StringValue(*s)
		} else {
			p.Values[opt.Name] = task.BoolValue(*bools[opt.Name])
		}
	}
	return p, nil
}

// checkValues rejects what pflag accepts but a strict parser must not: a
// string flag taking the next flag as its value, and a boolean flag with an
// inline value.
func checkValues(argv []string, strs map[string]*string, bools map[string]*bool) error {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			return nil
		}
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		name, _, inline := strings.Cut(arg[2:], "=")
		if _, ok := bools[name]; ok && inline {
			return fmt.Errorf("option --%s does not take an argument", name)
		}
		if _, ok := strs[name]; !ok || inline {
			continue
		}
		if i+1 < len(argv) && strings.HasPrefix(argv[i+1], "-") {
			return fmt.Errorf("option --%s <value> argument missing; use --%s=%s for values starting with -", name, name, argv[i+1])
		}
		i++
	}
	return nil
}

func merge(options, defaults []task.Option) []task.Option {
	overridden := make(map[string]bool, len(defaults))
	for _, d := range defaults {
		overridden[d.Name] = true
	}
	out := make([]task.Option, 0, len(options)+len(defaults))
	for _, opt := range options {
		if !overridden[opt.Name] {
			out = append(out, opt)
		}
	}
	return append(out, defaults...)
}
