package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"maps"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/elgopher/yala/adapter/printer"
	"golang.org/x/sync/errgroup"

	"github.com/frobware/uritemplate"
	"github.com/frobware/uritemplate/timeutil"
)

// maxInput bounds how much is read from stdin when names or ranges
// are streamed with "-".
const maxInput = 64 << 20

// These variable are populated at build time using linker flags, and
// the overall build version is retrieved via the Version function.
var (
	buildVersion string
)

// Version is a function variable that returns the current build
// version. By default, it returns the value of the unexported
// 'buildVersion' variable, which is set during build time. This
// variable is designed to be overridden for testing purposes.
var Version = func() string {
	if buildVersion == "" {
		return "<version-unknown>"
	}
	return buildVersion
}

// ExitHandler terminates the program. It is replaced in tests so that
// write failures can be observed without exiting.
type ExitHandler interface {
	Exit(code int)
}

// DefaultExitHandler exits the process.
type DefaultExitHandler struct{}

func (DefaultExitHandler) Exit(code int) {
	os.Exit(code)
}

// CLI is the command line grammar.
type CLI struct {
	Template    string   `short:"t" placeholder:"TEMPLATE" help:"URI template, for example data_%Y%j.dat."`
	Parse       bool     `help:"Print the time range covered by each name."`
	FormatRange bool     `name:"formatRange" help:"Print the names covering a time range."`
	Name        string   `help:"Name to parse, or - to read one name per line from stdin."`
	Range       string   `help:"ISO-8601 time range such as 2001-03-22/2004-08-18, or - to read one range per line from stdin."`
	Verbose     bool     `short:"v" help:"Log template compilation to stderr."`
	Version     bool     `help:"Show version information."`
	Extras      []string `arg:"" optional:"" placeholder:"KEY=VALUE" help:"Values of fields that carry no time, such as sc=a or v=1.5.15."`
}

// console writes to stdout and stderr, handing write failures to its
// ExitHandler.
type console struct {
	stdout, stderr io.Writer
	exit           ExitHandler
}

// safeFprintf is a wrapper around fmt.Fprintf. If the write
// operation fails, the error is reported on os.Stderr and the exit
// handler is called with status code 1.
func (c *console) safeFprintf(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to output: %v\n", err)
		c.exit.Exit(1)
	}
}

// safeFprintln is a wrapper around fmt.Fprintln with the same
// failure handling as safeFprintf.
func (c *console) safeFprintln(w io.Writer, a ...any) {
	if _, err := fmt.Fprintln(w, a...); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to output: %v\n", err)
		c.exit.Exit(1)
	}
}

// printErrorWithPosition writes an error message, the input that
// produced it, and a caret '^' under the 0-based position at which
// the error occurred:
//
//	parse error at position 1: delimiter mismatch: expected "ac_" before $Y, got "AC_"
//	AC_199811900-199812000.gif
//	^
func (c *console) printErrorWithPosition(input string, err error, position int) {
	c.safeFprintln(c.stderr, err)
	c.safeFprintln(c.stderr, input)
	c.safeFprintf(c.stderr, "%"+fmt.Sprint(position)+"s", "")
	c.safeFprintln(c.stderr, "^")
}

// readAll reads all available bytes up to maxBytes from the given
// io.Reader into a string. It also trims any trailing newline
// characters. If an error occurs during the read operation, it
// returns an empty string and the error wrapped with additional
// context.
func readAll(rdr io.Reader, maxBytes int64) (string, error) {
	limitRdr := io.LimitReader(rdr, maxBytes)
	inputBytes, err := io.ReadAll(limitRdr)
	if err != nil {
		return "", fmt.Errorf("error reading: %w", err)
	}
	return strings.TrimRight(string(inputBytes), "\n"), nil
}

// inputs returns value, or the non-blank lines of rdr when value is
// "-".
func inputs(rdr io.Reader, value string) ([]string, error) {
	if value != "-" {
		return []string{value}, nil
	}
	if rdr == nil {
		return nil, nil
	}
	data, err := readAll(rdr, maxInput)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(data, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// parseExtras turns "key=value" arguments into a map.
func parseExtras(args []string) (map[string]string, error) {
	extras := map[string]string{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid extra %q: expected key=value", arg)
		}
		extras[key] = value
	}
	return extras, nil
}

// inputError associates a failure with the input that caused it.
type inputError struct {
	input string
	err   error
}

func (e *inputError) Error() string {
	return fmt.Sprintf("%s: %v", e.input, e.err)
}

func (e *inputError) Unwrap() error {
	return e.err
}

// process applies fn to every input, several at a time, and returns
// the results in input order. It stops at the first failure.
func process(in []string, fn func(string) (string, error)) ([]string, error) {
	results := make([]string, len(in))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range in {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := fn(s)
			if err != nil {
				return &inputError{input: s, err: err}
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseName(tmpl *uritemplate.Template) func(string) (string, error) {
	return func(name string) (string, error) {
		extras := map[string]string{}
		r, err := tmpl.Parse(name, extras)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString(timeutil.FormatISO8601TimeRange(r))
		for _, k := range slices.Sorted(maps.Keys(extras)) {
			fmt.Fprintf(&b, " %s=%s", k, extras[k])
		}
		return b.String(), nil
	}
}

func formatRange(tmpl *uritemplate.Template, extras map[string]string) func(string) (string, error) {
	return func(s string) (string, error) {
		r, err := timeutil.ParseISO8601TimeRange(s)
		if err != nil {
			return "", err
		}
		names, err := tmpl.FormatRange(timeutil.FormatISO8601Time(r.Start()), timeutil.FormatISO8601Time(r.Stop()), extras)
		if err != nil {
			return "", err
		}
		return strings.Join(names, "\n"), nil
	}
}

// Run is the primary function for the uritemplate tool. It parses
// the command line, compiles the template, and then either parses
// names into time ranges (--parse) or lists the names covering time
// ranges (--formatRange). Names and ranges are given with --name and
// --range, or read one per line from stdin when the value is "-".
//
// Returns 0 for successful execution and 1 for errors, which are
// written to stderr. A ParseError for a name given on the command
// line is shown with a caret under the offending position.
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string, exitHandler ExitHandler) int {
	c := &console{stdout: stdout, stderr: stderr, exit: exitHandler}

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("uritemplate"),
		kong.Description("Map between time ranges and the names of time-partitioned files."),
		kong.Writers(stdout, stderr),
		kong.Exit(exitHandler.Exit),
	)
	if err != nil {
		c.safeFprintln(stderr, err)
		return 1
	}
	if _, err := parser.Parse(args); err != nil {
		c.safeFprintln(stderr, err)
		return 1
	}

	if cli.Version {
		c.safeFprintf(stderr, "uritemplate %s\n", Version())
		return 0
	}

	if cli.Verbose {
		uritemplate.SetLoggerAdapter(printer.Adapter{Printer: stdlog.New(stderr, "", 0)})
	}

	switch {
	case cli.Template == "":
		c.safeFprintln(stderr, "--template is required")
		return 1
	case cli.Parse && cli.FormatRange:
		c.safeFprintln(stderr, "--parse and --formatRange are mutually exclusive")
		return 1
	case cli.Parse && cli.Name == "":
		c.safeFprintln(stderr, "--name is required with --parse")
		return 1
	case cli.FormatRange && cli.Range == "":
		c.safeFprintln(stderr, "--range is required with --formatRange")
		return 1
	case !cli.Parse && !cli.FormatRange:
		c.safeFprintln(stderr, "one of --parse or --formatRange is required")
		return 1
	}

	extras, err := parseExtras(cli.Extras)
	if err != nil {
		c.safeFprintln(stderr, err)
		return 1
	}

	tmpl, err := uritemplate.Compile(cli.Template)
	if err != nil {
		c.safeFprintln(stderr, err)
		return 1
	}

	source, fn := cli.Name, parseName(tmpl)
	if cli.FormatRange {
		source, fn = cli.Range, formatRange(tmpl, extras)
	}

	in, err := inputs(stdin, source)
	if err != nil {
		c.safeFprintln(stderr, err)
		return 1
	}

	results, err := process(in, fn)
	if err != nil {
		var parseErr *uritemplate.ParseError
		if source != "-" && errors.As(err, &parseErr) {
			c.printErrorWithPosition(source, parseErr, parseErr.Position())
		} else {
			c.safeFprintln(stderr, err)
		}
		return 1
	}

	for _, r := range results {
		if r != "" {
			c.safeFprintln(stdout, r)
		}
	}
	return 0
}

func main() {
	os.Exit(Run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:], DefaultExitHandler{}))
}
