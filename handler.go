package uritemplate

import (
	"fmt"
	"sort"
	"sync"

	"github.com/frobware/uritemplate/timeutil"
)

// FieldHandler interprets a template field whose code is not one of
// the built-in single letter codes, for example $(subsec;places=3) or
// $(v). A fresh handler is created for each field by its
// HandlerFactory and configured once, at compile time. After
// Configure returns, a handler must not change: the same handler is
// used by concurrent Parse and Format calls, and anything it needs to
// pass along belongs in the caller's extras map.
type FieldHandler interface {
	// Configure receives the field's qualifiers split into a map,
	// so $(enum;values=a,b;id=sc) gives {"values": "a,b", "id":
	// "sc"}. Qualifiers without a value map to "". A non-nil
	// error aborts compilation.
	Configure(args map[string]string) error

	// Regex returns a regular expression matching valid field
	// content, or ".*" to match anything.
	Regex() string

	// Parse interprets content, updating the start time and the
	// width of the time range being decoded, and optionally
	// recording values in extras.
	Parse(content string, start *timeutil.Time, width *timeutil.Duration, extras map[string]string) error

	// Format renders the field for the range starting at start
	// with the given width. length is the declared field length,
	// or -1. It fails when the time and extras do not provide
	// enough to render the field.
	Format(start timeutil.Time, width timeutil.Duration, length int, extras map[string]string) (string, error)
}

// HandlerFactory creates an unconfigured FieldHandler.
type HandlerFactory func() FieldHandler

var registry = struct {
	sync.RWMutex
	factories map[string]HandlerFactory
}{
	factories: map[string]HandlerFactory{
		"subsec":     func() FieldHandler { return &subsecHandler{} },
		"hrinterval": func() FieldHandler { return &hrintervalHandler{} },
		"periodic":   func() FieldHandler { return &periodicHandler{} },
		"enum":       func() FieldHandler { return &enumHandler{} },
		"x":          func() FieldHandler { return &captureHandler{} },
		"v":          func() FieldHandler { return &versionHandler{} },
	},
}

// RegisterHandler makes factory available to every template compiled
// afterwards under the field code name, so a template can use
// $(name;qualifiers). Registering a name again replaces the previous
// factory. Names of built-in codes such as "Y" or "milli" cannot be
// registered.
func RegisterHandler(name string, factory HandlerFactory) error {
	if err := validHandlerName(name); err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("handler %q: nil factory", name)
	}
	registry.Lock()
	defer registry.Unlock()
	registry.factories[name] = factory
	return nil
}

// RegisteredHandlers returns the names of all registered handlers in
// sorted order.
func RegisteredHandlers() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupHandler(name string) (HandlerFactory, bool) {
	registry.RLock()
	defer registry.RUnlock()
	f, ok := registry.factories[name]
	return f, ok
}

func validHandlerName(name string) error {
	if name == "" {
		return fmt.Errorf("handler name must not be empty")
	}
	if _, builtin := lookupCode(name); builtin {
		return fmt.Errorf("handler %q: name is a built-in field code", name)
	}
	for _, c := range name {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_') {
			return fmt.Errorf("handler %q: names may contain only letters, digits and underscore", name)
		}
	}
	return nil
}

// parseArgs splits "a=1;b=2;flag" into {"a": "1", "b": "2", "flag":
// ""}, trimming space around keys and values.
func parseArgs(qualifiers string) map[string]string {
	args := map[string]string{}
	if qualifiers == "" {
		return args
	}
	for _, q := range splitQualifiers(qualifiers) {
		key, value := splitQualifier(q)
		args[key] = value
	}
	return args
}
