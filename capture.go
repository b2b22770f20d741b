package uritemplate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/frobware/uritemplate/timeutil"
)

// captureHandler serves $x: it matches text that carries no time
// information and, when named, hands it back through extras so that
// Format can reproduce it.
//
//	$(x;name=sc;enum=a|b)
//	$(x;name=orbit;regex=[0-9]{5})
type captureHandler struct {
	name    string
	regex   string
	pattern *regexp2.Regexp
	pad     string
}

func (h *captureHandler) Configure(args map[string]string) error {
	h.name = args["name"]

	if e, ok := args["enum"]; ok {
		if e == "" {
			return fmt.Errorf("enum needs values separated by |")
		}
		alts := strings.Split(e, "|")
		for i, a := range alts {
			alts[i] = regexp.QuoteMeta(a)
		}
		h.regex = strings.Join(alts, "|")
	}
	if r, ok := args["regex"]; ok {
		if h.regex != "" {
			return fmt.Errorf("regex and enum cannot both be given")
		}
		h.regex = r
	}
	if h.regex != "" {
		p, err := regexp2.Compile("^(?:"+h.regex+")$", regexp2.None)
		if err != nil {
			return fmt.Errorf("invalid regex %q: %w", h.regex, err)
		}
		h.pattern = p
	}

	h.pad = args["pad"]
	return nil
}

func (h *captureHandler) Regex() string {
	if h.regex == "" {
		return ".*"
	}
	return h.regex
}

func (h *captureHandler) Parse(content string, _ *timeutil.Time, _ *timeutil.Duration, extras map[string]string) error {
	if h.pattern != nil {
		ok, err := h.pattern.MatchString(content)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("content does not match %s: %q", h.regex, content)
		}
	}
	switch h.pad {
	case "_", "underscore":
		content = strings.TrimLeft(content, "_")
	case "space":
		content = strings.TrimLeft(content, " ")
	}
	if h.name != "" {
		extras[h.name] = content
	}
	return nil
}

func (h *captureHandler) Format(_ timeutil.Time, _ timeutil.Duration, _ int, extras map[string]string) (string, error) {
	if h.name == "" {
		return "", nil
	}
	return extras[h.name], nil
}
