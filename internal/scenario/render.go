package scenario

import (
	"strings"

	"github.com/AbdelazizMoustafa10m/verity/internal/step"
)

// quoteNormalizer collapses the mixed quoting produced when a quoted string
// argument itself contains single quotes.
var quoteNormalizer = strings.NewReplacer(`"'`, "'", `'"`, "'")

func (s *Scenario) banner() string {
	return strings.ToUpper("I want to " + s.Feature())
}

// Text renders the step log as plain text: the uppercased feature banner, a
// blank line, one line per step prefixed with its keyword, and a trailing
// blank line. Lines end with "\r\n". Steps grouped under a meta step are
// indented beneath its display line.
func (s *Scenario) Text() string {
	var b strings.Builder
	s.walk(func(st *step.Step, meta *step.Step, opens, _ bool) {
		indent := ""
		if meta != nil {
			if opens {
				b.WriteString(meta.Prefix() + meta.String() + " \r\n")
			}
			indent = "  "
		}
		b.WriteString(indent + st.Prefix() + st.String() + " \r\n")
	})
	text := strings.TrimSpace(quoteNormalizer.Replace(b.String()))
	return s.banner() + "\r\n\r\n" + text + "\r\n\r\n"
}

// HTML renders the step log as markup: an <h3> banner followed by one
// <br/>-terminated entry per step. Comments render their bare text; steps
// grouped under a meta step are wrapped in a meta-step div headed by the meta
// step's own display form.
func (s *Scenario) HTML() string {
	var b strings.Builder
	s.walk(func(st *step.Step, meta *step.Step, opens, closes bool) {
		if meta != nil && opens {
			b.WriteString(`<div class="meta-step">` + meta.HTML() + "<br/>")
		}
		if st.Kind() == step.KindComment {
			b.WriteString(strings.Trim(st.HumanizedArguments(), `"`) + "<br/>")
		} else {
			b.WriteString(st.HTML() + "<br/>")
		}
		if meta != nil && closes {
			b.WriteString("</div>")
		}
	})
	return "<h3>" + s.banner() + "</h3>" + quoteNormalizer.Replace(b.String())
}

// walk visits the log in order. meta is the step's resolved meta step or nil;
// opens and closes report whether the step is the first or last of a run of
// consecutive steps sharing that meta step.
func (s *Scenario) walk(visit func(st, meta *step.Step, opens, closes bool)) {
	for i, st := range s.steps {
		meta, _ := s.MetaOf(st)
		id := st.MetaID()
		opens := i == 0 || s.steps[i-1].MetaID() != id
		closes := i == len(s.steps)-1 || s.steps[i+1].MetaID() != id
		visit(st, meta, opens, closes)
	}
}
