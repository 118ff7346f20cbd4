package style

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/TFMV/pathlength/internal/walk"
)

// XML renders results as a <results> document of self-closing <result> elements.
type XML struct{}

func (XML) Name() string { return "xml" }

func (XML) Apply(opts ApplyOptions) func() {
	out := opts.Output
	count := 0
	doc := &document{finish: func() {
		if opts.Pretty && count > 0 {
			fmt.Fprint(out, "\n")
		}
		fmt.Fprint(out, "</results>\n")
	}}

	return detachAll(
		opts.Engine.On(walk.EventCheck, func(walk.Event) {
			doc.begin()
			count = 0
			fmt.Fprint(out, `<?xml version="1.0" encoding="UTF-8" ?>`)
			if opts.Pretty {
				fmt.Fprint(out, "\n")
			}
			fmt.Fprint(out, "<results>")
		}),
		opts.Engine.On(walk.EventResult, func(ev walk.Event) {
			result := ev.(walk.ResultEvent).Result
			if opts.Pretty {
				fmt.Fprint(out, "\n  ")
			}
			count++
			fmt.Fprintf(out, `<result directory="%t" length="%d" path="%s" />`,
				result.Directory, result.Length, escapeAttr(result.Path))
		}),
		opts.Engine.On(walk.EventEnd, func(walk.Event) {
			doc.end()
		}),
		doc.end,
	)
}

func escapeAttr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
