package style

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TFMV/pathlength/internal/walk"
)

// JSON renders results as a JSON array of {"directory","length","path"} objects.
// When pretty, each object is indented on its own lines.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Apply(opts ApplyOptions) func() {
	out := opts.Output
	count := 0
	doc := &document{finish: func() {
		if count > 0 && opts.Pretty {
			fmt.Fprint(out, "\n")
		}
		fmt.Fprint(out, "]\n")
	}}

	return detachAll(
		opts.Engine.On(walk.EventCheck, func(walk.Event) {
			doc.begin()
			count = 0
			fmt.Fprint(out, "[")
		}),
		opts.Engine.On(walk.EventResult, func(ev walk.Event) {
			result := ev.(walk.ResultEvent).Result
			if count > 0 {
				fmt.Fprint(out, ",")
			}
			if opts.Pretty {
				fmt.Fprint(out, "\n")
			}
			count++

			if opts.Pretty {
				data, _ := json.MarshalIndent(result, "", "  ")
				fmt.Fprint(out, "  "+strings.ReplaceAll(string(data), "\n", "\n  "))
			} else {
				data, _ := json.Marshal(result)
				out.Write(data)
			}
		}),
		opts.Engine.On(walk.EventEnd, func(walk.Event) {
			doc.end()
		}),
		doc.end,
	)
}
