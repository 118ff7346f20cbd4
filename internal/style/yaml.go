package style

import (
	"fmt"

	"github.com/TFMV/pathlength/internal/walk"
	"gopkg.in/yaml.v3"
)

// YAML renders each result as an item of a YAML sequence. Pretty is ignored.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) Apply(opts ApplyOptions) func() {
	out := opts.Output
	doc := &document{finish: func() {
		fmt.Fprint(out, "\n")
	}}

	return detachAll(
		opts.Engine.On(walk.EventCheck, func(walk.Event) {
			doc.begin()
		}),
		opts.Engine.On(walk.EventResult, func(ev walk.Event) {
			result := ev.(walk.ResultEvent).Result
			data, err := yaml.Marshal([]walk.Result{result})
			if err != nil {
				fmt.Fprintf(out, "# %v\n", err)
				return
			}
			out.Write(data)
		}),
		opts.Engine.On(walk.EventEnd, func(walk.Event) {
			doc.end()
		}),
		doc.end,
	)
}
