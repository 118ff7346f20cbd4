package style

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TFMV/pathlength/internal/walk"
)

// DefaultFormat is used by the format style when no template is given.
const DefaultFormat = "{length} {path}"

// Format renders one line per result using a placeholder template:
//
//	{} or {path}  full path
//	{base}        base name
//	{dir}         parent directory
//	{length}      path length
//	{type}        "file" or "directory"
//
// Quoted forms such as {"path"} are replaced with Go-quoted values.
type Format struct{}

func (Format) Name() string { return "format" }

func (Format) Apply(opts ApplyOptions) func() {
	template := opts.Format
	if template == "" {
		template = DefaultFormat
	}

	return opts.Engine.On(walk.EventResult, func(ev walk.Event) {
		fmt.Fprintln(opts.Output, formatResult(template, ev.(walk.ResultEvent).Result))
	})
}

// formatResult replaces placeholders in a template with values from the result
func formatResult(template string, r walk.Result) string {
	kind := "file"
	if r.Directory {
		kind = "directory"
	}
	values := []struct{ key, value string }{
		{"path", r.Path},
		{"base", filepath.Base(r.Path)},
		{"dir", filepath.Dir(r.Path)},
		{"length", strconv.Itoa(r.Length)},
		{"type", kind},
	}

	str := strings.ReplaceAll(template, "{}", r.Path)
	str = strings.ReplaceAll(str, `{""}`, strconv.Quote(r.Path))
	for _, v := range values {
		str = strings.ReplaceAll(str, "{"+v.key+"}", v.value)
		str = strings.ReplaceAll(str, `{"`+v.key+`"}`, strconv.Quote(v.value))
	}
	return str
}
