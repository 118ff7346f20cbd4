package style

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/TFMV/pathlength/internal/walk"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine records subscriptions and lets tests fire events directly.
type fakeEngine struct {
	handlers map[int]subscription
	nextID   int
}

type subscription struct {
	all  bool
	kind walk.EventKind
	fn   walk.Handler
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{handlers: make(map[int]subscription)}
}

func (f *fakeEngine) Subscribe(h walk.Handler) func() {
	return f.add(subscription{all: true, fn: h})
}

func (f *fakeEngine) On(kind walk.EventKind, h walk.Handler) func() {
	return f.add(subscription{kind: kind, fn: h})
}

func (f *fakeEngine) add(s subscription) func() {
	f.nextID++
	id := f.nextID
	f.handlers[id] = s
	return func() { delete(f.handlers, id) }
}

func (f *fakeEngine) fire(ev walk.Event) {
	for id := 1; id <= f.nextID; id++ {
		s, ok := f.handlers[id]
		if ok && (s.all || s.kind == ev.Kind()) {
			s.fn(ev)
		}
	}
}

// scan fires a complete scan lifecycle for results.
func (f *fakeEngine) scan(results ...walk.Result) {
	f.fire(walk.CheckEvent{})
	for _, r := range results {
		f.fire(walk.CheckPathEvent{Path: r.Path})
		f.fire(walk.ResultEvent{Result: r})
	}
	f.fire(walk.EndEvent{Results: results})
}

// fail fires the notifications of a scan that found results and then failed.
// A failed scan never notifies end.
func (f *fakeEngine) fail(results ...walk.Result) {
	f.fire(walk.CheckEvent{})
	for _, r := range results {
		f.fire(walk.CheckPathEvent{Path: r.Path})
		f.fire(walk.ResultEvent{Result: r})
	}
}

var sampleResults = []walk.Result{
	{Path: "/tmp/a", Length: 6, Directory: true},
	{Path: "/tmp/a/b.txt", Length: 12},
}

func render(t *testing.T, s Style, pretty bool, results ...walk.Result) string {
	t.Helper()
	color.NoColor = true

	engine := newFakeEngine()
	var out bytes.Buffer
	detach := s.Apply(ApplyOptions{Engine: engine, Output: &out, Pretty: pretty})
	defer detach()

	engine.scan(results...)
	return out.String()
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{"format", "json", "table", "xml", "yaml"}, r.Names())
	require.NotNil(t, r.Default())
	assert.Equal(t, "table", r.Default().Name())

	s, ok := r.Lookup("json")
	require.True(t, ok)
	assert.Equal(t, "json", s.Name())

	_, ok = r.Lookup("csv")
	assert.False(t, ok)

	r.Register(JSON{}, true)
	assert.Equal(t, "json", r.Default().Name())
	assert.Len(t, r.Names(), 5)
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.Register(YAML{}, true)
	assert.Equal(t, "yaml", a.Default().Name())
	assert.Equal(t, "table", b.Default().Name())
}

func TestDetachStopsOutput(t *testing.T) {
	engine := newFakeEngine()
	var out bytes.Buffer
	detach := JSON{}.Apply(ApplyOptions{Engine: engine, Output: &out})
	detach()

	engine.scan(sampleResults...)
	assert.Empty(t, out.String())
}

func TestJSON(t *testing.T) {
	got := render(t, JSON{}, false, sampleResults...)
	assert.Equal(t,
		`[{"directory":true,"length":6,"path":"/tmp/a"},{"directory":false,"length":12,"path":"/tmp/a/b.txt"}]`+"\n",
		got)
	assert.JSONEq(t, `[
		{"directory": true, "length": 6, "path": "/tmp/a"},
		{"directory": false, "length": 12, "path": "/tmp/a/b.txt"}
	]`, got)
}

func TestJSONPretty(t *testing.T) {
	got := render(t, JSON{}, true, sampleResults[1])
	want := "[\n" +
		"  {\n" +
		"    \"directory\": false,\n" +
		"    \"length\": 12,\n" +
		"    \"path\": \"/tmp/a/b.txt\"\n" +
		"  }\n" +
		"]\n"
	assert.Equal(t, want, got)
}

func TestJSONEmpty(t *testing.T) {
	assert.Equal(t, "[]\n", render(t, JSON{}, false))
	assert.Equal(t, "[]\n", render(t, JSON{}, true))
}

func TestJSONResetsBetweenScans(t *testing.T) {
	engine := newFakeEngine()
	var out bytes.Buffer
	JSON{}.Apply(ApplyOptions{Engine: engine, Output: &out})

	engine.scan(sampleResults[0])
	engine.scan(sampleResults[1])

	assert.Equal(t,
		`[{"directory":true,"length":6,"path":"/tmp/a"}]`+"\n"+
			`[{"directory":false,"length":12,"path":"/tmp/a/b.txt"}]`+"\n",
		out.String())
}

func TestTable(t *testing.T) {
	got := render(t, Table{}, false, sampleResults...)
	want := "+------+--------+------+\n" +
		"| Path | Length | Type |\n" +
		"+------+--------+------+\n" +
		"| /tmp/a | 6 | Directory |\n" +
		"| /tmp/a/b.txt | 12 | File |\n" +
		"+------+--------+------+\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestTablePretty(t *testing.T) {
	got := render(t, Table{}, true, sampleResults...)
	want := "+--------------+--------+-----------+\n" +
		"| Path         | Length | Type      |\n" +
		"+--------------+--------+-----------+\n" +
		"| /tmp/a       | 6      | Directory |\n" +
		"| /tmp/a/b.txt | 12     | File      |\n" +
		"+--------------+--------+-----------+\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestXML(t *testing.T) {
	got := render(t, XML{}, false, walk.Result{Path: `/tmp/"a"&<b>`, Length: 12})
	want := `<?xml version="1.0" encoding="UTF-8" ?><results>` +
		`<result directory="false" length="12" path="/tmp/&#34;a&#34;&amp;&lt;b&gt;" />` +
		"</results>\n"
	assert.Equal(t, want, got)
}

func TestXMLPretty(t *testing.T) {
	got := render(t, XML{}, true, sampleResults...)
	want := `<?xml version="1.0" encoding="UTF-8" ?>` + "\n" +
		"<results>\n" +
		`  <result directory="true" length="6" path="/tmp/a" />` + "\n" +
		`  <result directory="false" length="12" path="/tmp/a/b.txt" />` + "\n" +
		"</results>\n"
	assert.Equal(t, want, got)

	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8" ?>`+"\n<results></results>\n", render(t, XML{}, true))
}

func TestYAML(t *testing.T) {
	got := render(t, YAML{}, false, sampleResults...)
	want := "- directory: true\n" +
		"  length: 6\n" +
		"  path: /tmp/a\n" +
		"- directory: false\n" +
		"  length: 12\n" +
		"  path: /tmp/a/b.txt\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestFormat(t *testing.T) {
	engine := newFakeEngine()
	var out bytes.Buffer
	Format{}.Apply(ApplyOptions{
		Engine: engine,
		Output: &out,
		Format: `{length} {type} {base} {dir} {""}`,
	})
	engine.scan(sampleResults...)

	assert.Equal(t,
		"6 directory a /tmp \"/tmp/a\"\n"+
			"12 file b.txt /tmp/a \"/tmp/a/b.txt\"\n",
		out.String())
}

func TestFormatDefault(t *testing.T) {
	got := render(t, Format{}, false, sampleResults...)
	assert.Equal(t, "6 /tmp/a\n12 /tmp/a/b.txt\n", got)
}

func TestFormatResult(t *testing.T) {
	r := walk.Result{Path: "/x/y z", Length: 6}
	assert.Equal(t, "/x/y z|/x/y z", formatResult("{}|{path}", r))
	assert.Equal(t, `"y z" "/x"`, formatResult(`{"base"} {"dir"}`, r))
	assert.Equal(t, "{unknown}", formatResult("{unknown}", r))
}

// renderAfterFailure renders a failed scan followed by a successful one.
func renderAfterFailure(t *testing.T, s Style, pretty bool) string {
	t.Helper()
	color.NoColor = true

	engine := newFakeEngine()
	var out bytes.Buffer
	detach := s.Apply(ApplyOptions{Engine: engine, Output: &out, Pretty: pretty})
	defer detach()

	engine.fail(sampleResults[0])
	engine.scan(sampleResults...)
	return out.String()
}

func TestFailedScanIsClosedBeforeNextScan(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		got := renderAfterFailure(t, JSON{}, false)
		assert.Equal(t,
			`[{"directory":true,"length":6,"path":"/tmp/a"}]`+"\n"+
				`[{"directory":true,"length":6,"path":"/tmp/a"},{"directory":false,"length":12,"path":"/tmp/a/b.txt"}]`+"\n",
			got)

		dec := json.NewDecoder(strings.NewReader(got))
		var documents int
		for dec.More() {
			var results []walk.Result
			require.NoError(t, dec.Decode(&results))
			documents++
		}
		assert.Equal(t, 2, documents)
	})

	t.Run("json pretty", func(t *testing.T) {
		got := renderAfterFailure(t, JSON{}, true)
		dec := json.NewDecoder(strings.NewReader(got))
		var sizes []int
		for dec.More() {
			var results []walk.Result
			require.NoError(t, dec.Decode(&results))
			sizes = append(sizes, len(results))
		}
		assert.Equal(t, []int{1, 2}, sizes)
	})

	t.Run("xml", func(t *testing.T) {
		got := renderAfterFailure(t, XML{}, false)
		assert.Equal(t,
			`<?xml version="1.0" encoding="UTF-8" ?><results>`+
				`<result directory="true" length="6" path="/tmp/a" />`+
				"</results>\n"+
				`<?xml version="1.0" encoding="UTF-8" ?><results>`+
				`<result directory="true" length="6" path="/tmp/a" />`+
				`<result directory="false" length="12" path="/tmp/a/b.txt" />`+
				"</results>\n",
			got)
	})

	t.Run("table", func(t *testing.T) {
		got := renderAfterFailure(t, Table{}, false)
		failed := "+------+--------+------+\n" +
			"| Path | Length | Type |\n" +
			"+------+--------+------+\n" +
			"| /tmp/a | 6 | Directory |\n" +
			"+------+--------+------+\n" +
			"\n"
		assert.True(t, strings.HasPrefix(got, failed), got)
		assert.Equal(t, render(t, Table{}, false, sampleResults...), strings.TrimPrefix(got, failed))
	})

	t.Run("table pretty", func(t *testing.T) {
		got := renderAfterFailure(t, Table{}, true)
		assert.Equal(t, render(t, Table{}, true, sampleResults...), got)
	})

	t.Run("yaml", func(t *testing.T) {
		got := renderAfterFailure(t, YAML{}, false)
		want := "- directory: true\n" +
			"  length: 6\n" +
			"  path: /tmp/a\n" +
			"\n" +
			render(t, YAML{}, false, sampleResults...)
		assert.Equal(t, want, got)
	})
}

func TestDetachFinishesFailedScan(t *testing.T) {
	color.NoColor = true

	for _, tc := range []struct {
		style Style
		want  string
	}{
		{JSON{}, `[{"directory":true,"length":6,"path":"/tmp/a"}]` + "\n"},
		{XML{}, `<?xml version="1.0" encoding="UTF-8" ?><results>` +
			`<result directory="true" length="6" path="/tmp/a" /></results>` + "\n"},
		{YAML{}, "- directory: true\n  length: 6\n  path: /tmp/a\n\n"},
	} {
		t.Run(tc.style.Name(), func(t *testing.T) {
			engine := newFakeEngine()
			var out bytes.Buffer
			detach := tc.style.Apply(ApplyOptions{Engine: engine, Output: &out})

			engine.fail(sampleResults[0])
			detach()
			detach()

			assert.Equal(t, tc.want, out.String())
		})
	}
}
