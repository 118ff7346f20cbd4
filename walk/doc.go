// Package walk checks the length of file and directory paths.
//
// A scan starts at a root directory, visits its direct children (and, when
// Recursive is set, every directory below them) and records the length of each
// real path that passes an optional filter:
//
//	opts := walk.DefaultOptions()
//	opts.Cwd = "/path/to/project"
//	opts.Recursive = true
//	opts.FilterExpression = "gte 200"
//	results, err := walk.Check(context.Background(), opts)
//
// Progress can be observed by subscribing to an Engine:
//
//	engine := walk.NewEngine()
//	engine.On(walk.EventResult, func(ev walk.Event) {
//		r := ev.(walk.ResultEvent).Result
//		fmt.Printf("%d %s\n", r.Length, r.Path)
//	})
//	results, err := engine.Check(ctx, opts)
//
// Filters are made of an operator and an operand, optionally separated by
// white space. Operators: eq (=, ==, ===), ne (!, !=, !==), gt (>), gte (>=),
// lt (<), lte (<=).
//
// Symbolic links are reported but never followed.
package walk
