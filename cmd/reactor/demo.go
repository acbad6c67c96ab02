package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func demoCmd() *cobra.Command {
	var (
		from string
		to   string
		app  bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Show the host operations of a keyed list update",
		Long: `Render a keyed list, update it, and print the DOM operations the
reconciler issued. Unchanged items are patched in place and only the
items outside the longest increasing subsequence are moved.

Examples:
  reactor demo
  reactor demo --from=A,B,C,D,E --to=E,D,C,B,A
  reactor demo --app`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if app {
				fmt.Fprintln(out, demo.RenderHTML(demo.NewState("learn the keyed diff", "ship it")))
				return nil
			}
			return runListDemo(out, split(from), split(to))
		},
	}

	cmd.Flags().StringVar(&from, "from", "A,B,C,D", "Initial keys, comma separated")
	cmd.Flags().StringVar(&to, "to", "D,A,B,C", "Updated keys, comma separated")
	cmd.Flags().BoolVar(&app, "app", false, "Print the demo app HTML instead")

	return cmd
}

func split(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func list(keys []string) *vdom.VNode {
	return vdom.H("ul", nil, vdom.Range(keys, func(k string, _ int) *vdom.VNode {
		return vdom.H("li", vdom.Props{"key": k}, k)
	}))
}

func runListDemo(out io.Writer, from, to []string) error {
	doc := memdom.NewDocument()
	r := renderer.New(doc)

	r.Render(list(from), doc.Body)
	fmt.Fprintf(out, "mount %v: %d ops\n", from, len(doc.TakeOps()))
	fmt.Fprintf(out, "  %s\n\n", doc.Body.InnerHTML())

	r.Render(list(to), doc.Body)
	ops := doc.TakeOps()
	fmt.Fprintf(out, "update %v -> %v: %d ops\n", from, to, len(ops))
	for _, op := range ops {
		fmt.Fprintf(out, "  %s\n", op)
	}
	fmt.Fprintf(out, "\n  %s\n", doc.Body.InnerHTML())
	fmt.Fprintf(out, "moves=%d inserts=%d removes=%d\n",
		memdom.Count(ops, memdom.OpMove),
		memdom.Count(ops, memdom.OpInsert),
		memdom.Count(ops, memdom.OpRemove))
	return nil
}
