package demo

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/flow"
	"github.com/vango-dev/anchor/pkg/hydrate"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// Registry keys of the application state.
const (
	KeyTodos  = "todos"
	KeyFilter = "filter"
)

// Todo is one list entry.
type Todo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Filter selects which todos are listed.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterActive Filter = "active"
	FilterDone   Filter = "done"
)

// Filters is the order the filter buttons are shown in.
var Filters = []Filter{FilterAll, FilterActive, FilterDone}

// Match reports whether t is listed under f. Unknown filters list
// everything.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Done
	case FilterDone:
		return t.Done
	default:
		return true
	}
}

// App holds the static configuration of the todo application.
type App struct {
	title string
	seed  []Todo
}

// New creates an App whose list starts with one open todo per item.
func New(title string, items []string) *App {
	seed := make([]Todo, len(items))
	for i, item := range items {
		seed[i] = Todo{ID: i + 1, Title: item}
	}
	return &App{title: title, seed: seed}
}

// Title returns the page heading.
func (a *App) Title() string { return a.title }

// Seed returns a copy of the initial list.
func (a *App) Seed() []Todo {
	out := make([]Todo, len(a.seed))
	copy(out, a.seed)
	return out
}

// Factory returns the render function of the application.
func (a *App) Factory() hydrate.Factory {
	return func(rt *reactive.Runtime, b dom.Backend) *dom.Node {
		todos := reactive.NewSignal(rt, a.Seed(), reactive.WithKey(KeyTodos))
		filter := reactive.NewSignal(rt, FilterAll, reactive.WithKey(KeyFilter))

		visible := reactive.NewComputed(rt, func() []Todo {
			f := filter.Get()
			var out []Todo
			for _, t := range todos.Get() {
				if f.Match(t) {
					out = append(out, t)
				}
			}
			return out
		})
		remaining := reactive.NewComputed(rt, func() int {
			n := 0
			for _, t := range todos.Get() {
				if !t.Done {
					n++
				}
			}
			return n
		})

		return dom.El(b, "main", dom.Attrs{"class": "todos"},
			dom.El(b, "h1", nil, dom.Text(b, a.title)),
			filterBar(rt, b, filter),
			todoList(rt, b, visible),
			summary(rt, b, remaining),
		)
	}
}

// filterBar renders one button per filter. The buttons are positional, so
// Index keeps them and only updates their contents.
func filterBar(rt *reactive.Runtime, b dom.Backend, filter *reactive.Signal[Filter]) *dom.Node {
	buttons, err := flow.Index(rt, b, flow.IndexProps[Filter]{
		Each: reactive.Static(Filters),
		Children: func(item *reactive.Signal[Filter], _ int) *dom.Node {
			label := dom.Text(b, "")
			button := dom.El(b, "button", nil, label)
			reactive.NewEffect(rt, func() reactive.Cleanup {
				f := item.Get()
				b.SetText(label, string(f))
				b.SetAttr(button, "data-filter", string(f))
				class := ""
				if f == filter.Get() {
					class = "selected"
				}
				b.SetAttr(button, "class", class)
				return nil
			})
			return button
		},
	})
	if err != nil {
		panic(err)
	}
	return dom.El(b, "nav", nil, buttons)
}

// todoList renders the visible todos inside an error boundary. A todo
// without a title cannot be rendered and trips the boundary.
func todoList(rt *reactive.Runtime, b dom.Backend, visible *reactive.Computed[[]Todo]) *dom.Node {
	boundary := flow.ErrorBoundary(rt, b, flow.BoundaryProps{
		Children: func() *dom.Node {
			items, err := flow.For(rt, b, flow.ForProps[Todo]{
				Each: reactive.FromComputed(visible),
				Children: func(t Todo, _ *reactive.Signal[int]) *dom.Node {
					if t.Title == "" {
						panic(fmt.Errorf("todo %d has no title", t.ID))
					}
					attrs := dom.Attrs{"data-id": strconv.Itoa(t.ID)}
					if t.Done {
						attrs["class"] = "done"
					}
					return dom.El(b, "li", attrs, dom.Text(b, t.Title))
				},
			})
			if err != nil {
				panic(err)
			}
			return dom.El(b, "ul", nil, items)
		},
		Fallback: func(err error) *dom.Node {
			return dom.El(b, "p", dom.Attrs{"class": "error"}, dom.Text(b, err.Error()))
		},
	})
	return boundary.Node()
}

// summary shows how many todos are open, or a note when none are.
func summary(rt *reactive.Runtime, b dom.Backend, remaining *reactive.Computed[int]) *dom.Node {
	return dom.El(b, "footer", nil, flow.Show(rt, b, flow.ShowProps[int]{
		When: reactive.FromComputed(remaining),
		Children: func(n int) *dom.Node {
			return dom.El(b, "p", dom.Attrs{"class": "count"}, dom.Text(b, strconv.Itoa(n)+" left"))
		},
		Fallback: func() *dom.Node {
			return dom.El(b, "p", dom.Attrs{"class": "count"}, dom.Text(b, "all done"))
		},
	}))
}
