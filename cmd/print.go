package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/floor"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// textSurface prints finished renders. Under --watch renders overlap; the
// pipeline only lets the newest one through.
type textSurface struct {
	mu  sync.Mutex
	w   io.Writer
	all bool
}

func (s *textSurface) ShowEmpty(_ floor.EmptyReason, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, message)
}

func (s *textSurface) ShowError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "Error: %v\n", err)
}

func (s *textSurface) Commit(view *floor.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := tabwriter.NewWriter(s.w, 0, 0, 2, ' ', 0)
	for _, p := range view.Panels {
		if !p.Expanded && !s.all {
			fmt.Fprintf(w, "▸ %s\t(%d variables)\n", p.Title, len(p.Cards))
			continue
		}
		fmt.Fprintf(w, "▾ %s\n", p.Title)
		for _, id := range p.Cards {
			printCard(w, view.Cards, id, 1)
		}
	}
	_ = w.Flush()
}

func printTree(w io.Writer, tree *card.Tree, id card.NodeID) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	printCard(tw, tree, id, 0)
	_ = tw.Flush()
}

// printCard writes one card and its subtree as tab separated columns.
func printCard(w io.Writer, tree *card.Tree, id card.NodeID, depth int) {
	n, ok := tree.Node(id)
	if !ok {
		return
	}
	indent := strings.Repeat("  ", depth)
	status := ""
	if n.Status() == models.StatusNew {
		status = "\t(new)"
	}

	switch n.DataType() {
	case models.TypeString:
		quoted, err := value.Marshal(n.Text())
		if err != nil {
			quoted = n.Text()
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s%s\n", indent, n.Name(), n.DataType(), quoted, status)
	case models.TypeNumber:
		fmt.Fprintf(w, "%s%s\t%s\t%s%s\n", indent, n.Name(), n.DataType(), n.Text(), status)
	case models.TypeBoolean:
		on, _ := n.BoolState()
		fmt.Fprintf(w, "%s%s\t%s\t%t%s\n", indent, n.Name(), n.DataType(), on, status)
	case models.TypeArray:
		items := n.Items()
		fmt.Fprintf(w, "%s%s\t%s\t[%d items]%s\n", indent, n.Name(), n.DataType(), len(items), status)
		for _, item := range items {
			fmt.Fprintf(w, "%s  - %s\n", indent, item)
		}
	case models.TypeObject:
		fmt.Fprintf(w, "%s%s\t%s\t{%d keys}%s\n", indent, n.Name(), n.DataType(), len(n.Children()), status)
		if n.ViewMode() == card.ViewJSON {
			for _, line := range strings.Split(n.JSONText(), "\n") {
				fmt.Fprintf(w, "%s  %s\n", indent, line)
			}
			return
		}
		for _, c := range n.Children() {
			printCard(w, tree, c, depth+1)
		}
	}
}
