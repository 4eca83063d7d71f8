package editor

import (
	"strings"

	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/floor"
	"github.com/mattsolo1/grove-variables/pkg/models"
)

type rowKind int

const (
	panelRow rowKind = iota
	cardRow
	itemRow
	textRow
)

// row is one line of the flattened view.
type row struct {
	kind  rowKind
	panel *floor.Panel
	node  card.NodeID
	item  int
	depth int
	text  string
}

func buildRows(view *floor.View) []row {
	if view == nil {
		return nil
	}
	var rows []row
	for _, p := range view.Panels {
		rows = append(rows, row{kind: panelRow, panel: p})
		if !p.Expanded {
			continue
		}
		for _, id := range p.Cards {
			rows = appendCard(rows, view.Cards, p, id, 1)
		}
	}
	return rows
}

func appendCard(rows []row, tree *card.Tree, p *floor.Panel, id card.NodeID, depth int) []row {
	n, ok := tree.Node(id)
	if !ok {
		return rows
	}
	rows = append(rows, row{kind: cardRow, panel: p, node: id, depth: depth})
	switch n.DataType() {
	case models.TypeArray:
		for i := range n.Items() {
			rows = append(rows, row{kind: itemRow, panel: p, node: id, item: i, depth: depth + 1})
		}
	case models.TypeObject:
		if n.ViewMode() == card.ViewJSON {
			for _, line := range strings.Split(n.JSONText(), "\n") {
				rows = append(rows, row{kind: textRow, panel: p, node: id, depth: depth + 1, text: line})
			}
			return rows
		}
		for _, c := range n.Children() {
			rows = appendCard(rows, tree, p, c, depth+1)
		}
	}
	return rows
}

// indexOf finds the row of the given kind addressing node, for keeping the
// cursor in place across rebuilds.
func indexOf(rows []row, kind rowKind, node card.NodeID, item int) int {
	for i, r := range rows {
		if r.kind == kind && r.node == node && r.item == item {
			return i
		}
	}
	return -1
}
