package skeleton

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// swcUndefined is the SWC structure type written for every vertex
const swcUndefined = 0

// WriteSWC writes the tree as SWC text: one "id type x y z radius parent" line
// per vertex in vertex order. The root's parent is -1 and unknown radii are
// written as -1.
func WriteSWC(w io.Writer, t *Tree) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %d vertices, root %d\n", t.Len(), t.nodes[t.root].ID)
	for i, n := range t.nodes {
		parent := int64(-1)
		if p := t.parents[i]; p >= 0 {
			parent = t.nodes[p].ID
		}
		radius := -1.0
		if n.Radius != nil {
			radius = *n.Radius
		}

		fmt.Fprintf(bw, "%d %d %s %s %s %s %d\n",
			n.ID, swcUndefined,
			formatFloat(n.Position.X), formatFloat(n.Position.Y), formatFloat(n.Position.Z),
			formatFloat(radius), parent)
	}

	return bw.Flush()
}

// WriteSWCFile writes the tree to path in SWC format
func WriteSWCFile(path string, t *Tree) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := WriteSWC(file, t); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
