package tpgio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
)

// Export writes g to w in the §6 text format. Vertices and edges are
// emitted in their original creation order, so a graph built once and
// exported twice produces byte-identical output.
func Export(w io.Writer, g *tpg.Graph) error {
	bw := bufio.NewWriter(w)

	if err := exportNodes(bw, g); err != nil {
		return err
	}

	pid, iid, dstOf, order := assignProgramIDs(g)
	if err := exportPrograms(bw, g, order, iid); err != nil {
		return err
	}
	if err := exportEdges(bw, g, pid, dstOf); err != nil {
		return err
	}

	return bw.Flush()
}

func exportNodes(bw *bufio.Writer, g *tpg.Graph) error {
	fmt.Fprintln(bw, "NODES")
	for _, v := range g.Vertices() {
		info, ok := g.Vertex(v)
		if !ok {
			continue
		}
		switch info.Kind {
		case tpg.KindTeam:
			fmt.Fprintf(bw, "T%d\n", v)
		case tpg.KindAction:
			fmt.Fprintf(bw, "A%d class=%d action=%d\n", v, info.Class, info.ActionID)
		}
	}
	fmt.Fprintln(bw, "ENDNODES")

	return nil
}

// assignProgramIDs walks g's edges in creation order, assigning each
// distinct *program.Program a pid/iid pair (equal to each other) the
// first time its pointer is seen, and recording the destination it was
// first bound to. order lists programs in first-use order, for
// exportPrograms to walk.
func assignProgramIDs(g *tpg.Graph) (pid map[*program.Program]int, iid map[*program.Program]int, dstOf map[int]tpg.VertexID, order []*program.Program) {
	pid = make(map[*program.Program]int)
	iid = make(map[*program.Program]int)
	dstOf = make(map[int]tpg.VertexID)

	for _, e := range g.Edges() {
		prog, ok := g.EdgeProgram(e)
		if !ok || prog == nil {
			continue
		}
		if _, seen := pid[prog]; seen {
			continue
		}
		id := len(order)
		pid[prog] = id
		iid[prog] = id
		order = append(order, prog)

		info, _ := g.Edge(e)
		dstOf[id] = info.Dst
	}

	return pid, iid, dstOf, order
}

func exportPrograms(bw *bufio.Writer, g *tpg.Graph, order []*program.Program, iid map[*program.Program]int) error {
	fmt.Fprintln(bw, "PROGRAMS")
	for _, prog := range order {
		pidVal := iid[prog]
		fmt.Fprintf(bw, "P%d -> I%d\n", pidVal, pidVal)
		for i := 0; i < prog.NbLines(); i++ {
			fmt.Fprintln(bw, formatLine(prog.Line(i)))
		}
		fmt.Fprintln(bw, formatConstants(prog))
	}
	fmt.Fprintln(bw, "ENDPROGRAMS")

	return nil
}

func formatLine(l program.Line) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d&", l.Instr(), l.Dest())
	ops := l.Operands()
	for i, op := range ops {
		if i > 0 {
			b.WriteByte('#')
		}
		fmt.Fprintf(&b, "%d|%d", op.Source, op.Addr)
	}

	return b.String()
}

func formatConstants(prog *program.Program) string {
	raw := prog.Constants().Raw()
	vals := make([]string, len(raw))
	for i, c := range raw {
		vals[i] = fmt.Sprintf("%d", int32(c))
	}

	return "#" + strings.Join(vals, ",")
}

func exportEdges(bw *bufio.Writer, g *tpg.Graph, pid map[*program.Program]int, dstOf map[int]tpg.VertexID) error {
	fmt.Fprintln(bw, "EDGES")
	declared := make(map[int]bool)
	for _, e := range g.Edges() {
		info, ok := g.Edge(e)
		if !ok {
			continue
		}
		prog, ok := g.EdgeProgram(e)
		if !ok || prog == nil {
			continue
		}
		pidVal := pid[prog]

		if declared[pidVal] && dstOf[pidVal] == info.Dst {
			fmt.Fprintf(bw, "T%d -> P%d\n", info.Src, pidVal)
			continue
		}

		dstInfo, ok := g.Vertex(info.Dst)
		if !ok {
			return fmt.Errorf("tpgio: export: edge %d targets unknown vertex %d", e, info.Dst)
		}
		dstSigil := "T"
		if dstInfo.Kind == tpg.KindAction {
			dstSigil = "A"
		}
		fmt.Fprintf(bw, "T%d -> P%d -> %s%d\n", info.Src, pidVal, dstSigil, info.Dst)
		declared[pidVal] = true
	}
	fmt.Fprintln(bw, "ENDEDGES")

	return nil
}
