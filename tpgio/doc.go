// Package tpgio implements the §6 graph serialization contract: a
// round-trippable, bit-exact text format for a *tpg.Graph, written and
// read as a pure in-memory io.Writer/io.Reader codec. Reading or writing
// an actual file path, or any CLI driver around this codec, is out of
// scope — callers own the io.
//
// The format is three sections, each opened and closed by a marker line:
//
//	NODES ... ENDNODES
//	PROGRAMS ... ENDPROGRAMS
//	EDGES ... ENDEDGES
//
// Node declarations, one per line, in the graph's original vertex
// creation order:
//
//	T<id>                          - a team vertex
//	A<id> class=<c> action=<aid>   - an action vertex
//
// Program declarations, one block per distinct *program.Program (by
// pointer identity), in first-use order. The opening line is the
// program→instruction edge `P<pid> -> I<iid>`, whose label — the
// program body — follows as one line per instruction:
//
//	inst_idx|dest_idx&op1src|op1addr#op2src|op2addr#...
//
// terminated by a constants trailer line `#c0,c1,...,ck-1`. Every body
// line must be at most 1024 characters; Import rejects anything longer
// with ErrImport.
//
// Edge declarations, one per graph edge, in original edge creation
// order. The general form is the team→program→target composite:
//
//	T<tid> -> P<pid> -> T<dstid>
//	T<tid> -> P<pid> -> A<dstid>
//
// When an edge reuses a Program already bound, by some earlier edge, to
// the same destination, the shorthand form omits the now-redundant
// target:
//
//	T<tid> -> P<pid>
package tpgio
