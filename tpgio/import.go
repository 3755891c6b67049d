package tpgio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

const maxLineLength = 1024

// Import parses the §6 text format written by Export, building a fresh
// *tpg.Graph over env. Vertex IDs in the returned graph follow creation
// order and need not equal the IDs recorded in the file (tpg.Graph never
// reuses an ID even after a RemoveVertex, so an originally-exported
// graph's IDs may carry gaps a fresh Graph cannot reproduce); every
// program, edge, and (team/action, program, target) binding is
// preserved exactly. Any malformed line, over-length line, or reference
// to an undeclared node or program fails ErrImport.
func Import(r io.Reader, env *tpgenv.Environment) (*tpg.Graph, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	p := &importState{lines: lines, env: env, g: tpg.NewGraph(env),
		vertexOf: make(map[int]tpg.VertexID), programsByPid: make(map[int]*program.Program),
		dstOf: make(map[int]tpg.VertexID)}

	if err := p.parseNodes(); err != nil {
		return nil, err
	}
	if err := p.parsePrograms(); err != nil {
		return nil, err
	}
	if err := p.parseEdges(); err != nil {
		return nil, err
	}

	return p.g, nil
}

func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, maxLineLength+1), maxLineLength+1)

	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if len(line) > maxLineLength {
			return nil, fmt.Errorf("%w: line exceeds %d characters", ErrImport, maxLineLength)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}

	return lines, nil
}

type importState struct {
	lines []string
	idx   int

	env *tpgenv.Environment
	g   *tpg.Graph

	vertexOf      map[int]tpg.VertexID
	programsByPid map[int]*program.Program
	dstOf         map[int]tpg.VertexID
}

func (p *importState) next() (string, bool) {
	if p.idx >= len(p.lines) {
		return "", false
	}
	l := p.lines[p.idx]
	p.idx++

	return l, true
}

func (p *importState) expect(marker string) error {
	line, ok := p.next()
	if !ok || line != marker {
		return fmt.Errorf("%w: expected %q", ErrImport, marker)
	}

	return nil
}

func (p *importState) parseNodes() error {
	if err := p.expect("NODES"); err != nil {
		return err
	}
	for {
		line, ok := p.next()
		if !ok {
			return fmt.Errorf("%w: unterminated NODES section", ErrImport)
		}
		if line == "ENDNODES" {
			return nil
		}

		switch {
		case strings.HasPrefix(line, "T"):
			var id int
			if _, err := fmt.Sscanf(line, "T%d", &id); err != nil {
				return fmt.Errorf("%w: malformed team node %q", ErrImport, line)
			}
			p.vertexOf[id] = p.g.AddNewTeam()
		case strings.HasPrefix(line, "A"):
			var id, class, actionID int
			if _, err := fmt.Sscanf(line, "A%d class=%d action=%d", &id, &class, &actionID); err != nil {
				return fmt.Errorf("%w: malformed action node %q", ErrImport, line)
			}
			p.vertexOf[id] = p.g.AddNewAction(class, actionID)
		default:
			return fmt.Errorf("%w: unrecognized node line %q", ErrImport, line)
		}
	}
}

func (p *importState) parsePrograms() error {
	if err := p.expect("PROGRAMS"); err != nil {
		return err
	}
	for {
		line, ok := p.next()
		if !ok {
			return fmt.Errorf("%w: unterminated PROGRAMS section", ErrImport)
		}
		if line == "ENDPROGRAMS" {
			return nil
		}

		var pid, iid int
		if _, err := fmt.Sscanf(line, "P%d -> I%d", &pid, &iid); err != nil {
			return fmt.Errorf("%w: malformed program header %q", ErrImport, line)
		}

		prog := program.New(p.env)
		for {
			bodyLine, ok := p.next()
			if !ok {
				return fmt.Errorf("%w: unterminated program body", ErrImport)
			}
			if strings.HasPrefix(bodyLine, "#") {
				consts, err := parseTrailer(bodyLine)
				if err != nil {
					return err
				}
				if len(consts) != p.env.K() {
					return fmt.Errorf("%w: program %d declares %d constants, environment has K=%d", ErrImport, pid, len(consts), p.env.K())
				}
				for i, c := range consts {
					prog.MutateConstant(i, c)
				}

				break
			}

			instr, dest, ops, err := parseBodyLine(bodyLine)
			if err != nil {
				return err
			}
			if len(ops) != p.env.MaxNbOperands() {
				return fmt.Errorf("%w: program %d line has %d operands, environment has %d", ErrImport, pid, len(ops), p.env.MaxNbOperands())
			}

			lineIdx := prog.AddLine()
			if err := prog.SetInstr(lineIdx, instr, false); err != nil {
				return fmt.Errorf("%w: %v", ErrImport, err)
			}
			if err := prog.SetDest(lineIdx, dest, false); err != nil {
				return fmt.Errorf("%w: %v", ErrImport, err)
			}
			for opIdx, op := range ops {
				if err := prog.SetOperand(lineIdx, opIdx, op.Source, op.Addr, false); err != nil {
					return fmt.Errorf("%w: %v", ErrImport, err)
				}
			}
		}

		p.programsByPid[pid] = prog
	}
}

func parseBodyLine(line string) (instr, dest int, ops []program.Operand, err error) {
	head, rest, ok := strings.Cut(line, "&")
	if !ok {
		return 0, 0, nil, fmt.Errorf("%w: malformed program line %q", ErrImport, line)
	}
	instrStr, destStr, ok := strings.Cut(head, "|")
	if !ok {
		return 0, 0, nil, fmt.Errorf("%w: malformed program line %q", ErrImport, line)
	}
	if instr, err = strconv.Atoi(instrStr); err != nil {
		return 0, 0, nil, fmt.Errorf("%w: bad instruction index %q", ErrImport, instrStr)
	}
	if dest, err = strconv.Atoi(destStr); err != nil {
		return 0, 0, nil, fmt.Errorf("%w: bad destination index %q", ErrImport, destStr)
	}

	if rest == "" {
		return instr, dest, nil, nil
	}
	for _, opStr := range strings.Split(rest, "#") {
		srcStr, addrStr, ok := strings.Cut(opStr, "|")
		if !ok {
			return 0, 0, nil, fmt.Errorf("%w: malformed operand %q", ErrImport, opStr)
		}
		src, err := strconv.Atoi(srcStr)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("%w: bad operand source %q", ErrImport, srcStr)
		}
		addr, err := strconv.Atoi(addrStr)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("%w: bad operand address %q", ErrImport, addrStr)
		}
		ops = append(ops, program.Operand{Source: src, Addr: addr})
	}

	return instr, dest, ops, nil
}

func parseTrailer(line string) ([]datasrc.Constant, error) {
	body := strings.TrimPrefix(line, "#")
	if body == "" {
		return nil, nil
	}
	parts := strings.Split(body, ",")
	out := make([]datasrc.Constant, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: bad constant %q", ErrImport, part)
		}
		out[i] = datasrc.Constant(v)
	}

	return out, nil
}

func (p *importState) parseEdges() error {
	if err := p.expect("EDGES"); err != nil {
		return err
	}
	for {
		line, ok := p.next()
		if !ok {
			return fmt.Errorf("%w: unterminated EDGES section", ErrImport)
		}
		if line == "ENDEDGES" {
			return nil
		}

		parts := strings.Split(line, " -> ")
		if len(parts) != 2 && len(parts) != 3 {
			return fmt.Errorf("%w: malformed edge line %q", ErrImport, line)
		}

		var tid, pid int
		if _, err := fmt.Sscanf(parts[0], "T%d", &tid); err != nil {
			return fmt.Errorf("%w: malformed edge source %q", ErrImport, parts[0])
		}
		if _, err := fmt.Sscanf(parts[1], "P%d", &pid); err != nil {
			return fmt.Errorf("%w: malformed edge program %q", ErrImport, parts[1])
		}

		srcVID, ok := p.vertexOf[tid]
		if !ok {
			return fmt.Errorf("%w: edge references undeclared team T%d", ErrImport, tid)
		}
		prog, ok := p.programsByPid[pid]
		if !ok {
			return fmt.Errorf("%w: edge references undeclared program P%d", ErrImport, pid)
		}

		var dstVID tpg.VertexID
		if len(parts) == 3 {
			token := parts[2]
			if len(token) < 2 {
				return fmt.Errorf("%w: malformed edge target %q", ErrImport, token)
			}
			var dstID int
			if _, err := fmt.Sscanf(token[1:], "%d", &dstID); err != nil {
				return fmt.Errorf("%w: malformed edge target %q", ErrImport, token)
			}
			v, ok := p.vertexOf[dstID]
			if !ok {
				return fmt.Errorf("%w: edge references undeclared target %q", ErrImport, token)
			}
			dstVID = v
			if _, known := p.dstOf[pid]; !known {
				p.dstOf[pid] = dstVID
			}
		} else {
			v, ok := p.dstOf[pid]
			if !ok {
				return fmt.Errorf("%w: reuse edge %q references P%d before its target is known", ErrImport, line, pid)
			}
			dstVID = v
		}

		if _, err := p.g.AddNewEdge(srcVID, dstVID, prog); err != nil {
			return fmt.Errorf("%w: %v", ErrImport, err)
		}
	}
}
