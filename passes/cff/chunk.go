package cff

import (
	"math/rand/v2"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/pipeline"
)

// chunk is one state of the flattened machine: a statement list that ends in
// exactly one terminal statement, either a *ast.GotoStatement pointing at its
// successor or an *ast.IfStatement (possibly an else-if chain) whose
// branches are such Gotos, before transition encoding rewrites those Gotos
// into dispatcher transitions.
type chunk struct {
	label string
	stmts []ast.Statement
}

// chunker builds the chunk list for a single CFF-eligible block.
type chunker struct {
	env     *pipeline.Env
	ph      func() string
	rng     *rand.Rand
	chunks  []*chunk
	current *chunk
	fraction float64
}

func newChunker(env *pipeline.Env) *chunker {
	return &chunker{
		env: env,
		ph:  env.Placeholders.Next,
		rng: env.RNG,
	}
}

// run chunks the top-level block body, entering at a fresh label and
// exiting into the reserved "end" pseudo-chunk once the last statement has
// been processed.
func (ck *chunker) run(stmts []ast.Statement) {
	// The chunking fraction is heuristically derived from block length and
	// clamped to at most 0.1, so chunks are long on average and never
	// degenerate into one chunk per statement.
	ck.fraction = chunkingFraction(len(stmts))

	entry := ck.ph()
	ck.chunkBranch(entry, stmts, endLabel)
}

// chunkBranch opens a chunk at label, processes stmts into it (recursing
// into nested structures as needed), and finishes the trailing chunk with a
// goto to exitLabel. This is the shape every structured branch (if-arm,
// loop body, switch-case body) as well as the top-level block reduces to.
func (ck *chunker) chunkBranch(label string, stmts []ast.Statement, exitLabel string) {
	ck.openChunk(label)
	ck.processStmts(stmts)
	ck.finishCurrent(ast.Goto(exitLabel))
}

// chunkingFraction mirrors spec.md §4.E's "fraction = min(0.1, 0.9*base)"
// heuristic: a longer block gets a smaller per-statement split probability.
// For n <= 9 statements the fraction is 0.1 (about 0.1*n expected splits);
// beyond that it is 0.9/n, so the expected number of splits stays at 0.9
// however long the block is.
func chunkingFraction(n int) float64 {
	if n <= 0 {
		return 0.1
	}
	base := 1.0 / float64(n)
	f := 0.9 * base
	if f > 0.1 {
		f = 0.1
	}
	return f
}

// endLabel is the reserved pseudo-chunk label representing flattened
// function exit; it is never itself materialized as a chunk, only as a
// transition target resolving to the dispatcher's end state.
const endLabel = "$end"

func (ck *chunker) openChunk(label string) {
	ck.current = &chunk{label: label}
}

// finishCurrent appends terminal as the chunk's closing statement and
// retires it into ck.chunks.
func (ck *chunker) finishCurrent(terminal ast.Statement) {
	ck.current.stmts = append(ck.current.stmts, terminal)
	ck.chunks = append(ck.chunks, ck.current)
	ck.current = nil
}

// append adds stmt to the open chunk, then randomly splits into a new chunk
// per the chunking fraction.
func (ck *chunker) append(stmt ast.Statement) {
	ck.current.stmts = append(ck.current.stmts, stmt)
	if ck.env.Decider.DecideBool(ck.fraction, nil) {
		next := ck.ph()
		ck.finishCurrent(ast.Goto(next))
		ck.openChunk(next)
	}
}

// processStmts walks a flat statement list belonging to a single chunk
// stream, handling the structured forms inline (spec.md §4.E "Structure
// handling") and appending everything else to the currently open chunk.
// The caller finishes the trailing chunk once every statement is consumed.
func (ck *chunker) processStmts(stmts []ast.Statement) {
	for _, s := range stmts {
		switch v := s.(type) {
		case *ast.IfStatement:
			if ck.handleIf(v) {
				continue
			}
			ck.append(s)
		case *ast.LabeledStatement:
			if ck.handleLabeled(v) {
				continue
			}
			ck.append(s)
		default:
			ck.append(s)
		}
	}
}
