// Package pipeline wires the extraction stages together: screenshot, board
// geometry, clue bands, clue lines, puzzle file, consistency gate, solver and
// replay.
//
// The stages run strictly in sequence. The only places that block are the
// operator callbacks and the solver process.
package pipeline
