// Package puzzle reads and writes the solver's text formats and checks a
// recognised puzzle for global consistency before it is solved.
package puzzle
