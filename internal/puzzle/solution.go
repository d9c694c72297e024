package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ironsheep/picross-capture/internal/domain"
)

// SolutionMarker precedes the first solution grid in solver output.
const SolutionMarker = "Solution nb 1"

// ReadSolution extracts the first solution grid from solver output.
//
// The side lines after the first line containing SolutionMarker form the
// grid. Returns *domain.NoSolutionFoundError when the marker is missing or
// fewer than side lines follow it, or when one of them is shorter than side
// cells.
func ReadSolution(output string, side int) (domain.Solution, error) {
	lines := splitLines(output)
	for i, l := range lines {
		if !strings.Contains(l, SolutionMarker) {
			continue
		}
		grid := lines[i+1:]
		if len(grid) < side {
			return domain.Solution{}, &domain.NoSolutionFoundError{
				Reason: fmt.Sprintf("expected %d grid lines after %q, found %d", side, SolutionMarker, len(grid)),
			}
		}
		if err := checkWidth(grid[:side], side); err != nil {
			return domain.Solution{}, &domain.NoSolutionFoundError{Reason: err.Error()}
		}
		return gridToSolution(grid[:side], side), nil
	}
	return domain.Solution{}, &domain.NoSolutionFoundError{Reason: fmt.Sprintf("marker %q not in solver output", SolutionMarker)}
}

// ParseSolutionGrid reads a bare solution file: side lines of side
// characters each. With side 0 the width of the first line decides.
func ParseSolutionGrid(r io.Reader, side int) (domain.Solution, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Solution{}, err
	}
	var lines []string
	for _, l := range splitLines(string(data)) {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if side == 0 && len(lines) > 0 {
		side = len(lines[0])
	}
	if side == 0 {
		return domain.Solution{}, fmt.Errorf("empty solution grid")
	}
	if len(lines) < side {
		return domain.Solution{}, fmt.Errorf("expected %d grid lines, found %d", side, len(lines))
	}
	if err := checkWidth(lines[:side], side); err != nil {
		return domain.Solution{}, err
	}
	return gridToSolution(lines[:side], side), nil
}

func checkWidth(lines []string, side int) error {
	for i, l := range lines {
		if len(l) < side {
			return fmt.Errorf("grid line %d: expected %d cells, found %d", i+1, side, len(l))
		}
	}
	return nil
}

// ReadSolutionFile parses the bare solution file at path.
func ReadSolutionFile(path string, side int) (domain.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Solution{}, &domain.OpError{Op: "puzzle.read_solution", Kind: domain.KindIO, Path: path, Err: err}
	}
	defer f.Close()

	sol, err := ParseSolutionGrid(bufio.NewReader(f), side)
	if err != nil {
		return domain.Solution{}, &domain.OpError{Op: "puzzle.read_solution", Kind: domain.KindIO, Path: path, Err: err}
	}
	return sol, nil
}

// gridToSolution maps '#' and the legacy 'X' to filled cells. Every line
// holds at least side characters.
func gridToSolution(lines []string, side int) domain.Solution {
	cells := make([][]bool, side)
	for y := range cells {
		cells[y] = make([]bool, side)
		line := lines[y]
		for x := 0; x < side; x++ {
			cells[y][x] = line[x] == '#' || line[x] == 'X'
		}
	}
	return domain.Solution{Side: side, Cells: cells}
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
