package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/picross-capture/internal/domain"
)

// WriteSpec writes spec in the solver's puzzle format:
//
//	<side> <side>
//	<side row lines>
//	#
//	<side column lines>
//
// Clue values are separated by single spaces; a zero-clue line is empty.
// Negative clue values are rejected before anything is written.
func WriteSpec(w io.Writer, spec domain.PuzzleSpec) error {
	for _, lines := range [][]domain.ClueLine{spec.Rows, spec.Cols} {
		for _, l := range lines {
			for _, v := range l {
				if v < 0 {
					return fmt.Errorf("negative clue %d", v)
				}
			}
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", spec.Side, spec.Side)
	for _, l := range spec.Rows {
		bw.WriteString(l.String())
		bw.WriteByte('\n')
	}
	bw.WriteString("#\n")
	for _, l := range spec.Cols {
		bw.WriteString(l.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteSpecFile writes spec to path, replacing any existing file.
func WriteSpecFile(path string, spec domain.PuzzleSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return &domain.OpError{Op: "puzzle.write_spec", Kind: domain.KindIO, Path: path, Err: err}
	}
	if err := WriteSpec(f, spec); err != nil {
		f.Close()
		return &domain.OpError{Op: "puzzle.write_spec", Kind: domain.KindIO, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.OpError{Op: "puzzle.write_spec", Kind: domain.KindIO, Path: path, Err: err}
	}
	return nil
}

// ParseSpec reads the format produced by WriteSpec.
//
// The header must name a square board. Every line up to the "#" separator is
// a row, every line after it a column; the counts are not checked here so an
// inconsistent file can still be loaded and reported by Verify. Trailing
// whitespace on clue lines is tolerated.
func ParseSpec(r io.Reader) (domain.PuzzleSpec, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return domain.PuzzleSpec{}, err
		}
		return domain.PuzzleSpec{}, fmt.Errorf("empty puzzle file")
	}

	header := strings.Fields(sc.Text())
	if len(header) != 2 {
		return domain.PuzzleSpec{}, fmt.Errorf("invalid header %q", sc.Text())
	}
	w, errW := strconv.Atoi(header[0])
	h, errH := strconv.Atoi(header[1])
	if errW != nil || errH != nil || w < 1 {
		return domain.PuzzleSpec{}, fmt.Errorf("invalid header %q", sc.Text())
	}
	if w != h {
		return domain.PuzzleSpec{}, fmt.Errorf("board is not square: %dx%d", w, h)
	}

	spec := domain.PuzzleSpec{Side: w}
	inCols := false
	lineNo := 1
	for sc.Scan() {
		lineNo++
		text := strings.TrimRight(sc.Text(), " \t\r")
		if text == "#" && !inCols {
			inCols = true
			continue
		}
		line, err := domain.ParseClueLine(text)
		if err != nil {
			return domain.PuzzleSpec{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if inCols {
			spec.Cols = append(spec.Cols, line)
		} else {
			spec.Rows = append(spec.Rows, line)
		}
	}
	if err := sc.Err(); err != nil {
		return domain.PuzzleSpec{}, err
	}
	if !inCols {
		return domain.PuzzleSpec{}, fmt.Errorf("missing '#' separator")
	}
	return spec, nil
}

// ReadSpecFile parses the puzzle file at path.
func ReadSpecFile(path string) (domain.PuzzleSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.PuzzleSpec{}, &domain.OpError{Op: "puzzle.read_spec", Kind: domain.KindIO, Path: path, Err: err}
	}
	defer f.Close()

	spec, err := ParseSpec(f)
	if err != nil {
		return domain.PuzzleSpec{}, &domain.OpError{Op: "puzzle.read_spec", Kind: domain.KindIO, Path: path, Err: err}
	}
	return spec, nil
}
