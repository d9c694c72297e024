package recognize

import (
	"sort"

	"github.com/ironsheep/picross-capture/internal/domain"
)

// MergeColumn turns the glyphs of one column band into clue values.
//
// Glyphs are read top to bottom by centroid. Two consecutive glyphs form one
// two-digit value when the second glyph's centroid lies within the first's
// vertical span; the glyph further left is the tens digit. Every other glyph
// stands alone.
func MergeColumn(glyphs []domain.Glyph) domain.ClueLine {
	ordered := make([]domain.Glyph, len(glyphs))
	copy(ordered, glyphs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CenterY < ordered[j].CenterY
	})

	line := make(domain.ClueLine, 0, len(ordered))
	for i := 0; i < len(ordered); i++ {
		cur := ordered[i]
		if i+1 < len(ordered) && spansOverlap(cur, ordered[i+1]) {
			next := ordered[i+1]
			tens, ones := cur, next
			if next.CenterX < cur.CenterX {
				tens, ones = next, cur
			}
			line = append(line, tens.Value*10+ones.Value)
			i++
			continue
		}
		line = append(line, cur.Value)
	}
	return line
}

func spansOverlap(first, second domain.Glyph) bool {
	return float64(first.Top) <= second.CenterY && second.CenterY <= float64(first.Bottom)
}

// MergeRow turns the glyphs of one row band into clue values using their
// colour classes.
//
// Glyphs are read left to right. A white glyph is a complete clue; a yellow
// glyph is the tens digit of a pair completed by the next yellow glyph.
func MergeRow(glyphs []domain.Glyph) (domain.ClueLine, error) {
	ordered := make([]domain.Glyph, len(glyphs))
	copy(ordered, glyphs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CenterX < ordered[j].CenterX
	})

	digits := make([]int, len(ordered))
	colors := make([]domain.ColorClass, len(ordered))
	for i, g := range ordered {
		digits[i] = g.Value
		colors[i] = g.Color
	}
	return CombineDigits(digits, colors)
}

// CombineDigits applies the colour rule to parallel digit and colour slices
// of equal length.
func CombineDigits(digits []int, colors []domain.ColorClass) (domain.ClueLine, error) {
	groups, err := ValidateColorSequence(colors)
	if err != nil {
		return nil, err
	}

	line := make(domain.ClueLine, 0, len(groups))
	for _, g := range groups {
		v := 0
		for _, idx := range g {
			v = v*10 + digits[idx]
		}
		line = append(line, v)
	}
	return line, nil
}

// ValidateColorSequence checks the colour rule on its own and returns the
// numeral indices that make up each clue value.
//
// White stands alone. Yellow must be followed by exactly one more yellow;
// a yellow followed by white, or a trailing unpaired yellow, is a
// *domain.MalformedColorSequenceError.
//
// For example [white yellow yellow] yields [[0] [1 2]].
func ValidateColorSequence(colors []domain.ColorClass) ([][]int, error) {
	var groups [][]int
	for i := 0; i < len(colors); i++ {
		switch colors[i] {
		case domain.White:
			groups = append(groups, []int{i})
		case domain.Yellow:
			if i+1 >= len(colors) || colors[i+1] != domain.Yellow {
				return nil, &domain.MalformedColorSequenceError{Colors: colors, Index: i}
			}
			groups = append(groups, []int{i, i + 1})
			i++
		default:
			return nil, &domain.MalformedColorSequenceError{Colors: colors, Index: i}
		}
	}
	return groups, nil
}
