package palette

import "slices"

// ColorCount is one row of a colour frequency table.
type ColorCount struct {
	Color string
	Count int
}

// Tally counts canonical colours and returns them by descending frequency.
// Equal counts keep first-encountered order.
func Tally(colors []string) []ColorCount {
	index := make(map[string]int)
	var table []ColorCount
	for _, c := range colors {
		if i, ok := index[c]; ok {
			table[i].Count++
			continue
		}
		index[c] = len(table)
		table = append(table, ColorCount{Color: c, Count: 1})
	}

	slices.SortStableFunc(table, func(a, b ColorCount) int {
		return b.Count - a.Count
	})
	return table
}

// topTwo returns the two most frequent colours. The secondary repeats the
// primary when the table holds a single colour.
func topTwo(table []ColorCount) (primary, secondary *string) {
	if len(table) == 0 {
		return nil, nil
	}
	p := table[0].Color
	s := p
	if len(table) > 1 {
		s = table[1].Color
	}
	return &p, &s
}
