package matrix

// Combinations expands the groups into their full Cartesian product.
// Group order is preserved, the rightmost group varies fastest, and the
// implicit empty option sorts last within each group. A matrix with no
// groups yields a single empty combination.
func Combinations(groups []FlagGroup) []Combination {
	total := 1
	for _, g := range groups {
		total *= len(g.Options) + 1
	}
	out := make([]Combination, 0, total)

	// Odometer over per-group indices; index len(options) selects the
	// implicit empty option.
	idx := make([]int, len(groups))
	for {
		sel := make(Combination, len(groups))
		for i, g := range groups {
			if idx[i] < len(g.Options) {
				sel[i] = g.Options[idx[i]]
			}
		}
		out = append(out, sel)

		i := len(groups) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] <= len(groups[i].Options) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out
		}
	}
}
