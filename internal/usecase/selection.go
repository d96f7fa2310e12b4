package usecase

// MaxSelection is the most instruments a session may select.
const MaxSelection = 3

// ApplySelection applies a whole-selection replacement event. Ids are
// de-duplicated (first occurrence wins) and non-positive ids dropped. An
// event with more than MaxSelection ids is rejected in full: the current
// selection is returned unchanged with overLimit set.
func ApplySelection(current, incoming []int) (next []int, overLimit bool) {
	seen := make(map[int]struct{}, len(incoming))
	proposed := make([]int, 0, len(incoming))
	for _, id := range incoming {
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		proposed = append(proposed, id)
	}

	if len(proposed) > MaxSelection {
		return append([]int{}, current...), true
	}
	return proposed, false
}
