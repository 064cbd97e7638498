// Package categorize resolves a recipe's primary category and its position
// in the cookbook's chapter order.
package categorize

// Fallback is assigned when a record declares no categories at all.
const Fallback = "Uncategorized"

// Primary picks the single category that governs a recipe's chapter
// placement. The first entry of the priority list found among the declared
// categories wins. If none matches but the record declares at least one
// category, the first declared category is used verbatim. Otherwise the
// fallback label is returned.
//
// Primary is a pure function; it never depends on other records.
func Primary(declared, priority []string) string {
	for _, p := range priority {
		for _, d := range declared {
			if d == p {
				return p
			}
		}
	}
	if len(declared) > 0 {
		return declared[0]
	}
	return Fallback
}

// PriorityIndex returns the sort rank of a category: its index in the
// priority list, len(priority) for categories not listed, and one past
// that for the fallback label. Unlisted categories therefore sort after
// every priority category (alphabetical among themselves) and the
// fallback chapter always comes last.
func PriorityIndex(category string, priority []string) int {
	for i, p := range priority {
		if p == category {
			return i
		}
	}
	if category == Fallback {
		return len(priority) + 1
	}
	return len(priority)
}
