package types

// Document is the assembled cookbook tree. It is built once per job,
// serialized to markup for the renderer, and then discarded.
type Document struct {
	Cover    Cover
	TOC      []TOCNode
	Chapters []Chapter
}

// Cover is the title page.
type Cover struct {
	DisplayName string // "from the kitchen of <DisplayName>"
	Year        int
}

// TOCNode is one entry in the global table of contents: either a category
// header or a recipe entry. Exactly one of the two shapes is populated.
type TOCNode struct {
	CategoryHeader string // non-empty for header nodes
	Name           string // recipe entry
	AnchorID       string // recipe entry; page numbers are resolved by the renderer
}

// IsHeader reports whether the node is a category header.
func (n TOCNode) IsHeader() bool { return n.CategoryHeader != "" }

// Chapter groups the consecutive run of recipes sharing a category.
type Chapter struct {
	Category string
	Index    []string // mini-index: recipe names in this chapter, in order
	Cards    []Card
}

// Card is one recipe card.
type Card struct {
	AnchorID    string
	Title       string
	MetaLine    string   // joined prep/cook/servings, or a placeholder
	ImageRef    string   // relative path to the normalized image, empty if none
	Ingredients []string // non-blank lines only
	Directions  []string // non-blank lines only; step numbers restart at 1
	Notes       string
}
