// Package types provides shared types used across multiple packages.
// This package has no dependencies on other cookbook packages to avoid import cycles.
package types

// Recipe is one extracted recipe record.
//
// ImageData holds the raw image bytes straight out of the archive; the
// normalization step replaces it with an on-disk reference (ImageRef) so
// large collections don't pin every image in memory at once.
type Recipe struct {
	Name        string   // defaults to "Untitled" when the record omits it
	Category    string   // primary category, resolved by the categorizer
	Categories  []string // categories as declared in the record
	PrepTime    string
	CookTime    string
	Servings    string
	Ingredients []string // newline-split, blanks preserved until assembly
	Directions  []string
	Notes       string
	ImageData   []byte // raw bytes from the archive, cleared after normalization
	ImageRef    string // path to the normalized image, relative to the job work dir
	AnchorID    string // assigned during assembly, unique within one job
}
