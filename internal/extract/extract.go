// Package extract reads recipe archives and decodes their entries into
// normalized recipe records.
//
// An archive is a zip container whose entries of interest end in
// RecipeExt. Each such entry holds UTF-8 JSON, usually gzip-compressed but
// sometimes raw. A single corrupt entry never fails the archive: it is
// skipped, counted, and extraction continues.
package extract

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/jackzampolin/cookbook/internal/types"
)

// RecipeExt is the archive entry suffix that marks a recipe record.
const RecipeExt = ".paprikarecipe"

var (
	// ErrArchiveEmpty means the archive was readable but contained no
	// recipe entries at all.
	ErrArchiveEmpty = errors.New("no recipe entries found in archive")

	// ErrNoRecipesFound means every recipe entry failed to decode.
	ErrNoRecipesFound = errors.New("no recipes could be extracted from archive")
)

// record mirrors the on-disk JSON payload of one recipe entry.
type record struct {
	Name         string   `json:"name"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	Servings     string   `json:"servings"`
	Ingredients  string   `json:"ingredients"`
	Directions   string   `json:"directions"`
	Notes        string   `json:"notes"`
	Categories   []string `json:"categories"`
	Photo        string   `json:"photo"`
	PhotoData    string   `json:"photo_data"`
	PhotoDataAlt string   `json:"photoData"`
}

// Extractor decodes recipe archives.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With("component", "extract")}
}

// Extract reads every recipe entry from the archive and returns the
// surviving records plus the number of skipped entries. The progress
// callback, if non-nil, is invoked after each entry with (done, total).
func (e *Extractor) Extract(zr *zip.Reader, progress func(done, total int)) ([]types.Recipe, int, error) {
	var entries []*zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, RecipeExt) {
			entries = append(entries, f)
		}
	}
	if len(entries) == 0 {
		return nil, 0, ErrArchiveEmpty
	}

	recipes := make([]types.Recipe, 0, len(entries))
	skipped := 0
	for i, f := range entries {
		r, err := e.extractOne(zr, f)
		if err != nil {
			e.logger.Warn("skipping recipe entry", "entry", f.Name, "error", err)
			skipped++
		} else {
			recipes = append(recipes, r)
		}
		if progress != nil {
			progress(i+1, len(entries))
		}
	}

	if len(recipes) == 0 {
		return nil, skipped, ErrNoRecipesFound
	}
	return recipes, skipped, nil
}

// extractOne decodes a single archive entry into a recipe record.
func (e *Extractor) extractOne(zr *zip.Reader, f *zip.File) (types.Recipe, error) {
	raw, err := readMember(f)
	if err != nil {
		return types.Recipe{}, fmt.Errorf("read entry: %w", err)
	}

	payload := decodePayload(raw)

	// Validate shape before committing to the typed decode. The schema is
	// lenient; it only rejects entries whose fields carry the wrong type.
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return types.Recipe{}, fmt.Errorf("parse JSON: %w", err)
	}
	if err := compiledRecipeSchema.Validate(doc); err != nil {
		return types.Recipe{}, fmt.Errorf("validate record: %w", err)
	}

	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return types.Recipe{}, fmt.Errorf("decode record: %w", err)
	}

	name := rec.Name
	if name == "" {
		name = "Untitled"
	}

	recipe := types.Recipe{
		Name:        name,
		Categories:  rec.Categories,
		PrepTime:    rec.PrepTime,
		CookTime:    rec.CookTime,
		Servings:    rec.Servings,
		Ingredients: splitLines(rec.Ingredients),
		Directions:  splitLines(rec.Directions),
		Notes:       rec.Notes,
	}
	recipe.ImageData = e.resolveImage(zr, &rec, f.Name)

	return recipe, nil
}

// resolveImage finds the record's image bytes, preferring the inline base64
// payload (under either field spelling) and falling back to a referenced
// archive member. Returns nil when the record has no usable image.
func (e *Extractor) resolveImage(zr *zip.Reader, rec *record, entryName string) []byte {
	b64 := rec.PhotoData
	if b64 == "" {
		b64 = rec.PhotoDataAlt
	}
	if b64 != "" {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			e.logger.Warn("undecodable inline image", "entry", entryName, "error", err)
			return nil
		}
		return data
	}

	if rec.Photo == "" {
		return nil
	}
	target := path.Base(rec.Photo)
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, target) {
			data, err := readMember(f)
			if err != nil {
				e.logger.Warn("unreadable image member", "entry", entryName, "member", f.Name, "error", err)
				return nil
			}
			return data
		}
	}
	return nil
}

// decodePayload decompresses a gzip-wrapped payload. When the bytes are not
// gzip, the raw bytes are used as-is — exactly one fallback, no further
// attempts.
func decodePayload(raw []byte) []byte {
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return raw
	}
	defer gz.Close()
	decoded, err := io.ReadAll(gz)
	if err != nil {
		return raw
	}
	return decoded
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// splitLines splits newline-delimited text, tolerating CRLF. Blank lines
// are kept; the assembler drops them so step numbering counts only real
// lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
