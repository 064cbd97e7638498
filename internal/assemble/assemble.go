// Package assemble turns a set of normalized, categorized recipes into the
// cookbook document tree: cover, global table of contents, and chapters of
// recipe cards.
//
// The sort performed here is the single source of truth for document
// order. The TOC and the chapter sequence are both emitted from the same
// sorted walk and can never diverge.
package assemble

import (
	"sort"
	"strings"
	"time"

	"github.com/jackzampolin/cookbook/internal/categorize"
	"github.com/jackzampolin/cookbook/internal/types"
)

// Assemble sorts the recipes, assigns anchors, and builds the document
// tree. The recipes slice is sorted in place.
func Assemble(recipes []types.Recipe, displayName string, priority []string) *types.Document {
	sortRecipes(recipes, priority)

	// Anchors are assigned only after the final order is fixed, in the
	// same pass that builds the TOC.
	anchors := newAnchorSet()
	doc := &types.Document{
		Cover: types.Cover{
			DisplayName: displayName,
			Year:        time.Now().Year(),
		},
	}

	prevCategory := ""
	for i := range recipes {
		r := &recipes[i]
		r.AnchorID = anchors.assign(r.Name)

		if r.Category != prevCategory {
			doc.TOC = append(doc.TOC, types.TOCNode{CategoryHeader: r.Category})
			doc.Chapters = append(doc.Chapters, types.Chapter{Category: r.Category})
			prevCategory = r.Category
		}
		doc.TOC = append(doc.TOC, types.TOCNode{Name: r.Name, AnchorID: r.AnchorID})

		ch := &doc.Chapters[len(doc.Chapters)-1]
		ch.Index = append(ch.Index, r.Name)
		ch.Cards = append(ch.Cards, buildCard(r))
	}

	return doc
}

// sortRecipes orders recipes by (priority index, name) for priority
// categories and by (category, name) after them, so priority chapters come
// first in declared order and everything else follows alphabetically.
// The sort is stable per the ordering guarantees on repeated runs.
func sortRecipes(recipes []types.Recipe, priority []string) {
	sort.SliceStable(recipes, func(i, j int) bool {
		a, b := &recipes[i], &recipes[j]
		ia := categorize.PriorityIndex(a.Category, priority)
		ib := categorize.PriorityIndex(b.Category, priority)
		if ia != ib {
			return ia < ib
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
}

// buildCard flattens one recipe into its card: metadata line, non-blank
// ingredient and direction lines, optional image and notes.
func buildCard(r *types.Recipe) types.Card {
	return types.Card{
		AnchorID:    r.AnchorID,
		Title:       r.Name,
		MetaLine:    metaLine(r),
		ImageRef:    r.ImageRef,
		Ingredients: dropBlank(r.Ingredients),
		Directions:  dropBlank(r.Directions),
		Notes:       r.Notes,
	}
}

// metaLine joins the non-empty timing fields. An empty result means the
// markup layer substitutes a placeholder.
func metaLine(r *types.Recipe) string {
	var parts []string
	if r.PrepTime != "" {
		parts = append(parts, "Prep: "+r.PrepTime)
	}
	if r.CookTime != "" {
		parts = append(parts, "Cook: "+r.CookTime)
	}
	if r.Servings != "" {
		parts = append(parts, "Serv.: "+r.Servings)
	}
	return strings.Join(parts, " • ")
}

func dropBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
