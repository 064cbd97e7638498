package extract

import "github.com/santhosh-tekuri/jsonschema/v5"

// recipeSchema is deliberately lenient: every field is optional because the
// export format is free-form, but a present field must carry the expected
// type. Records that fail this check are skipped, not fatal.
const recipeSchema = `{
	"type": "object",
	"properties": {
		"name":       {"type": "string"},
		"prep_time":  {"type": "string"},
		"cook_time":  {"type": "string"},
		"servings":   {"type": "string"},
		"ingredients": {"type": ["string", "null"]},
		"directions":  {"type": ["string", "null"]},
		"notes":      {"type": ["string", "null"]},
		"categories": {"type": "array", "items": {"type": "string"}},
		"photo":      {"type": ["string", "null"]},
		"photo_data": {"type": ["string", "null"]},
		"photoData":  {"type": ["string", "null"]}
	}
}`

var compiledRecipeSchema = jsonschema.MustCompileString("recipe.schema.json", recipeSchema)
