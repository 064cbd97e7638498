package extract

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
)

// buildArchive assembles an in-memory zip from name -> raw content pairs.
func buildArchive(t *testing.T, entries map[string][]byte) *zip.Reader {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	return zr
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func recipeJSON(t *testing.T, fields map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal recipe: %v", err)
	}
	return data
}

func TestExtract(t *testing.T) {
	t.Run("gzipped entries", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"Pancakes.paprikarecipe": gzipped(t, recipeJSON(t, map[string]any{
				"name":        "Pancakes",
				"categories":  []string{"Breakfast"},
				"ingredients": "Flour\nMilk",
				"directions":  "Mix\n\nFry",
			})),
		})

		recipes, skipped, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if skipped != 0 {
			t.Errorf("expected 0 skipped, got %d", skipped)
		}
		if len(recipes) != 1 {
			t.Fatalf("expected 1 recipe, got %d", len(recipes))
		}
		r := recipes[0]
		if r.Name != "Pancakes" {
			t.Errorf("expected name Pancakes, got %q", r.Name)
		}
		if len(r.Ingredients) != 2 {
			t.Errorf("expected 2 ingredient lines, got %v", r.Ingredients)
		}
		// Blank lines survive extraction; the assembler drops them.
		if len(r.Directions) != 3 {
			t.Errorf("expected 3 direction lines, got %v", r.Directions)
		}
	})

	t.Run("raw JSON fallback", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"Toast.paprikarecipe": recipeJSON(t, map[string]any{"name": "Toast"}),
		})

		recipes, _, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recipes) != 1 || recipes[0].Name != "Toast" {
			t.Fatalf("expected Toast, got %+v", recipes)
		}
	})

	t.Run("corrupt entry is skipped", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"Good.paprikarecipe": recipeJSON(t, map[string]any{"name": "Good"}),
			"Bad.paprikarecipe":  []byte("{not json"),
		})

		recipes, skipped, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if skipped != 1 {
			t.Errorf("expected 1 skipped, got %d", skipped)
		}
		if len(recipes) != 1 || recipes[0].Name != "Good" {
			t.Fatalf("expected only Good to survive, got %+v", recipes)
		}
	})

	t.Run("type-mismatched record is skipped", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"Good.paprikarecipe": recipeJSON(t, map[string]any{"name": "Good"}),
			"Bad.paprikarecipe":  recipeJSON(t, map[string]any{"name": 42}),
		})

		recipes, skipped, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if skipped != 1 {
			t.Errorf("expected 1 skipped, got %d", skipped)
		}
		if len(recipes) != 1 {
			t.Fatalf("expected 1 recipe, got %d", len(recipes))
		}
	})

	t.Run("no recipe entries", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"readme.txt": []byte("nothing here"),
		})

		_, _, err := New(nil).Extract(zr, nil)
		if !errors.Is(err, ErrArchiveEmpty) {
			t.Fatalf("expected ErrArchiveEmpty, got %v", err)
		}
	})

	t.Run("all entries corrupt", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"a.paprikarecipe": []byte("junk"),
			"b.paprikarecipe": []byte("more junk"),
		})

		_, skipped, err := New(nil).Extract(zr, nil)
		if !errors.Is(err, ErrNoRecipesFound) {
			t.Fatalf("expected ErrNoRecipesFound, got %v", err)
		}
		if skipped != 2 {
			t.Errorf("expected 2 skipped, got %d", skipped)
		}
	})

	t.Run("missing name defaults to Untitled", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"x.paprikarecipe": recipeJSON(t, map[string]any{"servings": "4"}),
		})

		recipes, _, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if recipes[0].Name != "Untitled" {
			t.Errorf("expected Untitled, got %q", recipes[0].Name)
		}
	})

	t.Run("progress callback reports every entry", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"a.paprikarecipe": recipeJSON(t, map[string]any{"name": "A"}),
			"b.paprikarecipe": recipeJSON(t, map[string]any{"name": "B"}),
			"c.paprikarecipe": []byte("broken"),
		})

		var calls []int
		_, _, err := New(nil).Extract(zr, func(done, total int) {
			if total != 3 {
				t.Errorf("expected total 3, got %d", total)
			}
			calls = append(calls, done)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(calls) != 3 || calls[2] != 3 {
			t.Errorf("expected callbacks 1..3, got %v", calls)
		}
	})
}

func TestResolveImage(t *testing.T) {
	imgBytes := []byte{0xff, 0xd8, 0xff, 0xaa, 0xbb}

	t.Run("inline base64 photo_data", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"r.paprikarecipe": recipeJSON(t, map[string]any{
				"name":       "Cake",
				"photo_data": base64.StdEncoding.EncodeToString(imgBytes),
			}),
		})

		recipes, _, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(recipes[0].ImageData, imgBytes) {
			t.Errorf("expected inline image bytes, got %v", recipes[0].ImageData)
		}
	})

	t.Run("alternate photoData spelling", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"r.paprikarecipe": recipeJSON(t, map[string]any{
				"name":      "Cake",
				"photoData": base64.StdEncoding.EncodeToString(imgBytes),
			}),
		})

		recipes, _, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(recipes[0].ImageData, imgBytes) {
			t.Errorf("expected inline image bytes under photoData")
		}
	})

	t.Run("inline wins over referenced member", func(t *testing.T) {
		other := []byte("member bytes")
		zr := buildArchive(t, map[string][]byte{
			"r.paprikarecipe": recipeJSON(t, map[string]any{
				"name":       "Cake",
				"photo":      "cake.jpg",
				"photo_data": base64.StdEncoding.EncodeToString(imgBytes),
			}),
			"photos/cake.jpg": other,
		})

		recipes, _, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(recipes[0].ImageData, imgBytes) {
			t.Errorf("inline payload should win over archive member")
		}
	})

	t.Run("referenced member by basename suffix", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"r.paprikarecipe": recipeJSON(t, map[string]any{
				"name":  "Cake",
				"photo": "some/dir/cake.jpg",
			}),
			"photos/cake.jpg": imgBytes,
		})

		recipes, _, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(recipes[0].ImageData, imgBytes) {
			t.Errorf("expected member bytes resolved by suffix match")
		}
	})

	t.Run("undecodable base64 leaves no image", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"r.paprikarecipe": recipeJSON(t, map[string]any{
				"name":       "Cake",
				"photo_data": "!!!not-base64!!!",
			}),
		})

		recipes, _, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("record itself must survive: %v", err)
		}
		if recipes[0].ImageData != nil {
			t.Errorf("expected nil image data, got %d bytes", len(recipes[0].ImageData))
		}
	})

	t.Run("missing referenced member leaves no image", func(t *testing.T) {
		zr := buildArchive(t, map[string][]byte{
			"r.paprikarecipe": recipeJSON(t, map[string]any{
				"name":  "Cake",
				"photo": "gone.jpg",
			}),
		})

		recipes, _, err := New(nil).Extract(zr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if recipes[0].ImageData != nil {
			t.Errorf("expected nil image data for missing member")
		}
	})
}

func TestDecodePayload(t *testing.T) {
	plain := []byte(`{"name":"x"}`)

	if got := decodePayload(plain); !bytes.Equal(got, plain) {
		t.Errorf("raw payload should pass through unchanged")
	}
	if got := decodePayload(gzipped(t, plain)); !bytes.Equal(got, plain) {
		t.Errorf("gzip payload should decompress")
	}
}

func TestSplitLines(t *testing.T) {
	if got := splitLines(""); got != nil {
		t.Errorf("empty input should yield nil, got %v", got)
	}

	got := splitLines("a\r\nb\n\nc")
	want := []string{"a", "b", "", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
