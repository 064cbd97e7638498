package render

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// validatePDF sanity-checks the printed artifact before the job is marked
// complete. Chromium occasionally emits a truncated stream when a tab dies
// mid-print; pdfcpu refuses to parse those.
func validatePDF(path string) error {
	n, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("artifact failed validation: %w", err)
	}
	if n < 1 {
		return fmt.Errorf("artifact has no pages")
	}
	return nil
}
