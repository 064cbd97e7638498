// Package render turns assembled cookbook markup into the downloadable PDF
// artifact. The document pipeline treats the renderer as an external
// collaborator behind the Renderer interface; the default implementation
// prints through headless Chromium.
package render

import "context"

// Renderer renders an HTML file to a PDF file.
//
// A non-nil error means the artifact was not produced; the error message is
// surfaced verbatim as the job's failure reason.
type Renderer interface {
	Render(ctx context.Context, htmlPath, pdfPath string) error
}
