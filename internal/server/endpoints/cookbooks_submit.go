package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/cookbook/internal/api"
	"github.com/jackzampolin/cookbook/internal/jobs"
	"github.com/jackzampolin/cookbook/internal/svcctx"
)

// DefaultDisplayName is used when the submitter leaves the cover name
// blank.
const DefaultDisplayName = "A Food Lover"

// SubmitResponse is returned from a cookbook submission.
type SubmitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// SubmitEndpoint handles POST /api/cookbooks with a multipart archive
// upload. It registers the job and returns immediately; the pipeline runs
// in the background.
type SubmitEndpoint struct{}

var _ api.Endpoint = (*SubmitEndpoint)(nil)

func (e *SubmitEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/cookbooks", e.handler
}

func (e *SubmitEndpoint) RequiresInit() bool { return true }

func (e *SubmitEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form with 64MB max memory; larger archives spill to
	// temp files.
	const maxMemory = 64 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	displayName := r.FormValue("name")
	if displayName == "" {
		displayName = DefaultDisplayName
	}

	controller := svcctx.ControllerFrom(r.Context())
	if controller == nil {
		writeError(w, http.StatusServiceUnavailable, "job controller not initialized")
		return
	}

	jobID, err := controller.Submit(file, displayName)
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, "server busy, try again later")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("submit failed: %v", err))
		return
	}

	writeJSON(w, http.StatusAccepted, SubmitResponse{
		JobID:  jobID,
		Status: string(jobs.StatusQueued),
	})
}

func (e *SubmitEndpoint) Command(_ func() string) *cobra.Command {
	// No CLI command for file upload - submit through the web form or curl.
	return nil
}
