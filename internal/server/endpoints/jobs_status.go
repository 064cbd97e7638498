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

// JobStatusResponse is the progress snapshot returned while polling a job.
type JobStatusResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`
}

// JobStatusEndpoint handles GET /api/jobs/{job_id}.
type JobStatusEndpoint struct{}

var _ api.Endpoint = (*JobStatusEndpoint)(nil)

func (e *JobStatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/jobs/{job_id}", e.handler
}

func (e *JobStatusEndpoint) RequiresInit() bool { return true }

func (e *JobStatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")

	controller := svcctx.ControllerFrom(r.Context())
	if controller == nil {
		writeError(w, http.StatusServiceUnavailable, "job controller not initialized")
		return
	}

	job, err := controller.Status(jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, JobStatusResponse{
		ID:       job.ID,
		Status:   string(job.Status),
		Progress: job.Progress,
		Message:  job.Message,
		Error:    job.Error,
	})
}

func (e *JobStatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job_id>",
		Short: "Poll the status of a cookbook job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp JobStatusResponse
			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/jobs/%s", args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
