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

// JobResultEndpoint handles GET /api/jobs/{job_id}/result and streams the
// finished PDF artifact.
type JobResultEndpoint struct{}

var _ api.Endpoint = (*JobResultEndpoint)(nil)

func (e *JobResultEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/jobs/{job_id}/result", e.handler
}

func (e *JobResultEndpoint) RequiresInit() bool { return true }

func (e *JobResultEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")

	controller := svcctx.ControllerFrom(r.Context())
	if controller == nil {
		writeError(w, http.StatusServiceUnavailable, "job controller not initialized")
		return
	}

	job, err := controller.Result(jobID)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrJobNotFound):
			writeError(w, http.StatusNotFound, "job not found")
		case errors.Is(err, jobs.ErrJobNotReady):
			writeError(w, http.StatusConflict, "job not complete")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	filename := fmt.Sprintf("Cookbook_%s.pdf", shortID(job.ID))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, job.ArtifactPath)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (e *JobResultEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "result <job_id>",
		Short: "Download a finished cookbook PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := outPath
			if dest == "" {
				dest = fmt.Sprintf("Cookbook_%s.pdf", shortID(args[0]))
			}
			client := api.NewClient(getServerURL())
			if err := client.Download(cmd.Context(), fmt.Sprintf("/api/jobs/%s/result", args[0]), dest); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination path for the PDF")
	return cmd
}
