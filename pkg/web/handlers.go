package web

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"podforge/pkg/podcast"
	"podforge/pkg/script"
)

// GenerateRequest is the body of POST /podcast/generate.
type GenerateRequest struct {
	SourceName string `json:"source_name"`
	Style      string `json:"style"`
	Length     string `json:"length"`
}

// JobSummary is the status payload returned to pollers.
type JobSummary struct {
	JobID              string            `json:"job_id"`
	Status             string            `json:"status"`
	Script             []script.Segment  `json:"script,omitempty"`
	ScriptSegmentCount int               `json:"script_segment_count"`
	AudioAvailable     bool              `json:"audio_available"`
	AudioFileRefs      []string          `json:"audio_file_refs,omitempty"`
	Error              *podcast.JobError `json:"error,omitempty"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}

// summarize builds the client view of a job.
func summarize(job *podcast.Job) JobSummary {
	return JobSummary{
		JobID:              job.ID,
		Status:             string(job.Status),
		Script:             job.Script,
		ScriptSegmentCount: len(job.Script),
		AudioAvailable:     job.AudioAvailable(),
		AudioFileRefs:      job.AudioFiles,
		Error:              job.Error,
		CreatedAt:          job.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:          job.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleGenerate accepts a generation request and returns the job id.
// POST /podcast/generate
func (s *Server) handleGenerate(c *fiber.Ctx, principal string) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.SourceName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "source_name is required",
		})
	}

	jobID, err := s.orch.Submit(c.Context(), podcast.SubmitRequest{
		Owner:     principal,
		SourceRef: req.SourceName,
		Style:     script.Style(req.Style),
		Length:    script.Length(req.Length),
	})
	if err != nil {
		if errors.Is(err, podcast.ErrInvalidSource) || errors.Is(err, podcast.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		s.logger.Error("submit failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create job",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id": jobID,
	})
}

// handleStatus returns the job summary for pollers.
// GET /podcast/status/:job_id
func (s *Server) handleStatus(c *fiber.Ctx) error {
	job, err := s.orch.Status(c.Context(), c.Params("job_id"))
	if err != nil {
		if errors.Is(err, podcast.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "job not found",
			})
		}
		s.logger.Error("status lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load job",
		})
	}

	return c.JSON(summarize(job))
}

// handleListJobs returns the caller's jobs, newest first.
// GET /podcast/jobs
func (s *Server) handleListJobs(c *fiber.Ctx, principal string) error {
	jobs, err := s.orch.Jobs(c.Context(), principal)
	if err != nil {
		s.logger.Error("job list failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list jobs",
		})
	}

	summaries := make([]JobSummary, len(jobs))
	for i, job := range jobs {
		summaries[i] = summarize(job)
	}
	return c.JSON(fiber.Map{"jobs": summaries})
}

// handleCancel requests cancellation of a running job.
// POST /podcast/cancel/:job_id
func (s *Server) handleCancel(c *fiber.Ctx, principal string) error {
	jobID := c.Params("job_id")

	job, err := s.orch.Status(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, podcast.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load job",
		})
	}
	if job.Owner != principal {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "access denied",
		})
	}

	if err := s.orch.Cancel(c.Context(), jobID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to cancel job",
		})
	}
	return c.JSON(fiber.Map{"job_id": jobID, "cancel_requested": true})
}

// handleAudio streams one audio artifact to its owner.
// GET /podcast/audio/:job_id/:index
func (s *Server) handleAudio(c *fiber.Ctx, principal string) error {
	jobID := c.Params("job_id")
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "index must be an integer",
		})
	}

	data, contentType, err := s.gateway.Fetch(c.Context(), jobID, index, principal)
	if err != nil {
		switch {
		case errors.Is(err, podcast.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		case errors.Is(err, podcast.ErrJobNotFound),
			errors.Is(err, podcast.ErrNoAudio),
			errors.Is(err, podcast.ErrArtifactNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "audio not available",
			})
		default:
			s.logger.Error("audio fetch failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read audio",
			})
		}
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}
