package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"nexusai/internal/export"
	"nexusai/internal/planner"
	"nexusai/internal/queue"
	"nexusai/internal/store"
	"nexusai/internal/types"
)

var (
	jobsLimit        int
	jobsExportFormat string
)

// jobsCmd manages plan execution jobs.
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run and inspect plan execution jobs",
}

var jobsRunCmd = &cobra.Command{
	Use:   "run [instruction]",
	Short: "Plan an instruction and run it on the job queue",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJob,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs, newest first",
	RunE:  listJobs,
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status [id]",
	Short: "Show a job's status and results",
	Args:  cobra.ExactArgs(1),
	RunE:  jobStatus,
}

var jobsExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a job as json, csv, or script",
	Args:  cobra.ExactArgs(1),
	RunE:  exportJob,
}

func init() {
	jobsListCmd.Flags().IntVar(&jobsLimit, "limit", 20, "Maximum jobs to list")
	jobsExportCmd.Flags().StringVarP(&jobsExportFormat, "format", "f", "json", "Export format (json, csv, script)")

	jobsCmd.AddCommand(jobsRunCmd)
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsStatusCmd)
	jobsCmd.AddCommand(jobsExportCmd)
}

func openJobStore() (*store.Store, error) {
	s, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, nil
}

// runJob plans the instruction, executes it on an in-process queue, and
// follows progress until the job reaches a terminal state.
func runJob(cmd *cobra.Command, args []string) error {
	s, err := openJobStore()
	if err != nil {
		return err
	}
	defer s.Close()

	p := planner.New(cfg.Planner.MaxSteps)
	plan, cleaned, err := p.Plan(joinArgs(args))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	q := queue.New(s, cfg.Queue)
	q.Start(ctx)
	defer q.Stop()

	job, err := q.Enqueue(cleaned, plan)
	if err != nil {
		return err
	}
	fmt.Printf("Job %s: %d steps\n", job.ID, len(plan.Steps))

	lastProgress := -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}

		current, err := s.GetJob(job.ID)
		if err != nil || current == nil {
			continue
		}
		if current.Progress != lastProgress {
			lastProgress = current.Progress
			fmt.Printf("  %3d%% %s\n", current.Progress, current.Status)
		}
		switch current.Status {
		case types.JobFinished:
			fmt.Println("Done.")
			return nil
		case types.JobFailed, types.JobCanceled:
			return fmt.Errorf("job %s: %s", current.Status, current.Error)
		}
	}
}

func listJobs(cmd *cobra.Command, args []string) error {
	s, err := openJobStore()
	if err != nil {
		return err
	}
	defer s.Close()

	jobs, err := s.ListRecentJobs(jobsLimit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs.")
		return nil
	}

	for _, job := range jobs {
		fmt.Printf("%s  %-8s  %3d%%  %s  %s\n",
			job.ID, job.Status, job.Progress,
			job.CreatedAt.Format(time.RFC3339), job.Instruction)
	}
	return nil
}

func jobStatus(cmd *cobra.Command, args []string) error {
	s, err := openJobStore()
	if err != nil {
		return err
	}
	defer s.Close()

	job, err := s.GetJob(args[0])
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job %s not found", args[0])
	}

	fmt.Printf("Job %s\n  status: %s\n  progress: %d%%\n  instruction: %s\n",
		job.ID, job.Status, job.Progress, job.Instruction)
	if job.Error != "" {
		fmt.Printf("  error: %s\n", job.Error)
	}
	for _, res := range job.Results {
		fmt.Printf("  step %d %s: %s\n", res.StepID, res.Tool, res.Output)
	}
	return nil
}

func exportJob(cmd *cobra.Command, args []string) error {
	s, err := openJobStore()
	if err != nil {
		return err
	}
	defer s.Close()

	job, err := s.GetJob(args[0])
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job %s not found", args[0])
	}

	var data []byte
	switch jobsExportFormat {
	case "json":
		data, err = export.JSON(*job)
	case "csv":
		data, err = export.CSV(*job)
	case "script":
		data, err = export.Script(*job, time.Now())
	default:
		return fmt.Errorf("unknown export format %q", jobsExportFormat)
	}
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)
	return err
}
