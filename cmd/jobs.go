package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and manage channel jobs on a running server",
	Long: `Inspect and manage your channel batch jobs on a running TranscriptFlow server.

Available subcommands:
  list    - Show your recent jobs
  watch   - Follow a job until it finishes
  cancel  - Stop a running job after its current video
  delete  - Remove a job and its results
  export  - Download the transcripts of a finished job`,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your recent jobs",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

var jobsWatchCmd = &cobra.Command{
	Use:   "watch <job-id>",
	Short: "Follow a job until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsWatch,
}

var jobsCancelCmd = &cobra.Command{
	Use:   "cancel <job-id>",
	Short: "Cancel a running job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsCancel,
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a job and its results",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsDelete,
}

var jobsExportCmd = &cobra.Command{
	Use:   "export <job-id>",
	Short: "Download the transcripts of a finished job",
	Long: `Download the transcripts of a completed or cancelled job.

Combined mode writes one document with a section per video; individual mode
writes a zip with one file per video.

Example:
  transcriptflow jobs export 6f1c... --format srt --mode individual --out ./exports`,
	Args: cobra.ExactArgs(1),
	RunE: runJobsExport,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd, jobsWatchCmd, jobsCancelCmd, jobsDeleteCmd, jobsExportCmd)
	addClientFlags(jobsCmd)

	jobsListCmd.Flags().Int("limit", 20, "maximum number of jobs")
	jobsListCmd.Flags().Bool("json", false, "print the raw JSON response")

	jobsWatchCmd.Flags().Bool("plain", false, "print progress lines instead of the interactive view")
	jobsWatchCmd.Flags().Duration("interval", 0, "poll interval (default from client.poll_interval)")

	jobsExportCmd.Flags().String("format", "txt", "file format (txt, srt, json)")
	jobsExportCmd.Flags().String("mode", "", "combined or individual (default: the job's format)")
	jobsExportCmd.Flags().StringP("out", "o", "", "file or directory to write (default stdout)")
}

func runJobsList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	resp, err := newAPIClient(cmd).ListJobs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), resp)
	}
	if len(resp.Jobs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no jobs")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tSTATUS\tCHANNEL\tPROGRESS\tCREATED")
	for _, job := range resp.Jobs {
		channel := job.URL
		if job.ChannelInfo != nil && job.ChannelInfo.Name != "" {
			channel = job.ChannelInfo.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
			job.JobID,
			job.Status,
			channel,
			job.Progress.CurrentVideoIndex,
			job.Progress.TotalVideos,
			job.CreatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func runJobsWatch(cmd *cobra.Command, args []string) error {
	plain, _ := cmd.Flags().GetBool("plain")

	job, err := watchJob(cmd.Context(), newAPIClient(cmd), args[0], pollInterval(cmd), cmd.InOrStdin(), cmd.OutOrStdout(), plain)
	if errors.Is(err, errDetached) {
		return nil
	}
	if err != nil {
		return err
	}
	return finishJob(cmd, job, "", "", "")
}

func runJobsCancel(cmd *cobra.Command, args []string) error {
	if err := newAPIClient(cmd).CancelJob(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cancel requested for job %s\n", args[0])
	return nil
}

func runJobsDelete(cmd *cobra.Command, args []string) error {
	if err := newAPIClient(cmd).DeleteJob(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted job %s\n", args[0])
	return nil
}

func runJobsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	mode, _ := cmd.Flags().GetString("mode")
	out, _ := cmd.Flags().GetString("out")

	if _, err := transcript.ParseFormat(format); err != nil {
		return err
	}
	return exportJob(cmd, args[0], out, format, mode)
}
