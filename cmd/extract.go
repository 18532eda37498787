package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract transcripts through a running server",
	Long: `Extract transcripts through a running TranscriptFlow server.

The server URL and token come from --server and --token, or from the
client section of the configuration (TRANSCRIPTFLOW_CLIENT_SERVER,
TRANSCRIPTFLOW_CLIENT_TOKEN).`,
}

var extractVideoCmd = &cobra.Command{
	Use:   "video <video-id|url>",
	Short: "Extract the transcript of one video",
	Long: `Extract the transcript of one video and print it or write it to a file.

Example:
  transcriptflow extract video dQw4w9WgXcQ
  transcriptflow extract video https://youtu.be/dQw4w9WgXcQ --format srt --out talk.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runExtractVideo,
}

var extractChannelCmd = &cobra.Command{
	Use:   "channel <channel-url>",
	Short: "Start a channel batch job and follow its progress",
	Long: `Start a batch extraction of a channel's most recent videos and follow it.

Press c to cancel the job or q to detach and leave it running on the server.
With --out the finished job is exported to a file or directory.

Example:
  transcriptflow extract channel https://www.youtube.com/@fireship --limit 20
  transcriptflow extract channel @fireship --format individual --out ./exports`,
	Args: cobra.ExactArgs(1),
	RunE: runExtractChannel,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.AddCommand(extractVideoCmd)
	extractCmd.AddCommand(extractChannelCmd)
	addClientFlags(extractCmd)

	extractVideoCmd.Flags().String("format", "txt", "output format (txt, srt, json)")
	extractVideoCmd.Flags().StringP("out", "o", "", "write to a file instead of stdout")

	extractChannelCmd.Flags().Int("limit", 0, "number of recent videos (default from the server)")
	extractChannelCmd.Flags().String("format", string(models.OutputCombined), "export layout (combined, individual)")
	extractChannelCmd.Flags().Bool("no-watch", false, "print the job ID and return immediately")
	extractChannelCmd.Flags().Bool("plain", false, "print progress lines instead of the interactive view")
	extractChannelCmd.Flags().Duration("interval", 0, "poll interval (default from client.poll_interval)")
	extractChannelCmd.Flags().StringP("out", "o", "", "export the finished job to this file or directory")
	extractChannelCmd.Flags().String("export-format", "txt", "export file format (txt, srt, json)")
}

func runExtractVideo(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	format, err := transcript.ParseFormat(formatName)
	if err != nil {
		return err
	}

	resp, err := newAPIClient(cmd).GetTranscript(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	title := resp.VideoID
	if resp.Metadata != nil && resp.Metadata.Title != "" {
		title = resp.Metadata.Title
	}
	body, err := transcript.Render(resp.Segments, format, title)
	if err != nil {
		return err
	}

	written, err := writeOutput(cmd.OutOrStdout(), out, resp.VideoID+"."+string(format), []byte(body))
	if err != nil {
		return err
	}
	if written != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d words)\n", written, resp.WordCount)
	}
	return nil
}

func runExtractChannel(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	layout, _ := cmd.Flags().GetString("format")
	noWatch, _ := cmd.Flags().GetBool("no-watch")
	plain, _ := cmd.Flags().GetBool("plain")
	out, _ := cmd.Flags().GetString("out")
	exportFormat, _ := cmd.Flags().GetString("export-format")

	if _, err := models.ParseOutputFormat(layout); err != nil {
		return err
	}
	if _, err := transcript.ParseFormat(exportFormat); err != nil {
		return err
	}

	ctx := cmd.Context()
	c := newAPIClient(cmd)

	started, err := c.CreateChannelJob(ctx, types.ChannelExtractionRequest{URL: args[0], Limit: limit, Format: layout})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "started job %s (limit %d)\n", started.JobID, started.Limit)
	if noWatch {
		fmt.Fprintln(cmd.OutOrStdout(), started.JobID)
		return nil
	}

	job, err := watchJob(ctx, c, started.JobID, pollInterval(cmd), cmd.InOrStdin(), cmd.OutOrStdout(), plain)
	if errors.Is(err, errDetached) {
		fmt.Fprintf(cmd.ErrOrStderr(), "job %s keeps running, follow it with: transcriptflow jobs watch %s\n", started.JobID, started.JobID)
		return nil
	}
	if err != nil {
		return err
	}
	return finishJob(cmd, job, out, exportFormat, layout)
}

// finishJob reports the final state and exports it when out is set
func finishJob(cmd *cobra.Command, job *types.ChannelJobResponse, out, format, mode string) error {
	if job.Status == models.JobStatusError {
		return fmt.Errorf("job %s failed: %s", job.JobID, job.Error)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "job %s %s: %d ok, %d failed\n", job.JobID, job.Status, job.SuccessCount, job.FailedCount)

	if out == "" {
		return nil
	}
	if job.SuccessCount == 0 {
		return fmt.Errorf("job %s has no transcripts to export", job.JobID)
	}
	return exportJob(cmd, job.JobID, out, format, mode)
}

func exportJob(cmd *cobra.Command, jobID, out, format, mode string) error {
	data, name, err := newAPIClient(cmd).Export(cmd.Context(), jobID, format, mode)
	if err != nil {
		return err
	}
	written, err := writeOutput(cmd.OutOrStdout(), out, name, data)
	if err != nil {
		return err
	}
	if written != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", written)
	}
	return nil
}
