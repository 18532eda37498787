package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/client"
)

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	watchMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	watchErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	watchOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	watchPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// jobClient is the part of the API client the watcher needs
type jobClient interface {
	GetJob(ctx context.Context, jobID string) (*types.ChannelJobResponse, error)
	CancelJob(ctx context.Context, jobID string) error
}

type (
	jobMsg        struct{ job *types.ChannelJobResponse }
	pollErrMsg    struct{ err error }
	pollTickMsg   struct{}
	cancelSentMsg struct{ err error }
)

// watchModel polls one channel job and renders its progress
type watchModel struct {
	ctx      context.Context
	client   jobClient
	jobID    string
	interval time.Duration

	spinner spinner.Model
	bar     progress.Model

	job        *types.ChannelJobResponse
	missed     int
	cancelSent bool
	notice     string
	err        error
	detached   bool
}

func newWatchModel(ctx context.Context, c jobClient, jobID string, interval time.Duration) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = watchTitleStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return watchModel{
		ctx:      ctx,
		client:   c,
		jobID:    jobID,
		interval: interval,
		spinner:  s,
		bar:      bar,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

func (m watchModel) poll() tea.Cmd {
	return func() tea.Msg {
		job, err := m.client.GetJob(m.ctx, m.jobID)
		if err != nil {
			return pollErrMsg{err: err}
		}
		return jobMsg{job: job}
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return pollTickMsg{} })
}

func (m watchModel) sendCancel() tea.Cmd {
	return func() tea.Msg {
		return cancelSentMsg{err: m.client.CancelJob(m.ctx, m.jobID)}
	}
}

func (m watchModel) finished() bool {
	return m.job != nil && m.job.Status.IsTerminal()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-8, 10), 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.detached = !m.finished()
			return m, tea.Quit
		case "c":
			if m.cancelSent || m.finished() {
				return m, nil
			}
			m.cancelSent = true
			m.notice = "cancelling..."
			return m, m.sendCancel()
		}
		return m, nil

	case jobMsg:
		m.job = msg.job
		m.missed = 0
		if m.finished() {
			return m, tea.Quit
		}
		return m, m.tick()

	case pollErrMsg:
		if client.IsTransient(msg.err) && m.missed+1 < client.MaxMissedPolls {
			m.missed++
			m.notice = fmt.Sprintf("server unreachable, retrying (%d/%d)", m.missed, client.MaxMissedPolls)
			return m, m.tick()
		}
		m.err = msg.err
		return m, tea.Quit

	case pollTickMsg:
		return m, m.poll()

	case cancelSentMsg:
		if msg.err != nil {
			m.cancelSent = false
			m.notice = "cancel failed: " + msg.err.Error()
			return m, nil
		}
		m.notice = "cancel requested, finishing the current video"
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(watchTitleStyle.Render("Channel job " + m.jobID))
	b.WriteString("\n")

	if m.job == nil {
		b.WriteString(m.spinner.View() + " waiting for the server...")
		if m.notice != "" {
			b.WriteString("\n" + watchMutedStyle.Render(m.notice))
		}
		return watchPanelStyle.Render(b.String()) + "\n"
	}

	job := m.job
	if job.ChannelInfo != nil && job.ChannelInfo.Name != "" {
		b.WriteString(job.ChannelInfo.Name + "\n")
	}

	status := statusLabel(job.Status)
	switch {
	case job.Status == models.JobStatusCompleted:
		status = watchOKStyle.Render(status)
	case job.Status == models.JobStatusError || job.Status == models.JobStatusCancelled:
		status = watchErrorStyle.Render(status)
	default:
		status = m.spinner.View() + " " + status
	}
	b.WriteString(status + "\n\n")

	b.WriteString(m.bar.ViewAs(fraction(job.ProcessedVideos, job.TotalVideos)) + "\n")
	b.WriteString(fmt.Sprintf("%d/%d videos, %d ok, %d failed\n",
		job.ProcessedVideos, job.TotalVideos, job.SuccessCount, job.FailedCount))
	if job.CurrentVideoTitle != "" && !m.finished() {
		b.WriteString(watchMutedStyle.Render("now: "+job.CurrentVideoTitle) + "\n")
	}
	if job.Error != "" {
		b.WriteString(watchErrorStyle.Render(job.Error) + "\n")
	}
	if m.notice != "" {
		b.WriteString(watchMutedStyle.Render(m.notice) + "\n")
	}
	if !m.finished() {
		b.WriteString("\n" + watchMutedStyle.Render("c cancel job  q detach"))
	}
	return watchPanelStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func statusLabel(status models.JobStatus) string {
	switch status {
	case models.JobStatusIdle:
		return "queued"
	case models.JobStatusFetchingVideos:
		return "fetching channel videos"
	case models.JobStatusProcessing:
		return "extracting transcripts"
	case models.JobStatusCompleted:
		return "completed"
	case models.JobStatusCancelled:
		return "cancelled"
	case models.JobStatusError:
		return "failed"
	}
	return string(status)
}

func fraction(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// errDetached is returned when the user leaves the watcher of a running job
var errDetached = errors.New("detached from running job")

// watchJob follows a job until it finishes, with the interactive view when out
// is a terminal and plain progress lines otherwise
func watchJob(ctx context.Context, c *client.Client, jobID string, interval time.Duration, in io.Reader, out io.Writer, plain bool) (*types.ChannelJobResponse, error) {
	if plain || !isTerminal(out) {
		return watchPlain(ctx, c, jobID, interval, out)
	}

	p := tea.NewProgram(newWatchModel(ctx, c, jobID, interval),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(watchModel)
	if !ok {
		return nil, fmt.Errorf("unexpected watcher state %T", final)
	}
	switch {
	case m.err != nil:
		return m.job, m.err
	case m.detached:
		return m.job, errDetached
	}
	return m.job, nil
}

// watchPlain prints one line whenever the visible progress changes
func watchPlain(ctx context.Context, c *client.Client, jobID string, interval time.Duration, out io.Writer) (*types.ChannelJobResponse, error) {
	var last string
	return c.Watch(ctx, jobID, interval, func(job *types.ChannelJobResponse) {
		line := fmt.Sprintf("[%s] %d/%d videos, %d ok, %d failed",
			statusLabel(job.Status), job.ProcessedVideos, job.TotalVideos, job.SuccessCount, job.FailedCount)
		if job.CurrentVideoTitle != "" && !job.Status.IsTerminal() {
			line += " - " + job.CurrentVideoTitle
		}
		if job.Error != "" {
			line += " - " + job.Error
		}
		if line != last {
			fmt.Fprintln(out, line)
			last = line
		}
	})
}
