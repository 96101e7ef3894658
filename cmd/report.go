package cmd

import (
	"fmt"
	"strings"

	"mod-manifest-resolver/logger"
	"mod-manifest-resolver/resolver"
	"mod-manifest-resolver/ui"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Browse the outcome of a load pass interactively",
	Long:  `Runs a load pass and opens a TUI listing every mod with its status and the reason it was not loaded.`,
	Run: func(_ *cobra.Command, _ []string) {
		runReport()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

// ReportModel represents the state of the report TUI
type ReportModel struct {
	spinner       spinner.Model
	resolve       func() (*resolver.Plan, error)
	plan          *resolver.Plan
	modsDir       string
	selectedIndex int
	showDetail    bool
	onlyProblems  bool
	loading       bool
	error         string
	width         int
	height        int
}

func newReportModel(modsDir string, resolve func() (*resolver.Plan, error)) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		spinner: s,
		resolve: resolve,
		modsDir: modsDir,
		loading: true,
		width:   80,
		height:  24,
	}
}

// Message types
type planLoadedMsg struct {
	plan *resolver.Plan
}

type errorMsg string

func (m ReportModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadPlan(),
	)
}

func (m ReportModel) loadPlan() tea.Cmd {
	return func() tea.Msg {
		plan, err := m.resolve()
		if err != nil {
			logger.Log.Errorw("Failed to resolve mods", zap.Error(err))
			return errorMsg(fmt.Sprintf("Failed to resolve mods: %v", err))
		}
		return planLoadedMsg{plan: plan}
	}
}

// Update handles messages
func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case planLoadedMsg:
		m.plan = msg.plan
		m.loading = false
		m.error = ""
		m.clampSelection()
	case errorMsg:
		m.error = string(msg)
		m.loading = false
	}
	return m, nil
}

func (m ReportModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "down", "j":
		if m.selectedIndex < len(m.visibleOutcomes())-1 {
			m.selectedIndex++
		}
	case "enter":
		m.showDetail = !m.showDetail
	case "p":
		m.onlyProblems = !m.onlyProblems
		m.clampSelection()
	case "r":
		if !m.loading {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadPlan())
		}
	}
	return m, nil
}

// visibleOutcomes returns the outcomes shown under the current filter.
func (m ReportModel) visibleOutcomes() []resolver.Outcome {
	if m.plan == nil {
		return nil
	}
	if !m.onlyProblems {
		return m.plan.Outcomes
	}
	var out []resolver.Outcome
	for _, o := range m.plan.Outcomes {
		if o.Status == resolver.StatusFailed || (o.Status == resolver.StatusRejected && !o.Quiet) || len(o.Warnings) > 0 {
			out = append(out, o)
		}
	}
	return out
}

func (m *ReportModel) clampSelection() {
	n := len(m.visibleOutcomes())
	if m.selectedIndex >= n {
		m.selectedIndex = n - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
}

// View renders the UI
func (m ReportModel) View() string {
	if m.loading {
		loadingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
		return fmt.Sprintf("\n %s %s\n", m.spinner.View(), loadingStyle.Render("Resolving mods..."))
	}

	if m.error != "" {
		return fmt.Sprintf("Error: %s\n", m.error)
	}

	outcomes := m.visibleOutcomes()
	if len(m.plan.Outcomes) == 0 {
		return fmt.Sprintf("No mods found in %s.\n", m.modsDir)
	}

	var b strings.Builder
	b.WriteString(renderSummary(m.plan))
	b.WriteString("\n\n")
	b.WriteString(renderReportHeader())
	b.WriteString("\n")
	for i, o := range outcomes {
		b.WriteString(m.renderOutcomeRow(i, o))
		b.WriteString("\n")
	}
	if len(outcomes) == 0 {
		b.WriteString("  Nothing to show: every mod loaded cleanly.\n")
	}

	if m.showDetail && len(outcomes) > 0 {
		b.WriteString("\n")
		b.WriteString(renderDetail(outcomes[m.selectedIndex]))
	}

	b.WriteString("\n" + renderReportFooter())
	return b.String()
}

func renderSummary(plan *resolver.Plan) string {
	accepted, rejected, failed := plan.Counts()
	return lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Host %s", hostLabel(plan.Host.Version))) +
		fmt.Sprintf("  %s  %s  %s",
			ui.Colorize(fmt.Sprintf("%d accepted", accepted), ui.ColorAccepted),
			ui.Colorize(fmt.Sprintf("%d rejected", rejected), ui.ColorRejected),
			ui.Colorize(fmt.Sprintf("%d failed", failed), ui.ColorFailed),
		)
}

func renderReportHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	return headerStyle.Render(fmt.Sprintf("%-4s %-32s %-10s %s", "#", "Mod", "Status", "Reason"))
}

func renderReportFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	return footerStyle.Render("↑/k: up  ↓/j: down  enter: details  p: problems only  r: re-run  q: quit")
}

func (m ReportModel) renderOutcomeRow(index int, o resolver.Outcome) string {
	rowStyle := lipgloss.NewStyle().Padding(0, 1)
	if index == m.selectedIndex {
		rowStyle = rowStyle.
			Background(lipgloss.Color("8")).
			Bold(true)
	}

	name := o.Name
	if name == "" {
		name = o.Directory
	}
	// Pad status before applying color to maintain column alignment
	paddedStatus := fmt.Sprintf("%-10s", o.Status)
	coloredStatus := ui.Colorize(paddedStatus, ui.StatusColor(string(o.Status), o.Quiet))

	reasonWidth := max(m.width-52, 10)
	row := fmt.Sprintf("%-4d %-32s %s %s",
		index+1,
		truncate(name, 32),
		coloredStatus,
		truncate(o.Reason, reasonWidth),
	)
	return rowStyle.Render(row)
}

func renderDetail(o resolver.Outcome) string {
	var b strings.Builder
	labelStyle := lipgloss.NewStyle().Bold(true)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Directory:"), o.Directory)
	if o.Reason != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Reason:"), o.Reason)
	}
	if o.Quiet {
		fmt.Fprintf(&b, "%s\n", ui.Colorize("The mod ignores load failures; this is expected.", ui.ColorQuiet))
	}
	for _, w := range o.Warnings {
		fmt.Fprintf(&b, "%s %s\n", ui.Colorize("Warning:", ui.ColorRejected), w)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}

func runReport() {
	cfg := bootstrap(configDir)

	m := newReportModel(cfg.ModsDir, func() (*resolver.Plan, error) {
		return runPass(cfg)
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Fatalw("Failed to run report", zap.Error(err))
	}
}
