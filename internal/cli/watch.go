package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/world"
)

// watchCommand creates the "watch" command.
func (c *CLI) watchCommand() *cobra.Command {
	var tick time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow connections live in the terminal",
		Long: `Show connections in a live table. Expired connections are swept and
changes from other processes sharing the store appear as they happen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tick <= 0 {
				return zerrors.New(zerrors.ErrCodeInvalidInput, "tick must be positive")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			e, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			// Info lines would tear the full-screen table.
			if c.Logger.GetLevel() < log.WarnLevel {
				c.Logger.SetLevel(log.WarnLevel)
			}

			runErr := make(chan error, 1)
			go func() { runErr <- e.world.Run(ctx, tick) }()

			p := tea.NewProgram(newWatchModel(e.world, tick), tea.WithContext(ctx), tea.WithAltScreen())
			_, err = p.Run()
			cancel()
			if rerr := <-runErr; err == nil {
				err = rerr
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&tick, "tick", time.Second, "refresh interval")

	return cmd
}

// =============================================================================
// watchModel - Live connection table
// =============================================================================

type tickMsg time.Time

type watchKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Sort key.Binding
	Quit key.Binding
}

var watchKeys = watchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "re-sort"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Sort, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// watchModel is the bubbletea model behind "zonelink watch".
type watchModel struct {
	world  *world.World
	tick   time.Duration
	help   help.Model
	now    time.Time
	snap   graph.Snapshot
	edges  []graph.Edge
	cursor int
	offset int
	height int
	status string
}

func newWatchModel(w *world.World, tick time.Duration) watchModel {
	m := watchModel{world: w, tick: tick, help: help.New(), height: 15}
	m.refresh(time.Now())
	return m
}

func (m watchModel) Init() tea.Cmd {
	return m.next()
}

func (m watchModel) next() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// refresh sweeps and re-reads the world. The cursor is clamped to the new
// edge list.
func (m *watchModel) refresh(now time.Time) {
	m.now = now
	if _, err := m.world.Sweep(context.Background(), now); err != nil {
		m.status = "sweep failed: " + err.Error()
	}
	m.snap = m.world.Snapshot()
	m.edges = m.world.Edges()
	sortByExpiry(m.edges)

	m.cursor = max(0, min(m.cursor, len(m.edges)-1))
	m.offset = max(0, min(m.offset, m.cursor))
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh(time.Time(msg))
		return m, m.next()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, watchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case key.Matches(msg, watchKeys.Down):
			if m.cursor < len(m.edges)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case key.Matches(msg, watchKeys.Sort):
			m.world.SortAll(context.Background())
			m.status = "re-sorted"
			m.refresh(time.Now())
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.height = max(msg.Height-8, 5)
		m.refresh(m.now)
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Zonelink"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.now.Format("15:04:05")))
	b.WriteString("\n")
	b.WriteString(m.help.View(watchKeys))
	b.WriteString("\n\n")

	if len(m.edges) == 0 {
		b.WriteString(StyleDim.Render("  no connections"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.offset+m.height, len(m.edges))
	visible := append([]graph.Edge(nil), m.edges[m.offset:end]...)
	b.WriteString(edgeTable(visible, m.now, m.cursor-m.offset))
	b.WriteString("\n")

	printStats(&b, m.snap)
	footer := fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.edges))
	if m.status != "" {
		footer += "  " + m.status
	}
	b.WriteString(StyleDim.Render(footer))

	return b.String()
}
