package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/cubestate/internal/movetable"
)

const progressWidth = 40

// Messages
type tickMsg time.Time
type progressMsg movetable.Progress
type buildDoneMsg struct {
	set *movetable.Set
	err error
}

// buildModel shows table build progress while a Builder runs.
type buildModel struct {
	build   func(ctx context.Context) (*movetable.Set, error)
	ctx     context.Context
	cancel  context.CancelFunc
	started time.Time
	elapsed time.Duration

	progress movetable.Progress
	overall  overall
	set      *movetable.Set
	err      error

	done     bool
	quitting bool
}

func newBuildModel(ctx context.Context, plans []movetable.Plan, build func(ctx context.Context) (*movetable.Set, error)) *buildModel {
	ctx, cancel := context.WithCancel(ctx)
	return &buildModel{
		build:   build,
		ctx:     ctx,
		cancel:  cancel,
		started: time.Now(),
		overall: newOverall(plans),
	}
}

// overall places the progress of one table within the whole plan. Only dense
// tables have entries to fill, so computed tables weigh nothing.
type overall struct {
	offsets []uint64 // dense entries in the tables before each one
	total   uint64
}

func newOverall(plans []movetable.Plan) overall {
	o := overall{offsets: make([]uint64, len(plans))}
	for i, p := range plans {
		o.offsets[i] = o.total
		if p.Strategy == movetable.Dense {
			o.total += uint64(p.Size)
		}
	}
	return o
}

// at returns the dense entries filled across the plan when p arrives.
func (o overall) at(p movetable.Progress) (done, total uint64) {
	i := p.Table - 1
	if i < 0 || i >= len(o.offsets) {
		return 0, o.total
	}
	done = o.offsets[i]
	if p.Strategy == movetable.Dense {
		done += p.Done
	}
	return done, o.total
}

func (m *buildModel) Init() tea.Cmd {
	return tea.Batch(m.runBuild(), m.tickCmd())
}

func (m *buildModel) runBuild() tea.Cmd {
	return func() tea.Msg {
		set, err := m.build(m.ctx)
		return buildDoneMsg{set: set, err: err}
	}
}

func (m *buildModel) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			// Wait for the builder to observe cancellation before quitting.
			m.quitting = true
			m.cancel()
		}
		return m, nil

	case tickMsg:
		m.elapsed = time.Since(m.started)
		if m.done {
			return m, nil
		}
		return m, m.tickCmd()

	case progressMsg:
		m.progress = movetable.Progress(msg)
		return m, nil

	case buildDoneMsg:
		m.done = true
		m.set = msg.set
		m.err = msg.err
		m.elapsed = time.Since(m.started)
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

func (m *buildModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Building transition tables"))
	b.WriteString("\n\n")

	p := m.progress
	if p.Tables > 0 {
		b.WriteString(fmt.Sprintf("Table %d/%d: %s %s\n",
			p.Table, p.Tables, valueStyle.Render(fmt.Sprintf("%s %s", p.Move.Notation(), p.Family)),
			labelStyle.Render(p.Strategy.String())))
		b.WriteString(renderBar(p.Done, p.Total))
		b.WriteString("\n")
		b.WriteString(renderBar(m.overall.at(p)))
		b.WriteString(labelStyle.Render(" overall"))
		b.WriteString("\n")
	} else {
		b.WriteString(labelStyle.Render("Planning..."))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Elapsed: %s\n", formatDuration(m.elapsed)))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.quitting && !m.done {
		b.WriteString(helpStyle.Render("Cancelling..."))
	} else {
		b.WriteString(helpStyle.Render("Keys: q=cancel"))
	}
	b.WriteString("\n")

	return b.String()
}

// renderBar draws a fixed-width bar with a percentage, e.g. "[####----]  50.0%".
func renderBar(done, total uint64) string {
	frac := 0.0
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * progressWidth)
	return fmt.Sprintf("[%s%s] %5.1f%%",
		moveStyle.Render(strings.Repeat("#", filled)),
		labelStyle.Render(strings.Repeat("-", progressWidth-filled)),
		frac*100)
}

// buildWithProgress runs a build behind the progress view. plans is the
// builder's Plan for the same options, which must not already carry a
// progress callback.
func buildWithProgress(ctx context.Context, plans []movetable.Plan, options []movetable.Option) (*movetable.Set, error) {
	var p *tea.Program
	build := func(ctx context.Context) (*movetable.Set, error) {
		opts := append(append([]movetable.Option(nil), options...), movetable.WithProgress(func(pr movetable.Progress) {
			p.Send(progressMsg(pr))
		}))
		return movetable.NewBuilder(opts...).Build(ctx)
	}

	model := newBuildModel(ctx, plans, build)
	p = tea.NewProgram(model)

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}
	fm := final.(*buildModel)
	if fm.err != nil {
		return nil, fm.err
	}
	if fm.set == nil {
		return nil, context.Canceled
	}
	return fm.set, nil
}
