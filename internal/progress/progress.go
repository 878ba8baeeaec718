// Package progress displays the phases of a planning run on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Indicator tracks phase progress. It implements pipeline.Observer.
type Indicator struct {
	writer      io.Writer
	phases      []string
	done        map[string]time.Duration
	current     string
	startTime   time.Time
	now         func() time.Time
	mu          sync.Mutex
	showSpinner bool
	spinnerIdx  int
	stopChan    chan struct{}
	stopped     chan struct{}
	startOnce   sync.Once
	stopOnce    sync.Once
	isCI        bool
}

// Config holds configuration for progress indicator
type Config struct {
	Writer io.Writer
	// Phases lists the expected phases in order.
	Phases      []string
	ShowSpinner bool
	IsCI        bool // Set to true in CI/CD environments to disable fancy output
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewIndicator creates a new progress indicator
func NewIndicator(cfg Config) *Indicator {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	// Auto-detect CI environment
	if !cfg.IsCI {
		cfg.IsCI = os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
	}

	return &Indicator{
		writer:      cfg.Writer,
		phases:      cfg.Phases,
		done:        make(map[string]time.Duration, len(cfg.Phases)),
		startTime:   time.Now(),
		now:         time.Now,
		showSpinner: cfg.ShowSpinner && !cfg.IsCI,
		stopChan:    make(chan struct{}),
		stopped:     make(chan struct{}),
		isCI:        cfg.IsCI,
	}
}

// Start begins the spinner animation when enabled.
func (p *Indicator) Start() {
	p.startOnce.Do(func() {
		if !p.showSpinner {
			close(p.stopped)
			return
		}
		go p.spinnerLoop()
	})
}

// Stop stops the spinner and clears its line. Safe to call more than once.
func (p *Indicator) Stop() {
	p.Start()
	p.stopOnce.Do(func() {
		close(p.stopChan)
		<-p.stopped
		if p.showSpinner {
			fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", 80))
		}
	})
}

func (p *Indicator) spinnerLoop() {
	defer close(p.stopped)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.renderProgress()
			p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerFrames)
			p.mu.Unlock()
		}
	}
}

// Progress returns the fraction of expected phases finished.
func (p *Indicator) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress()
}

func (p *Indicator) progress() float64 {
	if len(p.phases) == 0 {
		return 0
	}
	return float64(len(p.done)) / float64(len(p.phases))
}

// renderProgress draws the status line. Callers hold mu.
func (p *Indicator) renderProgress() {
	progress := p.progress()
	barWidth := 30
	filled := int(float64(barWidth) * progress)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	current := p.current
	if current == "" {
		current = "starting"
	}

	fmt.Fprintf(p.writer, "\r%s [%s] %d/%d phases | %s | %s",
		spinnerFrames[p.spinnerIdx],
		bar,
		len(p.done),
		len(p.phases),
		current,
		formatDuration(p.now().Sub(p.startTime)),
	)
}

// PhaseStarted records that phase is running.
func (p *Indicator) PhaseStarted(phase string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = phase
	if !p.showSpinner {
		fmt.Fprintf(p.writer, "▶ %s\n", phase)
	}
}

// PhaseFinished records that phase completed after elapsed.
func (p *Indicator) PhaseFinished(phase string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done[phase] = elapsed
	if p.current == phase {
		p.current = ""
	}
	if !p.showSpinner {
		fmt.Fprintf(p.writer, "✓ %s (%s)\n", phase, formatDuration(elapsed))
	}
}

// PrintSummary prints the duration of every finished phase.
func (p *Indicator) PrintSummary() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.writer, "───────────────────────────────────────")
	for _, phase := range p.phases {
		d, ok := p.done[phase]
		if !ok {
			fmt.Fprintf(p.writer, "  ⊘ %-14s skipped\n", phase)
			continue
		}
		fmt.Fprintf(p.writer, "  ✓ %-14s %s\n", phase, formatDuration(d))
	}
	fmt.Fprintf(p.writer, "  Total          %s\n", formatDuration(p.now().Sub(p.startTime)))
	fmt.Fprintln(p.writer, "───────────────────────────────────────")
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
