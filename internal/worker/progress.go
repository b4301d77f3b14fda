package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	barWidth = 30
	// linePad clears leftovers of a longer previous line.
	linePad = "          "
)

// Progress tracks a batch of fields and draws a one-line status on the
// terminal. It also shows the stage messages of a single generation.
type Progress struct {
	startTime time.Time
	output    io.Writer
	stage     string
	firstSeed int64
	lastSeed  int64
	total     int
	completed int
	failed    int
	mu        sync.RWMutex
	hasSeeds  bool
	enabled   bool
}

// NewProgress creates a tracker for total fields writing to stderr.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		total:     total,
		startTime: time.Now(),
		output:    os.Stderr,
		enabled:   enabled,
	}
}

// SetOutput redirects the status line.
func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	p.output = w
	p.mu.Unlock()
}

// SetSeedRange records the seeds the tracked fields are generated from.
func (p *Progress) SetSeedRange(first, last int64) {
	p.mu.Lock()
	p.firstSeed, p.lastSeed, p.hasSeeds = first, last, true
	p.mu.Unlock()
}

// Update records the completion of a task.
func (p *Progress) Update(completed, total, failed int) {
	p.mu.Lock()
	p.completed = completed
	p.total = total
	p.failed = failed
	p.mu.Unlock()

	if p.enabled {
		p.Print()
	}
}

// Report shows a generation stage message in place, ending the line once
// done is set. It satisfies noise.Reporter.
func (p *Progress) Report(done bool, message string) {
	p.mu.Lock()
	p.stage = message
	out := p.output
	p.mu.Unlock()

	if !p.enabled {
		return
	}
	fmt.Fprintf(out, "\r%s%s", message, linePad)
	if done {
		fmt.Fprintln(out)
	}
}

// Stage returns the last reported stage message.
func (p *Progress) Stage() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stage
}

// Callback returns a ProgressFunc suitable for use with Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

// progressState is a consistent copy of the counters.
type progressState struct {
	elapsed   time.Duration
	seeds     string
	total     int
	completed int
	failed    int
}

func (p *Progress) snapshot() progressState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := progressState{
		elapsed:   time.Since(p.startTime),
		total:     p.total,
		completed: p.completed,
		failed:    p.failed,
	}
	if p.hasSeeds {
		s.seeds = seedRange(p.firstSeed, p.lastSeed)
	}
	return s
}

// perSecond is the completion rate, zero until something finished.
func (s progressState) perSecond() float64 {
	if s.completed == 0 || s.elapsed <= 0 {
		return 0
	}
	return float64(s.completed) / s.elapsed.Seconds()
}

// remaining estimates the time left at the current rate.
func (s progressState) remaining() time.Duration {
	rate := s.perSecond()
	if rate == 0 || s.completed >= s.total {
		return 0
	}
	return time.Duration(float64(s.total-s.completed) / rate * float64(time.Second))
}

func (s progressState) bar() string {
	filled := 0
	if s.total > 0 {
		filled = min(s.completed*barWidth/s.total, barWidth)
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// Print draws the current status line.
func (p *Progress) Print() {
	s := p.snapshot()

	parts := []string{fmt.Sprintf("[%s] %d/%d fields", s.bar(), s.completed, s.total)}
	if s.seeds != "" {
		parts = append(parts, "seeds "+s.seeds)
	}
	if s.failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.failed))
	}
	parts = append(parts, fmt.Sprintf("%.1f fields/s", s.perSecond()))
	if s.completed >= s.total {
		parts = append(parts, "done in "+roundDuration(s.elapsed))
	} else if eta := s.remaining(); eta > 0 {
		parts = append(parts, "ETA "+roundDuration(eta))
	}

	p.mu.RLock()
	out := p.output
	p.mu.RUnlock()
	fmt.Fprintf(out, "\r%s%s", strings.Join(parts, " | "), linePad)
}

// Done prints the final status line and a newline.
func (p *Progress) Done() {
	if !p.enabled {
		return
	}
	p.Print()

	p.mu.RLock()
	out := p.output
	p.mu.RUnlock()
	fmt.Fprintln(out)
}

// Summary describes the finished batch in one line.
func (p *Progress) Summary() string {
	s := p.snapshot()

	summary := fmt.Sprintf("Generated %d/%d fields", s.completed-s.failed, s.total)
	if s.seeds != "" {
		summary += " from seeds " + s.seeds
	}
	summary += fmt.Sprintf(" in %s (%.1f fields/s)", roundDuration(s.elapsed), s.perSecond())
	if s.failed > 0 {
		summary += fmt.Sprintf(", %d failed", s.failed)
	}
	return summary
}

func seedRange(first, last int64) string {
	if first == last {
		return fmt.Sprintf("%d", first)
	}
	return fmt.Sprintf("%d..%d", first, last)
}

func roundDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
