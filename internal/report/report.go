package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hamed0406/sitecheck/internal/domain"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Summary counts the results of one run.
type Summary struct {
	Total  int `json:"total"`
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

func (s *Summary) Add(r domain.CheckResult) {
	s.Total++
	if r.OK() {
		s.OK++
	} else {
		s.Failed++
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("Checked %d URLs: %d OK, %d failed", s.Total, s.OK, s.Failed)
}

// Printer writes one line per result as results arrive and keeps a running
// summary. With Color set, lines are tinted by outcome: green for 2xx/3xx,
// amber for other status codes, red for errors.
type Printer struct {
	W       io.Writer
	Color   bool
	Summary Summary
}

func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{W: w, Color: color}
}

func (p *Printer) Print(r domain.CheckResult) {
	p.Summary.Add(r)
	line := r.String()
	if p.Color {
		line = styleFor(r).Render(line)
	}
	fmt.Fprintln(p.W, line)
}

// Finish prints the summary line.
func (p *Printer) Finish() {
	line := p.Summary.String()
	if p.Color && p.Summary.Failed > 0 {
		line = failStyle.Render(line)
	}
	fmt.Fprintln(p.W, line)
}

func styleFor(r domain.CheckResult) lipgloss.Style {
	switch {
	case !r.OK():
		return failStyle
	case r.StatusCode >= 200 && r.StatusCode < 400:
		return okStyle
	default:
		return warnStyle
	}
}

// JSONResult is the serializable view of a CheckResult.
type JSONResult struct {
	URL        string    `json:"url"`
	OK         bool      `json:"ok"`
	StatusCode int       `json:"status_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Attempts   int       `json:"attempts"`
	ElapsedMS  float64   `json:"elapsed_ms"`
	Timestamp  time.Time `json:"timestamp"`
	Line       string    `json:"line"`
}

func ToJSON(r domain.CheckResult) JSONResult {
	out := JSONResult{
		URL:        r.URL,
		OK:         r.OK(),
		StatusCode: r.StatusCode,
		ErrorKind:  domain.ErrorKind(r.Err),
		Attempts:   r.Attempts,
		ElapsedMS:  float64(r.Elapsed) / float64(time.Millisecond),
		Timestamp:  r.Timestamp,
		Line:       r.String(),
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

// Document is the JSON report of a run.
type Document struct {
	Results []JSONResult `json:"results"`
	Summary Summary      `json:"summary"`
}

func NewDocument(results []domain.CheckResult) Document {
	doc := Document{Results: make([]JSONResult, 0, len(results))}
	for _, r := range results {
		doc.Results = append(doc.Results, ToJSON(r))
		doc.Summary.Add(r)
	}
	return doc
}

// WriteJSON writes the document for results to path, indented.
func WriteJSON(path string, results []domain.CheckResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(results)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
