package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Olivia010207/NPS/internal/table"
)

// OthersLabel keys the supplementary free-text entry of a bundle.
const OthersLabel = "others"

// Entry is one labelled result table.
type Entry struct {
	Label string       `json:"label"`
	Table *table.Table `json:"table"`
}

// Bundle is the ordered set of tables an analysis produced.
type Bundle struct {
	ID        string       `json:"id"`
	Type      AnalysisType `json:"type"`
	Source    string       `json:"source,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Entries   []Entry      `json:"entries"`
}

// add appends an entry, suffixing the label when it is already taken.
func (b *Bundle) add(label string, t *table.Table) {
	name := label
	for n := 2; b.has(name); n++ {
		name = fmt.Sprintf("%s (%d)", label, n)
	}
	b.Entries = append(b.Entries, Entry{Label: name, Table: t})
}

func (b *Bundle) has(label string) bool {
	_, ok := b.Get(label)
	return ok
}

// Get returns the table stored under label.
func (b *Bundle) Get(label string) (*table.Table, bool) {
	for _, e := range b.Entries {
		if e.Label == label {
			return e.Table, true
		}
	}
	return nil, false
}

// Labels lists entry labels in order.
func (b *Bundle) Labels() []string {
	out := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		out[i] = e.Label
	}
	return out
}

// Markdown renders every entry under its own heading.
func (b *Bundle) Markdown() string {
	var sb strings.Builder
	title := string(b.Type)
	if b.Source != "" {
		title += " (" + b.Source + ")"
	}
	fmt.Fprintf(&sb, "# Analysis: %s\n\n", title)
	for _, e := range b.Entries {
		fmt.Fprintf(&sb, "## %s\n\n", e.Label)
		sb.WriteString(e.Table.Markdown())
		sb.WriteString("\n")
	}
	return sb.String()
}
