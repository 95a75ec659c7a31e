package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/habiterm/internal/importer"
)

// Suggestions provides path completion for the import prompt
type Suggestions struct {
	filtered    []SuggestionItem
	selectedIdx int
	visible     bool
	readDir     func(string) ([]os.DirEntry, error)
}

// SuggestionItem represents a single completion
type SuggestionItem struct {
	Text        string
	Description string
	Type        string // "file" or "dir"
}

const maxSuggestions = 50

// NewSuggestions creates a new suggestions handler
func NewSuggestions() *Suggestions {
	return &Suggestions{readDir: os.ReadDir}
}

// Update lists importable files and directories completing input.
func (s *Suggestions) Update(input string) {
	s.filtered = nil
	s.selectedIdx = 0
	s.visible = false
	if input == "" {
		return
	}

	dir, prefix := filepath.Split(input)
	lookup := dir
	if lookup == "" {
		lookup = "."
	}
	entries, err := s.readDir(lookup)
	if err != nil {
		return
	}

	for _, e := range entries {
		if len(s.filtered) >= maxSuggestions {
			break
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || (strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".")) {
			continue
		}
		if e.IsDir() {
			s.filtered = append(s.filtered, SuggestionItem{Text: dir + name + string(filepath.Separator), Description: "directory", Type: "dir"})
			continue
		}
		format, err := importer.DetectFormat(name)
		if err != nil {
			continue
		}
		s.filtered = append(s.filtered, SuggestionItem{Text: dir + name, Description: string(format), Type: "file"})
	}
	sort.SliceStable(s.filtered, func(i, j int) bool {
		return s.filtered[i].Text < s.filtered[j].Text
	})

	// A lone exact match needs no dropdown.
	if len(s.filtered) == 1 && s.filtered[0].Text == input {
		s.filtered = nil
	}
	s.visible = len(s.filtered) > 0
}

// Next moves to the next suggestion
func (s *Suggestions) Next() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx = (s.selectedIdx + 1) % len(s.filtered)
}

// Prev moves to the previous suggestion
func (s *Suggestions) Prev() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx--
	if s.selectedIdx < 0 {
		s.selectedIdx = len(s.filtered) - 1
	}
}

// Selected returns the currently selected suggestion
func (s *Suggestions) Selected() *SuggestionItem {
	if !s.visible || len(s.filtered) == 0 || s.selectedIdx >= len(s.filtered) {
		return nil
	}
	return &s.filtered[s.selectedIdx]
}

// IsVisible returns whether suggestions are currently visible
func (s *Suggestions) IsVisible() bool {
	return s.visible && len(s.filtered) > 0
}

// Render renders the suggestions dropdown
func (s *Suggestions) Render(width int) string {
	if !s.IsVisible() {
		return ""
	}

	var b strings.Builder

	suggestionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondaryColor).
		Padding(0, 1).
		Width(max(width-4, 20))

	itemStyle := lipgloss.NewStyle().Foreground(fgColor)
	descStyle := lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	selStyle := lipgloss.NewStyle().Background(primaryColor).Foreground(fgColor).Bold(true)

	maxVisible := 5
	start := 0
	if s.selectedIdx >= maxVisible {
		start = s.selectedIdx - maxVisible + 1
	}
	for i := start; i < len(s.filtered) && i < start+maxVisible; i++ {
		item := s.filtered[i]
		if i == s.selectedIdx {
			b.WriteString(selStyle.Render("▶ "+item.Text) + " " + selStyle.Render(item.Description))
		} else {
			b.WriteString(itemStyle.Render("  "+item.Text) + " " + descStyle.Render(item.Description))
		}
		b.WriteString("\n")
	}
	if more := len(s.filtered) - (start + maxVisible); more > 0 {
		b.WriteString(descStyle.Render(fmt.Sprintf("  ... and %d more", more)))
	}

	return suggestionStyle.Render(strings.TrimRight(b.String(), "\n"))
}
