package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sokinpui/commentize/model"
)

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestConfirmFlow(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want bool
	}{
		{key('y'), true},
		{key('n'), false},
		{tea.KeyMsg{Type: tea.KeyEnter}, true},
		{tea.KeyMsg{Type: tea.KeyEsc}, false},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			reply := make(chan bool, 1)
			var m tea.Model = New(nil)

			m, _ = m.Update(confirmMsg{prompt: "Go?", reply: reply})
			if !strings.Contains(m.View(), "Go?") {
				t.Fatalf("View() = %q, want the prompt", m.View())
			}

			// Unrelated keys do not answer.
			m, _ = m.Update(key('x'))
			select {
			case <-reply:
				t.Fatal("answered on an unrelated key")
			default:
			}

			m, _ = m.Update(tt.key)
			select {
			case got := <-reply:
				if got != tt.want {
					t.Errorf("answer = %v, want %v", got, tt.want)
				}
			default:
				t.Fatal("no answer sent")
			}
			if m.(Model).state != stateProcessing {
				t.Errorf("state = %v, want processing", m.(Model).state)
			}
		})
	}
}

func TestProgressView(t *testing.T) {
	var m tea.Model = New(nil)
	m, _ = m.Update(progressMsg{current: 2, total: 5})
	if !strings.Contains(m.View(), "2/5") {
		t.Errorf("View() = %q, want progress", m.View())
	}
}

func TestSummaryView(t *testing.T) {
	var m tea.Model = New(nil)
	m, cmd := m.Update(summaryMsg{model.Summary{
		Modified:  []string{"a.go"},
		Unchanged: []string{"b.go"},
		Failed:    []string{"c.go"},
	}})
	if cmd == nil {
		t.Error("summary did not quit the program")
	}
	view := m.View()
	for _, want := range []string{"Commentized:", "a.go", "Already commentized:", "b.go", "Failed:", "c.go"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestErrorView(t *testing.T) {
	var m tea.Model = New(nil)
	m, _ = m.Update(errorMsg{errors.New("boom")})
	if !strings.Contains(m.View(), "boom") {
		t.Errorf("View() = %q", m.View())
	}
	if m.(Model).Err() == nil {
		t.Error("Err() = nil after an error")
	}
}
