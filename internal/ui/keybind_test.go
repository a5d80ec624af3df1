package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("ctrl+c", tea.Quit)
	reg.Bind("SPC q", tea.Quit)

	if reg.Lookup("ctrl+c") == nil {
		t.Error("expected ctrl+c to be bound")
	}
	if reg.Lookup("SPC q") == nil {
		t.Error("expected SPC q to be bound")
	}
	if reg.Lookup("unknown") != nil {
		t.Error("expected unknown to be unbound")
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	// Press space -> leader waiting (Bubble Tea reports space as " ")
	consumed, cmd := h.Handle(keyMsg(" "))
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.LeaderWaiting {
		t.Error("expected leader waiting after space")
	}

	// Press x -> execute SPC x
	consumed, cmd = h.Handle(keyMsg("x"))
	if !consumed {
		t.Errorf("x: expected consumed")
	}
	if h.LeaderWaiting {
		t.Error("leader should not be waiting after completing sequence")
	}
	if cmd != nil {
		cmd()
		if !executed {
			t.Error("expected command to execute")
		}
	}
}

func TestKeyHandler_TwoLevelSequence(t *testing.T) {
	reg := NewKeybindRegistry()
	var mode AppMode
	reg.Bind("SPC t a", func() tea.Msg {
		mode = ModeAnalysis
		return SwitchToolMsg{Mode: ModeAnalysis}
	})
	reg.Bind("SPC t g", func() tea.Msg {
		mode = ModeGraph
		return SwitchToolMsg{Mode: ModeGraph}
	})
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	consumed, cmd := h.Handle(keyMsg("t"))
	if !consumed || cmd != nil {
		t.Fatalf("t: consumed=%v cmd=%v, expected prefix continuation", consumed, cmd)
	}
	if !h.LeaderWaiting {
		t.Fatal("expected leader still waiting after prefix")
	}

	consumed, cmd = h.Handle(keyMsg("g"))
	if !consumed || cmd == nil {
		t.Fatalf("g: consumed=%v cmd=%v", consumed, cmd)
	}
	cmd()
	if mode != ModeGraph {
		t.Errorf("expected graph binding to run, got %v", mode)
	}
	if h.LeaderWaiting {
		t.Error("leader should reset after completing sequence")
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	if !h.LeaderWaiting {
		t.Fatal("expected leader waiting")
	}

	consumed, cmd := h.Handle(keyMsg("esc"))
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, _ := h.Handle(keyMsg("j"))
	if consumed {
		t.Error("unbound j should not be consumed")
	}
}

func TestLeaderHints_ModeFilterAndSubmenu(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC t a", func() tea.Msg { return nil }, "Repo analysis")
	reg.BindWithDescForMode("SPC e", func() tea.Msg { return nil }, "Reports", []AppMode{ModeAnalysis})

	hints := reg.LeaderHints("", ModeHome)
	if hints["q"] != "Quit" {
		t.Errorf("q hint = %q", hints["q"])
	}
	if hints["t"] != "Tools" {
		t.Errorf("t submenu hint = %q, want Tools", hints["t"])
	}
	if _, ok := hints["e"]; ok {
		t.Error("mode-filtered hint should be hidden on home")
	}

	hints = reg.LeaderHints("", ModeAnalysis)
	if hints["e"] != "Reports" {
		t.Errorf("e hint in analysis mode = %q", hints["e"])
	}

	hints = reg.LeaderHints("SPC t", ModeHome)
	if hints["a"] != "Repo analysis" {
		t.Errorf("second-level hint = %q", hints["a"])
	}
}

// keyMsg creates a tea.KeyMsg for testing. Bubble Tea uses KeyType and Runes.
// KeySpace.String() returns " ", KeyEsc returns "esc", etc. Space carries its
// rune so text inputs receive it the way the real input loop delivers it.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
