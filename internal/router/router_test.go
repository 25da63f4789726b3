package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexicon/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	closed  bool
	seen    []tea.Msg
}

func (s *stubScreen) Close() { s.closed = true }

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
}

func TestPopClosesScreen(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if !s2.closed {
		t.Error("expected popped screen to be closed")
	}
}

func TestPopToRoot(t *testing.T) {
	root := &stubScreen{title: "menu"}
	r := New(root)
	r.Push(&stubScreen{title: "rarity"})
	r.Push(&stubScreen{title: "round"})

	r.Update(PopToRootMsg{})

	if r.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", r.Depth())
	}
	if r.Active() != root {
		t.Errorf("expected root to be active, got %q", r.Active().Title())
	}
	if root.closed {
		t.Error("root must stay open")
	}
}

type pingMsg struct{}

func TestBroadcastReachesEveryScreen(t *testing.T) {
	root := &stubScreen{title: "menu"}
	top := &stubScreen{title: "round"}
	r := New(root)
	r.Push(top)

	r.Broadcast(pingMsg{})

	if len(root.seen) != 1 || len(top.seen) != 1 {
		t.Errorf("expected both screens to see the message, got %d and %d", len(root.seen), len(top.seen))
	}
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "judge log"}
	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Errorf("Push produced %#v", msg)
	}
	if _, ok := Pop()().(PopScreenMsg); !ok {
		t.Error("Pop should produce PopScreenMsg")
	}
	if _, ok := PopToRoot()().(PopToRootMsg); !ok {
		t.Error("PopToRoot should produce PopToRootMsg")
	}
}
