package app

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexicon/internal/screens/menu"
	"github.com/abhisek/lexicon/internal/store"
)

// feed turns leaderboard watch callbacks into Bubble Tea messages. Only the
// newest snapshot is kept; a slow UI skips intermediate ones.
type feed struct {
	ch   chan []store.LeaderboardEntry
	done chan struct{}
	once sync.Once
	last []store.LeaderboardEntry
}

func newFeed() *feed {
	return &feed{
		ch:   make(chan []store.LeaderboardEntry, 1),
		done: make(chan struct{}),
	}
}

// close releases a pending next command.
func (f *feed) close() {
	if f != nil {
		f.once.Do(func() { close(f.done) })
	}
}

// publish is the Watch callback. It never blocks.
func (f *feed) publish(entries []store.LeaderboardEntry) {
	for {
		select {
		case f.ch <- entries:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// next waits for the following snapshot.
func (f *feed) next() tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case entries := <-f.ch:
			return menu.LeaderboardMsg{Entries: entries}
		case <-f.done:
			return nil
		}
	}
}

func (f *feed) remember(entries []store.LeaderboardEntry) {
	if f != nil {
		f.last = entries
	}
}

func (f *feed) snapshot() []store.LeaderboardEntry {
	if f == nil {
		return nil
	}
	return f.last
}
