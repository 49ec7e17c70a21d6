package navigation

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Entry is one step of the navigation history. State is the handoff
// payload of this navigation and is never shared with other entries.
type Entry struct {
	Path  string
	Route Route
	State any
}

// Listener is notified after the current entry changes
type Listener func(entry Entry)

// Navigator keeps the history of one session
type Navigator struct {
	router *Router
	logger *logrus.Logger

	mu        sync.Mutex
	history   []Entry
	listeners []Listener
}

// NewNavigator creates a navigator positioned on the home view
func NewNavigator(router *Router, logger *logrus.Logger) *Navigator {
	if router == nil {
		router = NewRouter()
	}
	if logger == nil {
		logger = logrus.New()
	}
	home, _ := router.Match("/")
	return &Navigator{
		router:  router,
		logger:  logger,
		history: []Entry{{Path: "/", Route: home}},
	}
}

// OnNavigate registers a listener
func (n *Navigator) OnNavigate(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

// Navigate pushes path with an optional handoff payload
func (n *Navigator) Navigate(path string, state any) (Entry, error) {
	route, err := n.router.Match(path)
	if err != nil {
		n.logger.WithField("path", path).Warn("Navigation to unknown route")
		return Entry{}, err
	}

	entry := Entry{Path: path, Route: route, State: state}
	n.mu.Lock()
	n.history = append(n.history, entry)
	listeners := n.snapshot()
	n.mu.Unlock()

	n.logger.WithFields(logrus.Fields{
		"path":    path,
		"view":    route.View,
		"handoff": state != nil,
	}).Debug("Navigated")
	n.notify(listeners, entry)
	return entry, nil
}

// Back pops the current entry. It returns false when already at the first entry.
func (n *Navigator) Back() (Entry, bool) {
	n.mu.Lock()
	if len(n.history) <= 1 {
		entry := n.history[0]
		n.mu.Unlock()
		return entry, false
	}
	n.history[len(n.history)-1] = Entry{}
	n.history = n.history[:len(n.history)-1]
	entry := n.history[len(n.history)-1]
	listeners := n.snapshot()
	n.mu.Unlock()

	n.notify(listeners, entry)
	return entry, true
}

// Reload drops the handoff payload of the current entry, as a page refresh does
func (n *Navigator) Reload() Entry {
	n.mu.Lock()
	last := len(n.history) - 1
	n.history[last].State = nil
	entry := n.history[last]
	listeners := n.snapshot()
	n.mu.Unlock()

	n.notify(listeners, entry)
	return entry
}

// Current returns the current entry
func (n *Navigator) Current() Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history[len(n.history)-1]
}

// Depth returns the number of history entries
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.history)
}

func (n *Navigator) snapshot() []Listener {
	listeners := make([]Listener, len(n.listeners))
	copy(listeners, n.listeners)
	return listeners
}

func (n *Navigator) notify(listeners []Listener, entry Entry) {
	for _, l := range listeners {
		l(entry)
	}
}
