package controller

import "sync"

// locks hands out one mutex per workflow id so distinct workflows advance
// fully independently.
type locks struct {
	byID map[string]*sync.Mutex
	mux  sync.Mutex
}

func newLocks() *locks {
	return &locks{byID: map[string]*sync.Mutex{}}
}

// lock acquires the workflow's mutex and returns its unlock function.
func (l *locks) lock(id string) func() {
	l.mux.Lock()
	m, ok := l.byID[id]
	if !ok {
		m = &sync.Mutex{}
		l.byID[id] = m
	}
	l.mux.Unlock()
	m.Lock()
	return m.Unlock
}
