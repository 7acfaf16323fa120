package debugger

import (
	"fmt"
	"sync"
)

// Watchpoint fires when the word at Address changes value between two
// checks. Adapted from lookbusy1344-arm_emulator/debugger's
// WatchpointManager: like the original, this is value-change detection,
// not a true hardware read/write trap — c4go's VM has no memory access
// hooks to intercept SI/SC against, so the debugger's run loop checks
// every live watchpoint after each step instead.
type Watchpoint struct {
	ID        int
	Address   uint
	Enabled   bool
	LastValue int64
	HitCount  int
}

// WatchpointManager owns the full set of watchpoints for one debug
// session.
type WatchpointManager struct {
	mu          sync.RWMutex
	watchpoints map[int]*Watchpoint
	nextID      int
}

// NewWatchpointManager returns an empty manager.
func NewWatchpointManager() *WatchpointManager {
	return &WatchpointManager{watchpoints: make(map[int]*Watchpoint), nextID: 1}
}

// Add installs a watchpoint over the word at address, primed with its
// current value so the first Check afterward won't spuriously fire.
func (wm *WatchpointManager) Add(address uint, initial int64) *Watchpoint {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wp := &Watchpoint{ID: wm.nextID, Address: address, Enabled: true, LastValue: initial}
	wm.watchpoints[wp.ID] = wp
	wm.nextID++
	return wp
}

// Delete removes a watchpoint by ID.
func (wm *WatchpointManager) Delete(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	if _, exists := wm.watchpoints[id]; !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	delete(wm.watchpoints, id)
	return nil
}

// List returns every watchpoint, in no particular order.
func (wm *WatchpointManager) List() []*Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	out := make([]*Watchpoint, 0, len(wm.watchpoints))
	for _, wp := range wm.watchpoints {
		out = append(out, wp)
	}
	return out
}

// Check reads each enabled watchpoint's current value via read, firing
// (and updating LastValue) for any that changed since the last Check.
func (wm *WatchpointManager) Check(read func(addr uint) (int64, error)) ([]*Watchpoint, error) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	var fired []*Watchpoint
	for _, wp := range wm.watchpoints {
		if !wp.Enabled {
			continue
		}
		v, err := read(wp.Address)
		if err != nil {
			return nil, err
		}
		if v != wp.LastValue {
			wp.LastValue = v
			wp.HitCount++
			fired = append(fired, wp)
		}
	}
	return fired, nil
}
