package registry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for lookups of unknown process ids.
	ErrNotFound = errors.New("process not found")
	// ErrClosed is returned by Create once Shutdown has started.
	ErrClosed = errors.New("registry is shut down")
	// ErrEmptyCommand rejects blank commands.
	ErrEmptyCommand = errors.New("command must not be empty")

	errNoPID = errors.New("no pid recorded for process")
)

const (
	DefaultDetailLines   = 100
	DefaultListLines     = 10
	defaultNotifyTimeout = 5 * time.Second
)

// Options wires a Registry to its collaborators.
type Options struct {
	Launcher Launcher // required
	Notifier Notifier // optional
	Recorder Recorder // optional

	// DetailLines caps output returned by Get, ListLines by List.
	DetailLines int
	ListLines   int

	NotifyTimeout time.Duration
}

// Registry is a threadsafe in-memory catalog of launched processes.
// Secondary indexes keep session and tag queries cheap. Map structure is
// guarded by mu; each record's mutable fields by the record's own lock.
type Registry struct {
	mu        sync.RWMutex
	nextSeq   uint64
	byID      map[string]*record
	byTag     map[string]map[string]struct{}
	bySession map[string]map[string]struct{}
	closed    bool

	launcher      Launcher
	notifier      Notifier
	recorder      Recorder
	detailLines   int
	listLines     int
	notifyTimeout time.Duration

	drivers   sync.WaitGroup
	recorders sync.WaitGroup
}

// New returns an empty registry bound to the given launcher.
func New(opts Options) (*Registry, error) {
	if opts.Launcher == nil {
		return nil, errors.New("registry: launcher is required")
	}
	if opts.DetailLines <= 0 {
		opts.DetailLines = DefaultDetailLines
	}
	if opts.ListLines <= 0 {
		opts.ListLines = DefaultListLines
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}
	return &Registry{
		byID:          make(map[string]*record),
		byTag:         make(map[string]map[string]struct{}),
		bySession:     make(map[string]map[string]struct{}),
		launcher:      opts.Launcher,
		notifier:      opts.Notifier,
		recorder:      opts.Recorder,
		detailLines:   opts.DetailLines,
		listLines:     opts.ListLines,
		notifyTimeout: opts.NotifyTimeout,
	}, nil
}

// Create launches req.Command and starts tracking it. It returns as soon as
// the launch call does. A launch failure is not an error here: the record is
// kept in the failed state so the caller always gets a resolvable id.
func (r *Registry) Create(req CreateRequest) (string, error) {
	if strings.TrimSpace(req.Command) == "" {
		return "", ErrEmptyCommand
	}
	name := displayName(req.Name, req.Command)

	rec := &record{
		id:        uuid.NewString(),
		name:      name,
		command:   req.Command,
		sessionID: req.SessionID,
		tags:      norm(req.Tags),
		global:    req.Global,
		status:    StatusPending,
		startedAt: now(),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", ErrClosed
	}
	r.nextSeq++
	rec.seq = r.nextSeq
	r.drivers.Add(1)
	r.mu.Unlock()

	handle, launchErr := r.launcher.Launch(rec.command)
	rec.mu.Lock()
	if launchErr != nil {
		rec.err = launchErr.Error()
		rec.out.append(fatalPrefix + rec.err)
		rec.compareAndSetStatusLocked(StatusFailed)
	} else {
		rec.pid = handle.PID()
		rec.status = StatusRunning
	}
	rec.mu.Unlock()

	published := r.insert(rec)
	if launchErr != nil {
		r.drivers.Done()
	} else {
		go r.drive(rec, handle)
	}
	if !published {
		r.terminate(rec)
		return "", ErrClosed
	}

	created := rec.event(EventCreated, "")
	created.At = rec.startedAt
	r.record(created)
	if launchErr != nil {
		r.record(rec.event(EventFailed, rec.err))
		r.notify(rec.sessionID, failureMessage(rec.name, rec.id, rec.err))
	}
	return rec.id, nil
}

func (r *Registry) insert(rec *record) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.byID[rec.id] = rec
	addToIndex(r.bySession, rec.sessionID, rec.id)
	for _, t := range rec.tags {
		addToIndex(r.byTag, t, rec.id)
	}
	return true
}

func (r *Registry) evict(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.byID[id]
	if rec == nil {
		return false
	}
	delete(r.byID, id)
	removeFromIndex(r.bySession, rec.sessionID, id)
	for _, t := range rec.tags {
		removeFromIndex(r.byTag, t, id)
	}
	return true
}

func (r *Registry) lookup(id string) *record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// Get returns a copy of a process with the most recent DetailLines of output.
func (r *Registry) Get(id string) (Process, error) {
	rec := r.lookup(id)
	if rec == nil {
		return Process{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec.snapshot(r.detailLines), nil
}

// List returns matching processes in creation order, each with at most
// ListLines of output.
func (r *Registry) List(f Filter) []Process {
	recs := r.match(f)
	out := make([]Process, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.snapshot(r.listLines))
	}
	return out
}

// Terminate signals every matching process that is not terminal yet and
// returns the ids that were actually cancelled. Signal failures are written
// to the affected record's output and leave its status alone.
func (r *Registry) Terminate(c Criteria) []string {
	var targets []*record
	if c.ID != "" {
		if rec := r.lookup(c.ID); rec != nil {
			targets = []*record{rec}
		}
	} else {
		targets = r.match(c.Filter)
	}

	terminated := make([]string, 0, len(targets))
	for _, rec := range targets {
		if r.terminate(rec) {
			terminated = append(terminated, rec.id)
		}
	}
	return terminated
}

// terminate sends one kill signal. The record lock is held across the
// signal so a concurrent exit cannot commit in between the status check and
// the cancelled transition.
func (r *Registry) terminate(rec *record) bool {
	rec.mu.Lock()
	if rec.status.Terminal() {
		rec.mu.Unlock()
		return false
	}
	if err := r.signal(rec.pid); err != nil {
		rec.out.append(terminateErrorPrefix + err.Error())
		rec.mu.Unlock()
		return false
	}
	rec.compareAndSetStatusLocked(StatusCancelled)
	rec.out.append(terminatedPrefix + "process killed by request")
	rec.mu.Unlock()

	r.record(rec.event(EventCancelled, ""))
	return true
}

func (r *Registry) signal(pid int) error {
	if pid <= 0 {
		return errNoPID
	}
	return r.launcher.Kill(pid)
}

// Remove terminates a process if needed and stops tracking it.
func (r *Registry) Remove(id string) bool {
	rec := r.lookup(id)
	if rec == nil {
		return false
	}
	r.terminate(rec)
	if !r.evict(id) {
		return false
	}
	r.record(rec.event(EventRemoved, ""))
	return true
}

// EndSession terminates and evicts every non-global process owned by the
// session. Global processes stay tracked.
func (r *Registry) EndSession(sessionID string) []string {
	r.mu.RLock()
	recs := make([]*record, 0, len(r.bySession[sessionID]))
	for id := range r.bySession[sessionID] {
		if rec := r.byID[id]; !rec.global {
			recs = append(recs, rec)
		}
	}
	r.mu.RUnlock()
	sortBySeq(recs)

	removed := make([]string, 0, len(recs))
	for _, rec := range recs {
		r.terminate(rec)
		if r.evict(rec.id) {
			removed = append(removed, rec.id)
			r.record(rec.event(EventRemoved, "session ended"))
		}
	}
	return removed
}

// Shutdown rejects further creations, terminates every tracked process and
// waits until ctx is done for their drivers and for pending recorder writes.
// The registry is empty afterwards either way.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	recs := make([]*record, 0, len(r.byID))
	for _, rec := range r.byID {
		recs = append(recs, rec)
	}
	r.mu.Unlock()
	sortBySeq(recs)

	for _, rec := range recs {
		r.terminate(rec)
	}

	done := make(chan struct{})
	go func() {
		// Drivers record their final event before they finish.
		r.drivers.Wait()
		r.recorders.Wait()
		close(done)
	}()
	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("waiting for process drivers and history writes: %w", ctx.Err())
	}

	r.mu.Lock()
	r.byID = make(map[string]*record)
	r.byTag = make(map[string]map[string]struct{})
	r.bySession = make(map[string]map[string]struct{})
	r.mu.Unlock()
	return err
}

// Stats counts tracked processes by status.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	recs := make([]*record, 0, len(r.byID))
	for _, rec := range r.byID {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	st := Stats{Total: len(recs), Counts: make(map[Status]int)}
	for _, rec := range recs {
		st.Counts[rec.currentStatus()]++
	}
	return st
}

func (r *Registry) match(f Filter) []*record {
	r.mu.RLock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	if f.SessionID != "" {
		members := r.bySession[f.SessionID]
		ids = filterIDs(ids, func(id string) bool {
			_, ok := members[id]
			return ok
		})
	}
	if tags := norm(f.Tags); len(tags) > 0 {
		tagged := make(map[string]struct{})
		for _, t := range tags {
			for id := range r.byTag[t] {
				tagged[id] = struct{}{}
			}
		}
		ids = filterIDs(ids, func(id string) bool {
			_, ok := tagged[id]
			return ok
		})
	}
	recs := make([]*record, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, r.byID[id])
	}
	r.mu.RUnlock()

	if f.Status != "" {
		kept := recs[:0]
		for _, rec := range recs {
			if rec.currentStatus() == f.Status {
				kept = append(kept, rec)
			}
		}
		recs = kept
	}
	sortBySeq(recs)
	return recs
}

func (r *Registry) notify(sessionID, message string) {
	if r.notifier == nil {
		return
	}
	go func() {
		defer func() {
			if p := recover(); p != nil {
				log.Printf("notifier panic for session %q: %v", sessionID, p)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), r.notifyTimeout)
		defer cancel()
		if err := r.notifier.Notify(ctx, sessionID, message); err != nil {
			log.Printf("notify session %q failed: %v", sessionID, err)
		}
	}()
}

func (r *Registry) record(ev Event) {
	if r.recorder == nil {
		return
	}
	r.recorders.Add(1)
	go func() {
		defer r.recorders.Done()
		defer func() {
			if p := recover(); p != nil {
				log.Printf("recorder panic for process %s: %v", ev.ProcessID, p)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), r.notifyTimeout)
		defer cancel()
		if err := r.recorder.RecordEvent(ctx, ev); err != nil {
			log.Printf("record %s event for process %s failed: %v", ev.Kind, ev.ProcessID, err)
		}
	}()
}

func completionMessage(name, id string) string {
	return fmt.Sprintf("[completed] %s (%s)", name, id)
}

func failureMessage(name, id, errText string) string {
	return fmt.Sprintf("[failed] %s (%s): %s", name, id, errText)
}

func filterIDs(ids []string, keep func(string) bool) []string {
	dst := ids[:0]
	for _, id := range ids {
		if keep(id) {
			dst = append(dst, id)
		}
	}
	return dst
}

func sortBySeq(recs []*record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
}
