package registry

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"unicode"
)

// drive owns one launched process for its whole life: it copies both output
// streams into the record and commits the exit outcome.
func (r *Registry) drive(rec *record, h Handle) {
	defer r.drivers.Done()

	var pumps sync.WaitGroup
	pumps.Add(2)
	go func() {
		defer pumps.Done()
		pump(rec, h.Stdout(), "")
	}()
	go func() {
		defer pumps.Done()
		pump(rec, h.Stderr(), stderrPrefix)
	}()

	waitErr := h.Wait()
	pumps.Wait()

	if waitErr == nil {
		r.complete(rec)
		return
	}
	r.fail(rec, waitErr)
}

// pump appends every non-blank line read from src, right-trimmed.
func pump(rec *record, src io.Reader, prefix string) {
	if src == nil {
		return
	}
	br := bufio.NewReader(src)
	for {
		line, err := br.ReadString('\n')
		if text := strings.TrimRightFunc(line, unicode.IsSpace); text != "" {
			rec.appendLine(prefix + text)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) && !errors.Is(err, os.ErrClosed) {
				log.Printf("process %s: read output: %v", rec.id, err)
			}
			return
		}
	}
}

// complete commits a zero exit. It loses silently against a termination
// that already moved the record to cancelled.
func (r *Registry) complete(rec *record) {
	rec.mu.Lock()
	ok := rec.compareAndSetStatusLocked(StatusCompleted)
	rec.mu.Unlock()
	if !ok {
		return
	}
	r.record(rec.event(EventCompleted, ""))
	r.notify(rec.sessionID, completionMessage(rec.name, rec.id))
}

func (r *Registry) fail(rec *record, cause error) {
	errText := cause.Error()
	rec.mu.Lock()
	ok := rec.compareAndSetStatusLocked(StatusFailed)
	if ok {
		rec.err = errText
		rec.out.append(fatalPrefix + errText)
	}
	rec.mu.Unlock()
	if !ok {
		return
	}
	r.record(rec.event(EventFailed, errText))
	r.notify(rec.sessionID, failureMessage(rec.name, rec.id, errText))
}
