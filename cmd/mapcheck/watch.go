package main

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// watchFile calls onChange once filename has been written or replaced and
// then left alone for the debounce window, until done is closed. onChange
// runs on the calling goroutine.
func watchFile(filename string, done <-chan struct{}, onChange func()) error {
	return watchFileDebounced(filename, debounce, done, onChange)
}

func watchFileDebounced(filename string, wait time.Duration, done <-chan struct{}, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory so a replaced file is still seen
	target := filepath.Clean(filename)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	timer := time.NewTimer(wait)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Every event pushes the check back until writes settle
			timer.Reset(wait)
		case <-timer.C:
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watch: %v", err)
		case <-done:
			return nil
		}
	}
}
