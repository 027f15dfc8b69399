package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bastiangx/wordguard/pkg/dictionary"
	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events an editor or an atomic
// rename produces into one reload.
const reloadDebounce = 100 * time.Millisecond

// watch reloads the word sets when their files change on disk. Parent
// directories are watched because atomic rewrites replace the file.
// The returned func stops the watcher and waits for it to exit.
func (s *Server) watch(ctx context.Context) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	targets := make(map[string]*dictionary.WordSet)
	dirs := make(map[string]struct{})
	for _, ws := range []*dictionary.WordSet{s.spelling, s.banned} {
		abs, err := filepath.Abs(ws.Path())
		if err != nil {
			w.Close()
			return nil, err
		}
		targets[abs] = ws
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, err
		}
		s.logger.Debugf("Watching %s", dir)
	}

	done := make(chan struct{})
	go s.watchLoop(ctx, w, targets, done)
	return func() {
		w.Close()
		<-done
	}, nil
}

func (s *Server) watchLoop(ctx context.Context, w *fsnotify.Watcher, targets map[string]*dictionary.WordSet, done chan struct{}) {
	defer close(done)
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warnf("Watcher error: %v", err)
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(ev.Name)
			ws, watched := targets[path]
			if !watched {
				continue
			}
			if t, ok := pending[path]; ok {
				t.Reset(reloadDebounce)
				continue
			}
			pending[path] = time.AfterFunc(reloadDebounce, func() { s.reload(ws) })
		}
	}
}

func (s *Server) reload(ws *dictionary.WordSet) {
	if err := ws.Reload(); err != nil {
		s.logger.Errorf("Reloading %s: %v", ws.Path(), err)
		return
	}
	s.reloads.Add(1)
	s.logger.Infof("Reloaded %s (%d words)", ws.Path(), ws.Len())
}
