package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/IvanShishkin/lsx/internal/config"
	"github.com/IvanShishkin/lsx/internal/filesystem"
	"github.com/IvanShishkin/lsx/pkg/models"
)

// recordingSink renders events as compact strings:
// "H path" named header, "h" unnamed header, "E name@depth" entry, "X path" error
type recordingSink struct {
	events []*models.Event
	lines  []string
	failOn int
}

func (s *recordingSink) Handle(ev *models.Event) error {
	if s.failOn > 0 && len(s.events)+1 == s.failOn {
		return errors.New("write failed")
	}
	s.events = append(s.events, ev)
	switch ev.Type {
	case models.EventHeader:
		if ev.Named {
			s.lines = append(s.lines, "H "+ev.Dir)
		} else {
			s.lines = append(s.lines, "h")
		}
	case models.EventEntry:
		s.lines = append(s.lines, fmt.Sprintf("E %s@%d", ev.Entry.Name, ev.Depth))
	case models.EventError:
		s.lines = append(s.lines, "X "+ev.Path)
	}
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) entries() []string {
	var out []string
	for _, ev := range s.events {
		if ev.Type == models.EventEntry {
			out = append(out, ev.Entry.Name)
		}
	}
	return out
}

func mkfile(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0755))
}

func run(t *testing.T, cfg *config.Config, roots ...string) (*recordingSink, *models.ListResults) {
	t.Helper()
	sink := &recordingSink{}
	w := NewWalker(cfg, zap.NewNop(), sink)
	results, err := w.Walk(roots)
	require.NoError(t, err)
	return sink, results
}

// scenarioDir holds b.txt (older), a.txt (newer), hidden .cfg and sub/inner
func scenarioDir(t *testing.T) string {
	dir := t.TempDir()
	now := time.Now()
	mkfile(t, filepath.Join(dir, "b.txt"), now.Add(-2*time.Hour))
	mkfile(t, filepath.Join(dir, "a.txt"), now.Add(-1*time.Hour))
	mkfile(t, filepath.Join(dir, ".cfg"), now.Add(-30*time.Minute))
	mkfile(t, filepath.Join(dir, "sub", "inner"), time.Time{})
	require.NoError(t, os.Chtimes(filepath.Join(dir, "sub"), now.Add(-3*time.Hour), now.Add(-3*time.Hour)))
	return dir
}

func TestWalk_ShallowNameOrder(t *testing.T) {
	dir := scenarioDir(t)

	sink, results := run(t, &config.Config{}, dir)

	assert.Equal(t, []string{"h", "E a.txt@1", "E b.txt@1", "E sub@1"}, sink.lines)
	assert.Equal(t, 3, results.Entries)
	assert.False(t, results.AllRootsFailed())
}

func TestWalk_MtimeOrderAndHidden(t *testing.T) {
	dir := scenarioDir(t)

	sink, _ := run(t, &config.Config{SortKey: models.SortMtime}, dir)
	assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, sink.entries())

	sink, _ = run(t, &config.Config{SortKey: models.SortMtime, ShowHidden: true}, dir)
	assert.Equal(t, []string{".cfg", "a.txt", "b.txt", "sub"}, sink.entries())

	sink, _ = run(t, &config.Config{SortKey: models.SortMtime, ShowHidden: true, Reverse: true}, dir)
	assert.Equal(t, []string{"sub", "b.txt", "a.txt", ".cfg"}, sink.entries())

	sink, _ = run(t, &config.Config{ShowHidden: true}, dir)
	assert.Equal(t, []string{".cfg", "a.txt", "b.txt", "sub"}, sink.entries())
}

func TestWalk_SelfParent(t *testing.T) {
	dir := scenarioDir(t)

	sink, _ := run(t, &config.Config{ShowHidden: true, ShowSelfParent: true}, dir)
	assert.Equal(t, []string{".", "..", ".cfg", "a.txt", "b.txt", "sub"}, sink.entries())

	// raw order, but the synthesized pair always leads
	sink, _ = run(t, &config.Config{NoSort: true, ShowHidden: true, ShowSelfParent: true}, dir)
	got := sink.entries()
	require.Len(t, got, 6)
	assert.Equal(t, []string{".", ".."}, got[:2])
	assert.ElementsMatch(t, []string{".cfg", "a.txt", "b.txt", "sub"}, got[2:])
}

func TestWalk_Recursive(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "a"), time.Time{})
	mkfile(t, filepath.Join(dir, "sub", "x"), time.Time{})
	mkfile(t, filepath.Join(dir, "sub", "deeper", "y"), time.Time{})
	mkfile(t, filepath.Join(dir, "z"), time.Time{})

	sink, results := run(t, &config.Config{Recursive: true}, dir)

	sub := filepath.Join(dir, "sub")
	deeper := filepath.Join(sub, "deeper")
	assert.Equal(t, []string{
		"h",
		"E a@1",
		"E sub@1",
		"H " + sub,
		"E deeper@2",
		"H " + deeper,
		"E y@3",
		"E x@2",
		"E z@1",
	}, sink.lines)
	assert.Equal(t, 6, results.Entries)
	assert.Equal(t, 3, results.Dirs)
}

func TestWalk_RecursiveAnnouncementsFollowDepth(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "d1", "f1"), time.Time{})
	mkfile(t, filepath.Join(dir, "d1", "d2", "f2"), time.Time{})
	mkdir(t, filepath.Join(dir, "empty"))
	mkfile(t, filepath.Join(dir, "e", "f3"), time.Time{})

	sink, _ := run(t, &config.Config{Recursive: true}, dir)

	lastDepth := 0
	announcements := 0
	for i, ev := range sink.events {
		switch ev.Type {
		case models.EventHeader:
			if i == 0 {
				continue
			}
			announcements++
			require.Less(t, i+1, len(sink.events), "announcement must precede an entry")
			next := sink.events[i+1]
			require.Equal(t, models.EventEntry, next.Type)
			assert.Equal(t, lastDepth+1, next.Depth, "announcement before %s", next.Entry.Path)
			assert.True(t, ev.Separator)
		case models.EventEntry:
			if ev.Depth > lastDepth {
				require.Equal(t, models.EventHeader, sink.events[i-1].Type, "depth grew without announcement at %s", ev.Entry.Path)
			}
			lastDepth = ev.Depth
		}
	}

	// d1, d1/d2, e; the empty directory is never announced
	assert.Equal(t, 3, announcements)
	assert.NotContains(t, sink.lines, "H "+filepath.Join(dir, "empty"))
}

func TestWalk_RecursiveVisitsEachEntryOnce(t *testing.T) {
	dir := t.TempDir()
	want := map[string]bool{}
	for _, p := range []string{"a/b/c/f", "a/b/g", "a/h", "i/j", "k"} {
		mkfile(t, filepath.Join(dir, p), time.Time{})
	}
	for _, p := range []string{"a", "a/b", "a/b/c", "a/b/c/f", "a/b/g", "a/h", "i", "i/j", "k"} {
		want[filepath.Join(dir, p)] = true
	}

	sink, _ := run(t, &config.Config{Recursive: true}, dir)

	seen := map[string]int{}
	for _, ev := range sink.events {
		if ev.Type == models.EventEntry {
			seen[ev.Entry.Path]++
		}
	}
	assert.Len(t, seen, len(want))
	for p, n := range seen {
		assert.True(t, want[p], "unexpected entry %s", p)
		assert.Equal(t, 1, n, "%s visited %d times", p, n)
	}
}

func TestWalk_RecursiveSkipsHiddenAndSymlinkedDirs(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, ".git", "HEAD"), time.Time{})
	mkfile(t, filepath.Join(dir, "real", "file"), time.Time{})
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")))

	sink, _ := run(t, &config.Config{Recursive: true}, dir)
	assert.Equal(t, []string{"link", "real", "file"}, sink.entries())

	sink, _ = run(t, &config.Config{Recursive: true, ShowHidden: true, ShowSelfParent: true}, dir)
	assert.Equal(t, []string{".", "..", ".git", "HEAD", "link", "real", "file"}, sink.entries())
}

func TestWalk_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	sink, results := run(t, &config.Config{ShowDirHeader: true}, dir)

	assert.Equal(t, []string{"H " + dir}, sink.lines)
	assert.Equal(t, 0, sink.events[0].Count)
	assert.Zero(t, results.Errors)

	sink, _ = run(t, &config.Config{}, dir)
	assert.Equal(t, []string{"h"}, sink.lines)
}

func TestWalk_PlainDirs(t *testing.T) {
	dir := scenarioDir(t)

	sink, results := run(t, &config.Config{PlainDirs: true, Recursive: true}, dir)

	assert.Equal(t, []string{"E " + dir + "@0"}, sink.lines)
	assert.Zero(t, results.Dirs, "directory must not be enumerated")
}

func TestWalk_MultipleRoots(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "d2", "two"), time.Time{})
	mkfile(t, filepath.Join(dir, "d1", "one"), time.Time{})
	mkfile(t, filepath.Join(dir, "file"), time.Time{})
	d1, d2, file := filepath.Join(dir, "d1"), filepath.Join(dir, "d2"), filepath.Join(dir, "file")

	sink, results := run(t, &config.Config{}, d2, file, d1)

	assert.Equal(t, []string{
		"E " + file + "@0",
		"H " + d1,
		"E one@1",
		"H " + d2,
		"E two@1",
	}, sink.lines)
	assert.True(t, sink.events[1].Separator)
	assert.True(t, sink.events[3].Separator)
	assert.Equal(t, 3, results.Roots)
}

func TestWalk_SingleDirRootHasNoSeparator(t *testing.T) {
	dir := scenarioDir(t)

	sink, _ := run(t, &config.Config{ShowDirHeader: true}, dir)

	require.NotEmpty(t, sink.events)
	assert.Equal(t, models.EventHeader, sink.events[0].Type)
	assert.False(t, sink.events[0].Separator)
}

func TestWalk_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	sink, results := run(t, &config.Config{}, missing)
	assert.Equal(t, []string{"X " + missing}, sink.lines)
	assert.True(t, results.AllRootsFailed())

	var statErr *models.StatError
	require.ErrorAs(t, sink.events[0].Err, &statErr)
	assert.Equal(t, models.ErrorNotExist, statErr.Kind)

	dir := scenarioDir(t)
	sink, results = run(t, &config.Config{}, missing, dir)
	assert.Equal(t, "X "+missing, sink.lines[0])
	assert.Equal(t, "H "+dir, sink.lines[1])
	assert.False(t, results.AllRootsFailed())
	assert.Equal(t, 1, results.FailedRoots)
}

func TestWalk_SinkFailureStops(t *testing.T) {
	dir := scenarioDir(t)
	sink := &recordingSink{failOn: 2}

	_, err := NewWalker(&config.Config{}, zap.NewNop(), sink).Walk([]string{dir})

	require.Error(t, err)
	assert.Len(t, sink.events, 1)
}

// withReadDir runs a walk whose directory reads go through readDir
func withReadDir(t *testing.T, cfg *config.Config, readDir func(string, int) ([]*models.Entry, error), roots ...string) (*recordingSink, *models.ListResults) {
	t.Helper()
	sink := &recordingSink{}
	w := NewWalker(cfg, zap.NewNop(), sink)
	w.readDir = readDir
	results, err := w.Walk(roots)
	require.NoError(t, err)
	return sink, results
}

func TestWalk_EntryFailureContinues(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		mkfile(t, filepath.Join(dir, name), time.Time{})
	}
	broken := filepath.Join(dir, "b.txt")

	readDir := func(path string, depth int) ([]*models.Entry, error) {
		entries, err := filesystem.ReadDir(path, depth)
		if err != nil {
			return nil, err
		}
		for i, e := range entries {
			if e.Path == broken {
				entries[i] = models.NewEntry(e.Name, e.Path, depth, models.TypeRegular, func() (*models.Metadata, error) {
					return nil, &fs.PathError{Op: "lstat", Path: broken, Err: fs.ErrPermission}
				})
			}
		}
		return entries, nil
	}

	sink, results := withReadDir(t, &config.Config{}, readDir, dir)

	assert.Equal(t, []string{"h", "E a.txt@1", "X " + broken, "E c.txt@1"}, sink.lines)
	assert.Equal(t, 2, results.Entries)
	assert.Equal(t, 1, results.Errors)
	assert.Equal(t, 0, results.FailedRoots)

	var statErr *models.StatError
	require.ErrorAs(t, sink.events[2].Err, &statErr)
	assert.Equal(t, models.ErrorPermission, statErr.Kind)
}

func TestWalk_UnopenableSubdirContinues(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "a.txt"), time.Time{})
	mkfile(t, filepath.Join(dir, "sub", "inner"), time.Time{})
	mkfile(t, filepath.Join(dir, "z.txt"), time.Time{})
	sub := filepath.Join(dir, "sub")

	readDir := func(path string, depth int) ([]*models.Entry, error) {
		if path == sub {
			return nil, &fs.PathError{Op: "open", Path: sub, Err: fs.ErrPermission}
		}
		return filesystem.ReadDir(path, depth)
	}

	sink, results := withReadDir(t, &config.Config{Recursive: true}, readDir, dir)

	assert.Equal(t, []string{"h", "E a.txt@1", "E sub@1", "X " + sub, "E z.txt@1"}, sink.lines)
	assert.Equal(t, 3, results.Entries)
	assert.Equal(t, 1, results.Errors)
	assert.Equal(t, []string{sub}, results.ErrorPaths)
	assert.Equal(t, "permission denied", sink.events[3].Err.Error())
}

func TestWalk_UnreadableSubdirOnDisk(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "a.txt"), time.Time{})
	mkfile(t, filepath.Join(dir, "locked", "inner"), time.Time{})
	mkfile(t, filepath.Join(dir, "z.txt"), time.Time{})
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	sink, results := run(t, &config.Config{Recursive: true}, dir)

	assert.Equal(t, []string{"h", "E a.txt@1", "E locked@1", "X " + locked, "E z.txt@1"}, sink.lines)
	assert.Equal(t, 1, results.Errors)
}
