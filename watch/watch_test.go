package watch

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/thatguystone/cog/check"
	"github.com/thatguystone/siteflow/internal/testutil"
)

type testWatcher struct {
	ch chan Events
}

func (w testWatcher) Changed(evs Events) {
	w.ch <- evs
}

func TestWatchBasic(t *testing.T) {
	c := check.New(t)

	tmp := testutil.NewTmpDir(c, map[string]string{
		"_dev/sass/main.sass": "a\n  b: c\n",
	})
	defer tmp.Remove()

	w, err := New(tmp.Path("."))
	c.Must.Nil(err)
	defer w.Stop()

	tw := testWatcher{ch: make(chan Events, 10)}
	w.Notify(tw)

	rs := NewRules(tmp.Path("."), siteRules)

	var tasks []string
	c.Until(5*time.Second, func() bool {
		tmp.WriteFile("_dev/sass/main.sass", "a\n  b: d\n")

		select {
		case evs := <-tw.ch:
			tasks = rs.Match(evs.Paths())
			return len(tasks) > 0

		case <-time.After(100 * time.Millisecond):
			return false
		}
	})

	c.Equal(tasks, []string{"style-build"})
}

func TestWatchMissingDir(t *testing.T) {
	c := check.New(t)

	tmp := testutil.NewTmpDir(c, nil)
	defer tmp.Remove()

	_, err := New(filepath.Join(tmp.Path("."), "narp"))
	c.NotNil(err)
}
