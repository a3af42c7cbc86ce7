package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thatguystone/cog/check"
)

func scrape(r *Recorder) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	return rr
}

func TestRecorder(t *testing.T) {
	c := check.New(t)

	r := New()
	r.ObserveTask("style-build", 10*time.Millisecond, nil)
	r.ObserveTask("style-build", time.Millisecond, errors.New("nope"))
	r.IncReloadEvent("inject")
	r.SetClients(3)
	r.IncWatchBatch()

	rr := scrape(r)
	c.Equal(rr.Code, http.StatusOK)

	body := rr.Body.String()
	c.Contains(body, `siteflow_task_results_total{result="ok",task="style-build"} 1`)
	c.Contains(body, `siteflow_task_results_total{result="failed",task="style-build"} 1`)
	c.Contains(body, `siteflow_livereload_events_total{kind="inject"} 1`)
	c.Contains(body, `siteflow_livereload_clients 3`)
	c.Contains(body, `siteflow_watch_batches_total 1`)
}

func TestNilRecorder(t *testing.T) {
	c := check.New(t)

	var r *Recorder
	c.NotPanics(func() {
		r.ObserveTask("x", time.Second, nil)
		r.IncReloadEvent("reload")
		r.SetClients(1)
		r.IncWatchBatch()
	})

	c.Equal(scrape(r).Code, http.StatusNotFound)
}
