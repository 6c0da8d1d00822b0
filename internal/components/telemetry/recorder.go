package telemetry

import "sync"

type Report struct {
	Kind   string
	Id     string
	Params []any
	Count  int64
}

// Recorder implements API by keeping every report in memory, it is meant
// for asserting on reports in tests.
type Recorder struct {
	lock    sync.Mutex
	reports []Report
}

func (r *Recorder) add(report Report) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: "broken", Id: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: "warning", Id: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: "debug", Id: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Kind: "count", Id: id, Count: count})
}

// Reports returns a copy of the reports of the given kind in the order they
// were made, an empty kind returns all of them.
func (r *Recorder) Reports(kind string) []Report {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := []Report{}
	for _, report := range r.reports {
		if kind == "" || report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}
