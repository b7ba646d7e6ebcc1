package harness

// ResultKind categorizes a recorded result so reporting can tell a
// genuine command assertion from the harness's own diagnostics.
type ResultKind string

const (
	// KindCheck is an ordinary assertion over a command outcome.
	KindCheck ResultKind = "check"

	// KindSentinel marks an assertion that ran before any command
	// outcome was recorded.
	KindSentinel ResultKind = "sentinel"

	// KindRestore marks a best-effort property restore that was
	// skipped or did not succeed.
	KindRestore ResultKind = "restore"

	// KindLifecycle marks phase bookkeeping, e.g. the destroy-phase
	// completion entry or an out-of-order phase invocation.
	KindLifecycle ResultKind = "lifecycle"
)

// TestResult is one recorded check. Results are immutable once
// appended; the reporting collaborator consumes them in order.
type TestResult struct {
	// Tag is the stable test-case identifier, e.g. "+service#1".
	Tag string `json:"tag"`

	// Passed is the verdict of the single evaluation.
	Passed bool `json:"passed"`

	// Message is empty on a pass. On a failed check it is the literal
	// failure message supplied by the caller; on a diagnostic it
	// describes what the harness observed.
	Message string `json:"message,omitempty"`

	// Kind categorizes the result.
	Kind ResultKind `json:"kind"`

	// Seq is the result's position in the run, stamped from the run's
	// sequence clock. Strictly increasing within a report.
	Seq int64 `json:"seq"`
}

// Report is the ordered result log for one test subject's run.
type Report struct {
	// Subject identifies the test subject the run belongs to.
	Subject string `json:"subject"`

	// Service is the managed service the subject exercised.
	Service string `json:"service"`

	// RunToken correlates this report with the stored run.
	RunToken string `json:"run_token"`

	// Results holds every recorded result in invocation order.
	Results []TestResult `json:"results"`
}

// NewReport creates an empty report for a run.
func NewReport(subject, service, runToken string) *Report {
	return &Report{
		Subject:  subject,
		Service:  service,
		RunToken: runToken,
		Results:  []TestResult{},
	}
}

// Add appends a result. Insertion order is execution order.
func (r *Report) Add(res TestResult) {
	r.Results = append(r.Results, res)
}

// Passed reports whether every recorded result passed.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Counts returns the number of passed and failed results.
func (r *Report) Counts() (passed, failed int) {
	for _, res := range r.Results {
		if res.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// snapshotMap renders the report as plain maps and slices for
// canonical JSON serialization.
func (r *Report) snapshotMap() map[string]any {
	results := make([]any, len(r.Results))
	for i, res := range r.Results {
		m := map[string]any{
			"tag":    res.Tag,
			"passed": res.Passed,
			"kind":   string(res.Kind),
			"seq":    res.Seq,
		}
		if res.Message != "" {
			m["message"] = res.Message
		}
		results[i] = m
	}
	return map[string]any{
		"subject":   r.Subject,
		"service":   r.Service,
		"run_token": r.RunToken,
		"results":   results,
	}
}

// Snapshot serializes the report to canonical JSON for golden-file
// comparison and storage-independent diffing.
func (r *Report) Snapshot() ([]byte, error) {
	return MarshalCanonical(r.snapshotMap())
}
