// Package state defines the project state threaded through the pipeline and
// the single merge function that applies partial updates to it.
package state

// QAStatus is the review verdict driving the workflow's conditional edge.
type QAStatus string

const (
	// QAPending means no review has run yet.
	QAPending QAStatus = ""
	// QAApproved means the reviewer accepted the generated file set.
	QAApproved QAStatus = "APPROVED"
	// QARejected means the reviewer rejected the file set with a reason.
	QARejected QAStatus = "REJECTED"
)

// Project is the single mutable record threaded through the whole pipeline.
// Exactly one stage touches it at any instant; stages communicate changes
// through Update values merged by the orchestrator.
type Project struct {
	// UserRequest is the originating task description. Immutable once set.
	UserRequest string
	// Requirements is the technical specification from the requirements role.
	Requirements string
	// TechStack is the architecture plan, ending with a parseable file list.
	TechStack string
	// GeneratedCode maps filename to file content. Keys may contain path
	// separators. On rework only regenerated keys are overwritten.
	GeneratedCode map[string]string
	// QAFeedback is the human-readable rejection reason, empty on approval.
	QAFeedback string
	// QAStatus drives the review->codegen back-edge.
	QAStatus QAStatus
	// IterationCount is the number of completed review cycles.
	IterationCount int
	// Logs accumulates across the run. Append-only.
	Logs []string
}

// New creates the initial project state for a user request.
func New(userRequest string) Project {
	return Project{
		UserRequest:   userRequest,
		GeneratedCode: make(map[string]string),
	}
}

// Update is a sparse set of field assignments returned by a stage. Nil or
// unset fields leave the corresponding project field untouched.
type Update struct {
	Requirements   *string
	TechStack      *string
	GeneratedCode  map[string]string
	QAFeedback     *string
	QAStatus       *QAStatus
	IterationCount *int
	Logs           []string
}

// String returns a pointer suitable for Update fields.
func String(s string) *string { return &s }

// Int returns a pointer suitable for Update fields.
func Int(i int) *int { return &i }

// Status returns a pointer suitable for Update fields.
func Status(s QAStatus) *QAStatus { return &s }

// Merge applies an update to a project and returns the result. This is the
// only place merge policy lives: scalar fields replace, Logs append, and
// GeneratedCode overwrites key-wise so files untouched by a rework cycle
// retain their prior content.
func Merge(p Project, u Update) Project {
	if u.Requirements != nil {
		p.Requirements = *u.Requirements
	}
	if u.TechStack != nil {
		p.TechStack = *u.TechStack
	}
	if len(u.GeneratedCode) > 0 {
		merged := make(map[string]string, len(p.GeneratedCode)+len(u.GeneratedCode))
		for k, v := range p.GeneratedCode {
			merged[k] = v
		}
		for k, v := range u.GeneratedCode {
			merged[k] = v
		}
		p.GeneratedCode = merged
	}
	if u.QAFeedback != nil {
		p.QAFeedback = *u.QAFeedback
	}
	if u.QAStatus != nil {
		p.QAStatus = *u.QAStatus
	}
	if u.IterationCount != nil {
		p.IterationCount = *u.IterationCount
	}
	if len(u.Logs) > 0 {
		logs := make([]string, 0, len(p.Logs)+len(u.Logs))
		logs = append(logs, p.Logs...)
		logs = append(logs, u.Logs...)
		p.Logs = logs
	}
	return p
}

// Outcome distinguishes the two terminal results of a run.
type Outcome string

const (
	// OutcomeApproved means the reviewer accepted the file set.
	OutcomeApproved Outcome = "approved"
	// OutcomeExhausted means the iteration ceiling was reached without
	// approval. A forced stop, not a success.
	OutcomeExhausted Outcome = "exhausted"
)
