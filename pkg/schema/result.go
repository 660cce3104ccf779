package schema

// Severity indicates the importance of an issue
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// IssueKind categorizes a structural issue
type IssueKind int

const (
	UnknownNodeLabel IssueKind = iota
	UnknownEdgeLabel
	ForbiddenEndpointPair
	MissingRequiredProp
	DanglingEdge
	DisconnectedComponent
)

func (k IssueKind) String() string {
	switch k {
	case UnknownNodeLabel:
		return "UnknownNodeLabel"
	case UnknownEdgeLabel:
		return "UnknownEdgeLabel"
	case ForbiddenEndpointPair:
		return "ForbiddenEndpointPair"
	case MissingRequiredProp:
		return "MissingRequiredProp"
	case DanglingEdge:
		return "DanglingEdge"
	case DisconnectedComponent:
		return "DisconnectedComponent"
	default:
		return "Unknown"
	}
}

// Issue is one structural rule violation. Issues are data, not control flow:
// validation never fails hard on them, it reports them all at once.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Severity Severity  `json:"severity"`
	NodeID   string    `json:"nodeId,omitempty"`
	EdgeID   string    `json:"edgeId,omitempty"`
	Message  string    `json:"message"`
}

// Result is the outcome of a validation pass. OK is false when any
// Error-severity issue was found; warnings alone leave OK true.
type Result struct {
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues"`
}

// Messages returns the human-readable issue messages in report order.
func (r *Result) Messages() []string {
	msgs := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		msgs[i] = issue.Message
	}
	return msgs
}

// Errors returns only the Error-severity issues.
func (r *Result) Errors() []Issue {
	errs := make([]Issue, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Severity == Error {
			errs = append(errs, issue)
		}
	}
	return errs
}
