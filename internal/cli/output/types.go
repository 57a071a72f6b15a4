package output

// JSON output shapes shared by commands. Field names are the stable
// machine-readable contract; keep them snake_case.

// ComposeOutput is the JSON shape of a compose result.
type ComposeOutput struct {
	RunID       string   `json:"run_id"`
	Composition string   `json:"composition"`
	Lines       []string `json:"lines"`
	Text        string   `json:"text"`
	DurationMS  int64    `json:"duration_ms"`
}

// DeclarationInfo describes one declaration for list output.
type DeclarationInfo struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Fields     []string `json:"fields,omitempty"`
	References []string `json:"references,omitempty"`
}

// ListSummary aggregates declaration counts.
type ListSummary struct {
	Total  int            `json:"total"`
	ByKind map[string]int `json:"by_kind"`
}

// ListOutput is the JSON shape of the list command.
type ListOutput struct {
	Declarations []DeclarationInfo `json:"declarations"`
	Summary      ListSummary       `json:"summary"`
}

// GraphNode is one node of the reference graph.
type GraphNode struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// GraphEdge is one referencer-to-referenced edge.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphOutput is the JSON shape of the graph command.
type GraphOutput struct {
	Nodes    []GraphNode `json:"nodes"`
	Edges    []GraphEdge `json:"edges"`
	Dangling []string    `json:"dangling,omitempty"`
}

// CheckIssue is one problem found by the check command.
type CheckIssue struct {
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// CheckOutput is the JSON shape of the check command.
type CheckOutput struct {
	OK     bool         `json:"ok"`
	Issues []CheckIssue `json:"issues,omitempty"`
}

// RunRecord is one run-history entry for the runs command.
type RunRecord struct {
	ID          string `json:"id"`
	Composition string `json:"composition"`
	Source      string `json:"source,omitempty"`
	Status      string `json:"status"`
	Lines       int    `json:"lines"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}
