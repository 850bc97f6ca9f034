package sync

// InvalidSpecError reports a caller-supplied block spec that cannot be sent
// to Logseq. It is raised before any RPC for the offending node, so the node
// and its subtree leave no trace in the graph.
type InvalidSpecError struct {
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return "invalid block spec: " + e.Reason
}
