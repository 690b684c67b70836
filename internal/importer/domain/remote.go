package domain

// RemoteRecord is the subset of a remote record the pipeline compares on.
type RemoteRecord struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}

// ImportRequest is one chunk upload.
type ImportRequest struct {
	Data     string
	Filename string
	// RequestID is sent as X-Request-ID and stays the same across retries of one chunk.
	RequestID string
}

// ImportReply is the remote's answer to an accepted chunk.
// Imported is a hint only; the count delta is authoritative.
type ImportReply struct {
	Success  bool
	Imported *int64
}
