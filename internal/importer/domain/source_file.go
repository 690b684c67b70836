package domain

// SourceFile is one discovered part-file of a dataset.
// Its identity is the filename; it never changes after discovery.
type SourceFile struct {
	Filename   string `json:"filename"`
	Path       string `json:"path"`
	SizeBytes  int64  `json:"sizeBytes"`
	PartNumber int    `json:"partNumber"`
	Company    string `json:"company"`
}
