package models

// UploadedFile describes a file saved to transient storage for the duration
// of a single request. The request that created it owns it and must delete
// it on every exit path.
type UploadedFile struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
	Ext          string `json:"ext"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}
