package model

// UploadResponse is returned by the image upload endpoints. Rejected files
// carry Status "error" and a Detail.
type UploadResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename,omitempty"`
	Detail   string `json:"detail,omitempty"`
}
