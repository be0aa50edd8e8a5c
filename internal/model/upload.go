package model

// Upload is one accepted upload. UploadTS is unix milliseconds on the
// server-local clock; the stored file is durable before the row exists.
type Upload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FileName string `json:"file_name"`
	UploadTS int64  `json:"upload_ts"`
}
