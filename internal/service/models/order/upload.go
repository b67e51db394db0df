package order

import "io"

// Upload is a response file to attach to an order.
// Either Content is set and the file still has to be stored,
// or URL is set and the file was stored beforehand.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
	URL         string
	Path        string
}

// Uploaded reports whether the file already has a storage URL.
func (u Upload) Uploaded() bool {
	return u.Content == nil && u.URL != ""
}
