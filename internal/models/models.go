package models

// ImageRef identifies one file in the image pool. Dir carries its own
// trailing separator; the file path is Dir+Image.
type ImageRef struct {
	Dir   string `json:"dir"`
	Image string `json:"image"`
}

// Path returns the concatenated file path of the image.
func (r ImageRef) Path() string {
	return r.Dir + r.Image
}

// ReindexResult is returned after the pool has been rebuilt
type ReindexResult struct {
	Total       int `json:"total"`
	Directories int `json:"directories"`
}
