package catalog

// Item is one record from the remote image listing. The id is unique within
// one fetched batch; nothing stronger is assumed across separate fetches.
type Item struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	DownloadURL string `json:"downloadUrl"`
}
