package entities

import "time"

type DeliverableResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DownloadURL string    `json:"download_url"`
	CreatedAt   time.Time `json:"created_at"`
}
