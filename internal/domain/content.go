package domain

import "time"

// Video metadata. Upload and full CRUD live outside this core; the model
// exists because likes target videos and channel stats sum their views.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Views       int64     `json:"views"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment on a video; a like target.
type Comment struct {
	ID        string
	VideoID   string
	OwnerID   string
	Content   string
	CreatedAt time.Time
}

// Tweet is a short text post; a like target.
type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
}
