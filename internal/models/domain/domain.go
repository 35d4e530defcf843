package domain

import "time"

// User is a Telegram user who has messaged the bot at least once.
// The row is upserted on every inbound message.
type User struct {
	ID         int64
	Username   string // empty when the account has no @username
	FirstName  string
	LastActive time.Time // date precision
}

// Video is a catalog entry. ID is the admin-chosen catalog number users
// send to receive the video; FileID is the opaque Telegram file reference.
type Video struct {
	ID          int64
	FileID      string
	Title       string
	Description string
}

// Message is one forwarded user message, kept for admin review.
type Message struct {
	ID        int64
	UserID    int64
	Text      string
	Timestamp time.Time
}

// Admin is a dynamically granted admin row. Statically configured admins
// have no row here.
type Admin struct {
	AdminID   int64
	AddedBy   int64
	AddedDate time.Time
}

// Stats is the /stats report payload.
type Stats struct {
	TotalUsers    int
	ActiveToday   int
	ActiveMonth   int
	TotalVideos   int
	MessagesToday int
}
