package model

// Channel is a fixed category posts are grouped under. The set of channels is
// seeded by migration and not user-editable.
type Channel struct {
	Id   int64  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// DefaultChannelCode is where posts land when the requested channel is
// unknown.
const DefaultChannelCode = "general"
