package model

import "time"

type Session struct {
	Token     string    `db:"token" json:"-"`
	UserId    int64     `db:"user_id" json:"userId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
}

func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
