package model

import (
	"time"
)

// MaxContentLength is the rune limit on post bodies.
const MaxContentLength = 140

type Status string

const (
	StatusPosted  Status = "POSTED"
	StatusDeleted Status = "DELETED"
)

type Post struct {
	Id int64 `db:"id" json:"id"`
	// CreatorId is only serialized for viewers allowed to de-anonymize the
	// post (the author themselves and admins). MakeDisplayableFor clears it
	// for everyone else.
	CreatorId int64    `db:"author_id" json:"creatorId,omitempty"`
	Alias     string   `db:"-" json:"alias"`
	Content   string   `db:"content" json:"content"`
	Channel   *Channel `db:"-" json:"channel"`
	Status    Status   `db:"status" json:"status"`
	NumLikes  int      `db:"num_likes" json:"numLikes"`
	// LikedByViewer reports whether the requesting user has liked the post.
	LikedByViewer bool       `db:"-" json:"likedByViewer"`
	IsMine        bool       `db:"-" json:"isMine"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt     *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// MakeDisplayableFor mutates the post for serialization to the given viewer:
// only the author and admins may see who wrote it.
func (p *Post) MakeDisplayableFor(viewer *User) *Post {
	p.IsMine = viewer != nil && viewer.Id == p.CreatorId
	if viewer == nil || (!viewer.IsAdmin && viewer.Id != p.CreatorId) {
		p.CreatorId = 0
	}
	return p
}

func (p *Post) CanDelete(user *User) bool {
	return user != nil && (user.IsAdmin || user.Id == p.CreatorId)
}

// VisibleTo reports whether the post may be fetched directly by the viewer.
// Deleted posts stay visible to their author and to admins.
func (p *Post) VisibleTo(viewer *User) bool {
	return p.Status != StatusDeleted || p.CanDelete(viewer)
}

type Comment struct {
	Id        int64     `db:"id" json:"id"`
	PostId    int64     `db:"post_id" json:"postId"`
	CreatorId int64     `db:"author_id" json:"creatorId,omitempty"`
	Alias     string    `db:"-" json:"alias"`
	Content   string    `db:"content" json:"content"`
	IsMine    bool      `db:"-" json:"isMine"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// MakeDisplayableFor mutates the comment the same way posts are anonymized.
func (cm *Comment) MakeDisplayableFor(viewer *User) *Comment {
	cm.IsMine = viewer != nil && viewer.Id == cm.CreatorId
	if viewer == nil || (!viewer.IsAdmin && viewer.Id != cm.CreatorId) {
		cm.CreatorId = 0
	}
	return cm
}

type Report struct {
	Id        int64     `db:"id" json:"id"`
	PostId    int64     `db:"post_id" json:"postId"`
	CreatorId int64     `db:"creator_id" json:"creatorId"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
