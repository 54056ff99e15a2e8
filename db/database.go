package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/univent/univent-be/model"
)

type Database interface {
	PostDatabase
	ChannelDatabase
	UserDatabase
	SessionDatabase
	GetSQLDB() *sql.DB
	Close() error
}

type CreatePost struct {
	CreatorId int64
	ChannelId int64
	Content   string
	// CreatedAt overrides the insert timestamp when set (seeding).
	CreatedAt *time.Time
}

type CreateComment struct {
	PostId    int64
	CreatorId int64
	// SessionToken is a spare per-comment token kept alongside the creator id.
	SessionToken string
	Content      string
	CreatedAt    *time.Time
}

type CreateReport struct {
	PostId int64
	Reason string
}

type IntFilter struct {
	Val int64
}

type ByUser struct {
	Id int64
}

// ByLikesPaging pages by like count instead of recency.
type ByLikesPaging struct {
	MaxLikes *IntFilter
	LastId   string
}

type PostsListQueryOpts struct {
	Limit int16
	// LikeHistoryOf marks posts liked by the given user. 0 disables the
	// lookup.
	LikeHistoryOf int64
}

type PostsListQuery struct {
	ChannelIds []int64
	// From and LastId page by recency: posts strictly older than From, with
	// LastId breaking created_at ties.
	From   *time.Time
	LastId string
	ByUser *ByUser
	// Status filters by lifecycle state. nil means POSTED only.
	Status      *model.Status
	PageByLikes *ByLikesPaging
	*PostsListQueryOpts
}

type PostQueryOpts struct {
	LikeHistoryOf int64
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId int64, err error)
	GetPostById(ctx context.Context, id int64, opts *PostQueryOpts) (*model.Post, error)
	GetPosts(ctx context.Context, query *PostsListQuery) ([]*model.Post, error)
	GetDeletedPosts(ctx context.Context) ([]*model.Post, error)
	MarkPostAsDeleted(ctx context.Context, id int64) error
	// ToggleLike flips the user's like on a post and returns the new state
	// along with the post's updated like count.
	ToggleLike(ctx context.Context, userId, postId int64) (liked bool, numLikes int, err error)
	CreateComment(ctx context.Context, req *CreateComment) (commentId int64, err error)
	GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error)
	CreateReport(ctx context.Context, userId int64, req *CreateReport) (reportId int64, err error)
	GetReports(ctx context.Context) ([]*model.Report, error)
}

type ChannelDatabase interface {
	GetChannels(ctx context.Context) ([]*model.Channel, error)
}

type UserDatabase interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type SessionDatabase interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
}
