package app

import (
	"context"
	"strconv"
	"time"

	appDb "github.com/univent/univent-be/db"
	"github.com/univent/univent-be/model"
)

// MostRecentCursor pages the timeline newest first. The zero value is the
// first page across all channels.
type MostRecentCursor struct {
	Channels []int64    `json:"channels,omitempty"`
	LastDate *time.Time `json:"lastDate,omitempty"`
	LastId   string     `json:"lastId"`
}

func (mrc *MostRecentCursor) Posts(ctx context.Context, db appDb.Database, viewer *model.User, cursorOpts *PostCursorOpts) (posts []*model.Post, cursor interface{}, err error) {
	var likeHistoryOf int64
	if viewer != nil {
		likeHistoryOf = viewer.Id
	}

	posts, err = db.GetPosts(ctx, &appDb.PostsListQuery{
		ChannelIds: mrc.Channels,
		From:       mrc.LastDate,
		LastId:     mrc.LastId,
		PostsListQueryOpts: &appDb.PostsListQueryOpts{
			Limit:         cursorOpts.Limit,
			LikeHistoryOf: likeHistoryOf,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return posts, mrc.buildCursorForNextPage(posts), nil
}

func (mrc *MostRecentCursor) buildCursorForNextPage(previousPosts []*model.Post) *MostRecentCursor {
	if len(previousPosts) == 0 {
		return nil
	}
	last := previousPosts[len(previousPosts)-1]
	lastDate := last.CreatedAt
	return &MostRecentCursor{
		Channels: mrc.Channels,
		LastDate: &lastDate,
		LastId:   strconv.FormatInt(last.Id, 10),
	}
}

func (mrc *MostRecentCursor) WithChannels(channels []int64) *MostRecentCursor {
	newCursor := *mrc
	newCursor.Channels = channels
	return &newCursor
}
