package app

import (
	"context"
	"strconv"

	appDb "github.com/univent/univent-be/db"
	"github.com/univent/univent-be/model"
)

type LastNumLikes struct {
	Val int64 `json:"val"`
}

func (lnl *LastNumLikes) ToDBFilter() *appDb.IntFilter {
	if lnl == nil {
		return nil
	}
	return &appDb.IntFilter{Val: lnl.Val}
}

// MostLikedCursor pages the timeline by like count, falling back to id order
// among posts with equal counts.
type MostLikedCursor struct {
	Channels     []int64       `json:"channels,omitempty"`
	LastNumLikes *LastNumLikes `json:"lastNumLikes,omitempty"`
	LastId       string        `json:"lastId"`
}

func (mlc *MostLikedCursor) Posts(ctx context.Context, db appDb.Database, viewer *model.User, cursorOpts *PostCursorOpts) (posts []*model.Post, cursor interface{}, err error) {
	var likeHistoryOf int64
	if viewer != nil {
		likeHistoryOf = viewer.Id
	}

	posts, err = db.GetPosts(ctx, &appDb.PostsListQuery{
		ChannelIds: mlc.Channels,
		PageByLikes: &appDb.ByLikesPaging{
			MaxLikes: mlc.LastNumLikes.ToDBFilter(),
			LastId:   mlc.LastId,
		},
		PostsListQueryOpts: &appDb.PostsListQueryOpts{
			Limit:         cursorOpts.Limit,
			LikeHistoryOf: likeHistoryOf,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return posts, mlc.buildCursorForNextPage(posts), nil
}

func (mlc *MostLikedCursor) buildCursorForNextPage(previousPosts []*model.Post) *MostLikedCursor {
	if len(previousPosts) == 0 {
		return nil
	}
	last := previousPosts[len(previousPosts)-1]
	return &MostLikedCursor{
		Channels:     mlc.Channels,
		LastNumLikes: &LastNumLikes{int64(last.NumLikes)},
		LastId:       strconv.FormatInt(last.Id, 10),
	}
}

func (mlc *MostLikedCursor) WithChannels(channels []int64) *MostLikedCursor {
	newCursor := *mlc
	newCursor.Channels = channels
	return &newCursor
}
