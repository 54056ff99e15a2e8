package app

import (
	"context"

	appDb "github.com/univent/univent-be/db"
	"github.com/univent/univent-be/model"
)

type PostCursorOpts struct {
	Limit int16
}

// PostCursor is one page position in a timeline. Posts returns the page and
// the cursor for the page after it; a nil cursor means the timeline is
// exhausted.
type PostCursor interface {
	Posts(ctx context.Context, db appDb.Database, viewer *model.User, opts *PostCursorOpts) (posts []*model.Post, cursor interface{}, err error)
}

type PostCursorType string
