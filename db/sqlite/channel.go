package sqlite

import (
	"context"

	"github.com/upper/db/v4"

	"github.com/univent/univent-be/model"
)

type ChannelDB struct {
	sess db.Session
}

func getChannelDB(sess db.Session) *ChannelDB {
	return &ChannelDB{sess}
}

func (cdb *ChannelDB) GetChannels(ctx context.Context) ([]*model.Channel, error) {
	var channels []*model.Channel
	return channels, cdb.sess.SQL().
		Select("*").
		From("channels").
		OrderBy("id").
		IteratorContext(ctx).
		All(&channels)
}
