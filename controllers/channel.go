package controllers

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/univent/univent-be/db"
	"github.com/univent/univent-be/model"
)

type channelIndex struct {
	ordered []*model.Channel
	byCode  map[string]*model.Channel
}

const ChannelRefreshInterval = time.Minute * 20

// ChannelController serves the channel list from memory. Channels only change
// by migration, so a periodic refresh is plenty.
type ChannelController struct {
	db           db.ChannelDatabase
	cached       *channelIndex
	cachedLock   sync.Mutex
	updateTicker *time.Ticker
}

func NewChannelController(c context.Context, db db.ChannelDatabase) (*ChannelController, error) {
	controller := &ChannelController{
		db: db,
	}
	if err := controller.updateCachedIndex(c); err != nil {
		return nil, err
	}

	updateTicker := time.NewTicker(ChannelRefreshInterval)
	controller.updateTicker = updateTicker
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Println("recovered while attempting to update channel cache", r)
			}
		}()
		for {
			select {
			case <-c.Done():
				updateTicker.Stop()
				return
			case <-updateTicker.C:
				controller.attemptToUpdateCachedIndex(c)
			}
		}
	}()

	return controller, nil
}

func (cc *ChannelController) Channels() []*model.Channel {
	cc.cachedLock.Lock()
	defer cc.cachedLock.Unlock()
	return cc.cached.ordered
}

func (cc *ChannelController) ByCode(code string) (*model.Channel, bool) {
	cc.cachedLock.Lock()
	defer cc.cachedLock.Unlock()
	channel, ok := cc.cached.byCode[code]
	return channel, ok
}

// Default returns the fallback channel for posts aimed at an unknown code.
func (cc *ChannelController) Default() *model.Channel {
	if channel, ok := cc.ByCode(model.DefaultChannelCode); ok {
		return channel
	}
	// migrations always seed the default channel; reaching here means the
	// database was tampered with
	channels := cc.Channels()
	if len(channels) == 0 {
		return nil
	}
	return channels[0]
}

func (cc *ChannelController) attemptToUpdateCachedIndex(c context.Context) {
	if err := cc.updateCachedIndex(c); err != nil {
		log.Println("an error occurred while updating the channel cache", err)
	}
}

func (cc *ChannelController) updateCachedIndex(c context.Context) error {
	channels, err := cc.db.GetChannels(c)
	if err != nil {
		return err
	}
	byCode := make(map[string]*model.Channel, len(channels))
	for _, channel := range channels {
		byCode[channel.Code] = channel
	}

	cc.cachedLock.Lock()
	defer cc.cachedLock.Unlock()
	cc.cached = &channelIndex{
		ordered: channels,
		byCode:  byCode,
	}
	return nil
}
