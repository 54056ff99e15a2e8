package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/univent/univent-be/controllers"
	"github.com/univent/univent-be/util"
)

type channelRoutes struct {
	controller *controllers.ChannelController
}

func AddChannelRoutes(group *gin.RouterGroup, controller *controllers.ChannelController) {
	routes := channelRoutes{controller}
	channels := group.Group("/channels")
	channels.GET("", util.HandlerWrapper(routes.getChannels, &util.HandlerOpts{}))
}

func (cr *channelRoutes) getChannels(c *gin.Context) (interface{}, *util.HTTPError) {
	return cr.controller.Channels(), nil
}
