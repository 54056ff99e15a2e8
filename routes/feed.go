package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/univent/univent-be/app"
	"github.com/univent/univent-be/config"
	"github.com/univent/univent-be/db"
	"github.com/univent/univent-be/middleware"
	"github.com/univent/univent-be/util"
)

type feedRoutes struct {
	db  db.Database
	cfg *config.Config
}

func AddFeedRoutes(group *gin.RouterGroup, database db.Database, sessionDB db.SessionDatabase, cfg *config.Config) {
	routes := feedRoutes{db: database, cfg: cfg}
	feeds := group.Group("/feeds", middleware.Auth(database, sessionDB, &middleware.AuthConfig{}))
	feeds.POST("", util.HandlerWrapper(routes.getFeed, &util.HandlerOpts{}))
}

func (fr *feedRoutes) getFeed(c *gin.Context) (interface{}, *util.HTTPError) {
	var cursor app.TaggedUnionCursor
	if err := c.BindJSON(&cursor); err != nil {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	viewer := middleware.MustGetUser(c)
	posts, nextCursor, err := cursor.Posts(c, fr.db, viewer, &app.PostCursorOpts{Limit: timelinePageSize})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}

	return gin.H{
		"posts":  displayPosts(posts, viewer, fr.cfg.SecretKey),
		"cursor": nextCursor,
	}, nil
}
