package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/univent/univent-be/config"
	"github.com/univent/univent-be/db"
	"github.com/univent/univent-be/middleware"
	"github.com/univent/univent-be/util"
)

type adminRoutes struct {
	db  db.Database
	cfg *config.Config
}

func AddAdminRoutes(group *gin.RouterGroup, database db.Database, sessionDB db.SessionDatabase, cfg *config.Config) {
	routes := adminRoutes{database, cfg}
	admin := group.Group("/admin", middleware.Auth(database, sessionDB, &middleware.AuthConfig{
		AdminRequired: true,
	}))
	admin.GET("/deleted-posts", util.HandlerWrapper(routes.getDeletedPosts, &util.HandlerOpts{}))
	admin.GET("/reports", util.HandlerWrapper(routes.getReports, &util.HandlerOpts{}))
}

func (ar *adminRoutes) getDeletedPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	posts, err := ar.db.GetDeletedPosts(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	// viewer is an admin, so displayPosts keeps the creator ids
	return displayPosts(posts, middleware.MustGetUser(c), ar.cfg.SecretKey), nil
}

func (ar *adminRoutes) getReports(c *gin.Context) (interface{}, *util.HTTPError) {
	reports, err := ar.db.GetReports(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return reports, nil
}
