package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/univent/univent-be/config"
	"github.com/univent/univent-be/db"
	"github.com/univent/univent-be/middleware"
	"github.com/univent/univent-be/model"
	"github.com/univent/univent-be/util"
)

type userRoutes struct {
	db  db.Database
	cfg *config.Config
}

func AddUserRoutes(group *gin.RouterGroup, database db.Database, sessionDB db.SessionDatabase, cfg *config.Config) {
	routes := userRoutes{database, cfg}
	users := group.Group("/users")
	users.PUT("", util.HandlerWrapper(routes.createUser, &util.HandlerOpts{}))

	me := users.Group("/me", middleware.Auth(database, sessionDB, &middleware.AuthConfig{}))
	me.GET("", util.HandlerWrapper(routes.getMe, &util.HandlerOpts{}))
	me.GET("/posts", util.HandlerWrapper(routes.getMyPosts, &util.HandlerOpts{}))
}

type createUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ur *userRoutes) createUser(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createUserReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "username and password are required",
		}
	}

	user := &model.User{Username: req.Username}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, &util.HTTPError{
			Status:  http.StatusInternalServerError,
			Message: "could not hash password",
		}
	}
	if err := ur.db.CreateUser(c, user); err != nil {
		if db.IsDupKeyErr(err) {
			return nil, &util.HTTPError{
				Status:  http.StatusConflict,
				Message: "that username is already taken",
			}
		}
		return nil, util.BuildDbHTTPErr(err)
	}
	return user, nil
}

func (ur *userRoutes) getMe(c *gin.Context) (interface{}, *util.HTTPError) {
	return middleware.MustGetUser(c), nil
}

func (ur *userRoutes) getMyPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	user := middleware.MustGetUser(c)
	posts, err := ur.db.GetPosts(c, &db.PostsListQuery{
		ByUser: &db.ByUser{Id: user.Id},
		PostsListQueryOpts: &db.PostsListQueryOpts{
			LikeHistoryOf: user.Id,
		},
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return displayPosts(posts, user, ur.cfg.SecretKey), nil
}
