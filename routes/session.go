package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/univent/univent-be/config"
	"github.com/univent/univent-be/db"
	"github.com/univent/univent-be/middleware"
	"github.com/univent/univent-be/model"
	"github.com/univent/univent-be/util"
)

type sessionRoutes struct {
	db        db.UserDatabase
	sessionDB db.SessionDatabase
	cfg       *config.Config
}

func AddSessionRoutes(group *gin.RouterGroup, database db.Database, sessionDB db.SessionDatabase, cfg *config.Config) {
	routes := sessionRoutes{database, sessionDB, cfg}
	sessions := group.Group("/sessions")
	sessions.POST("", util.HandlerWrapper(routes.login, &util.HandlerOpts{}))
	sessions.DELETE("",
		middleware.Auth(database, sessionDB, &middleware.AuthConfig{}),
		util.HandlerWrapper(routes.logout, &util.HandlerOpts{}))
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// single message for unknown user and wrong password, so logins can't be
// used to probe which usernames exist
var badCredentialsErr = &util.HTTPError{
	Status:  http.StatusUnauthorized,
	Message: "incorrect username or password",
}

func (sr *sessionRoutes) login(c *gin.Context) (interface{}, *util.HTTPError) {
	var req loginReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}

	user, err := sr.db.GetUserByUsername(c, req.Username)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if user == nil || !user.CheckPassword(req.Password) {
		return nil, badCredentialsErr
	}

	session := &model.Session{
		Token:     uuid.NewString(),
		UserId:    user.Id,
		ExpiresAt: time.Now().Add(sr.cfg.SessionTTL),
	}
	if err := sr.sessionDB.CreateSession(c, session); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.Token,
		int(sr.cfg.SessionTTL.Seconds()), "/", "", false, true)
	return user, nil
}

func (sr *sessionRoutes) logout(c *gin.Context) (interface{}, *util.HTTPError) {
	session := middleware.MustGetSession(c)
	if err := sr.sessionDB.DeleteSession(c, session.Token); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	return nil, nil
}
