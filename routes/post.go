package routes

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"github.com/univent/univent-be/app"
	"github.com/univent/univent-be/config"
	"github.com/univent/univent-be/controllers"
	"github.com/univent/univent-be/db"
	"github.com/univent/univent-be/middleware"
	"github.com/univent/univent-be/model"
	"github.com/univent/univent-be/util"
)

const timelinePageSize = 20

type postRoutes struct {
	db       db.Database
	channels *controllers.ChannelController
	cfg      *config.Config
}

func AddPostRoutes(group *gin.RouterGroup, database db.Database, sessionDB db.SessionDatabase, channels *controllers.ChannelController, cfg *config.Config) {
	routes := postRoutes{database, channels, cfg}
	posts := group.Group("/posts", middleware.Auth(database, sessionDB, &middleware.AuthConfig{}))
	posts.GET("", util.HandlerWrapper(routes.getPosts, &util.HandlerOpts{}))
	posts.PUT("", util.HandlerWrapper(routes.createPost, &util.HandlerOpts{}))
	posts.GET("/:id", util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))
	posts.DELETE("/:id", util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))
	posts.POST("/:id/likes", util.HandlerWrapper(routes.toggleLike, &util.HandlerOpts{}))
	posts.GET("/:id/comments", util.HandlerWrapper(routes.getComments, &util.HandlerOpts{}))
	posts.POST("/:id/comments", util.HandlerWrapper(routes.createComment, &util.HandlerOpts{}))
	posts.POST("/:id/reports", util.HandlerWrapper(routes.createReport, &util.HandlerOpts{}))
}

type createPostReq struct {
	Content string `json:"content"`
	Channel string `json:"channel"`
}

func (pr *postRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "post content is required",
		}
	}
	if utf8.RuneCountInString(content) > model.MaxContentLength {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "posts are limited to 140 characters",
		}
	}

	// unknown channel codes land in the default channel rather than failing
	channel, ok := pr.channels.ByCode(req.Channel)
	if !ok {
		channel = pr.channels.Default()
	}

	id, err := pr.db.CreatePost(c, &db.CreatePost{
		CreatorId: middleware.MustGetUser(c).Id,
		ChannelId: channel.Id,
		Content:   util.XSSSanitize(content),
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id":      id,
		"alias":   util.PostAlias(pr.cfg.SecretKey, id),
		"channel": channel,
	}, nil
}

// getPosts serves the first timeline page; deeper pages go through /feeds.
func (pr *postRoutes) getPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	viewer := middleware.MustGetUser(c)
	cursor := &app.MostRecentCursor{}
	if channel, ok := pr.channels.ByCode(c.Query("channel")); ok {
		cursor = cursor.WithChannels([]int64{channel.Id})
	}
	posts, nextCursor, err := cursor.Posts(c, pr.db, viewer, &app.PostCursorOpts{Limit: timelinePageSize})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"posts":  displayPosts(posts, viewer, pr.cfg.SecretKey),
		"cursor": nextCursor,
	}, nil
}

func (pr *postRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	viewer := middleware.MustGetUser(c)
	post, httpErr := pr.fetchVisiblePost(c, viewer)
	if httpErr != nil {
		return nil, httpErr
	}
	return displayPost(post, viewer, pr.cfg.SecretKey), nil
}

func (pr *postRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	post, err := pr.db.GetPostById(c, id, &db.PostQueryOpts{})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, postNotFoundErr
	}
	if !post.CanDelete(middleware.MustGetUser(c)) {
		return nil, &util.HTTPError{
			Status:  http.StatusForbidden,
			Message: "cannot delete another user's post",
		}
	}
	if post.Status == model.StatusDeleted {
		return nil, nil
	}
	if err := pr.db.MarkPostAsDeleted(c, id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (pr *postRoutes) toggleLike(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	post, err := pr.db.GetPostById(c, id, &db.PostQueryOpts{})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil || post.Status == model.StatusDeleted {
		return nil, postNotFoundErr
	}
	liked, numLikes, err := pr.db.ToggleLike(c, middleware.MustGetUser(c).Id, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"liked":    liked,
		"numLikes": numLikes,
	}, nil
}

type createCommentReq struct {
	Content string `json:"content"`
}

func (pr *postRoutes) createComment(c *gin.Context) (interface{}, *util.HTTPError) {
	viewer := middleware.MustGetUser(c)
	post, httpErr := pr.fetchVisiblePost(c, viewer)
	if httpErr != nil {
		return nil, httpErr
	}
	if post.Status == model.StatusDeleted {
		return nil, postNotFoundErr
	}

	var req createCommentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "comment content is required",
		}
	}

	id, err := pr.db.CreateComment(c, &db.CreateComment{
		PostId:       post.Id,
		CreatorId:    viewer.Id,
		SessionToken: xid.New().String(),
		Content:      util.XSSSanitize(content),
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id":    id,
		"alias": util.CommentAlias(pr.cfg.SecretKey, post.Id, id),
	}, nil
}

func (pr *postRoutes) getComments(c *gin.Context) (interface{}, *util.HTTPError) {
	viewer := middleware.MustGetUser(c)
	post, httpErr := pr.fetchVisiblePost(c, viewer)
	if httpErr != nil {
		return nil, httpErr
	}
	comments, err := pr.db.GetCommentsForPost(c, post.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return displayComments(comments, viewer, pr.cfg.SecretKey), nil
}

type createReportReq struct {
	Reason string `json:"reason"`
}

func (pr *postRoutes) createReport(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	post, err := pr.db.GetPostById(c, id, &db.PostQueryOpts{})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, postNotFoundErr
	}

	var req createReportReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "report reason is required",
		}
	}

	reportId, err := pr.db.CreateReport(c, middleware.MustGetUser(c).Id, &db.CreateReport{
		PostId: post.Id,
		Reason: strings.TrimSpace(req.Reason),
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id": reportId,
	}, nil
}

var postNotFoundErr = &util.HTTPError{
	Status:  http.StatusNotFound,
	Message: "post not found",
}

// fetchVisiblePost loads the :id post and hides deleted posts from everyone
// except their author and admins.
func (pr *postRoutes) fetchVisiblePost(c *gin.Context, viewer *model.User) (*model.Post, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	post, err := pr.db.GetPostById(c, id, &db.PostQueryOpts{LikeHistoryOf: viewer.Id})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil || !post.VisibleTo(viewer) {
		return nil, postNotFoundErr
	}
	return post, nil
}
