package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/univent/univent-be/config"
	"github.com/univent/univent-be/controllers"
	appDb "github.com/univent/univent-be/db"
	"github.com/univent/univent-be/db/sqlite"
	"github.com/univent/univent-be/middleware"
	"github.com/univent/univent-be/model"
)

type testServer struct {
	engine *gin.Engine
	db     appDb.Database
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	if err := sqlite.Migrate(database.GetSQLDB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	channelController, err := controllers.NewChannelController(ctx, database)
	if err != nil {
		t.Fatalf("channel controller: %v", err)
	}

	cfg := &config.Config{
		SecretKey:  "test-secret",
		SessionTTL: time.Hour,
	}

	r := gin.New()
	AddHealthCheckRoutes(&r.RouterGroup)
	AddUserRoutes(&r.RouterGroup, database, database, cfg)
	AddSessionRoutes(&r.RouterGroup, database, database, cfg)
	AddChannelRoutes(&r.RouterGroup, channelController)
	AddPostRoutes(&r.RouterGroup, database, database, channelController, cfg)
	AddFeedRoutes(&r.RouterGroup, database, database, cfg)
	AddAdminRoutes(&r.RouterGroup, database, database, cfg)

	return &testServer{engine: r, db: database}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (ts *testServer) request(t *testing.T, method, path string, body interface{}, cookie string) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: cookie})
	}

	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, &env
}

func decodeData(t *testing.T, env *envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %q: %v", env.Data, err)
	}
}

// registerAndLogin creates a user through the API and returns its session
// cookie.
func (ts *testServer) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	w, env := ts.request(t, http.MethodPut, "/users", gin.H{
		"username": username,
		"password": "password123",
	}, "")
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("register failed: %d %s", w.Code, w.Body.String())
	}
	return ts.login(t, username, "password123")
}

func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w, env := ts.request(t, http.MethodPost, "/sessions", gin.H{
		"username": username,
		"password": password,
	}, "")
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}

// loginAsAdmin backdoors an admin account straight into the database, since
// there is no registration path for admins.
func (ts *testServer) loginAsAdmin(t *testing.T) string {
	t.Helper()
	admin := &model.User{Username: "admin", IsAdmin: true}
	if err := admin.SetPassword("password123"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := ts.db.CreateUser(context.Background(), admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return ts.login(t, "admin", "password123")
}

func (ts *testServer) createPost(t *testing.T, cookie, content, channel string) int64 {
	t.Helper()
	w, env := ts.request(t, http.MethodPut, "/posts", gin.H{
		"content": content,
		"channel": channel,
	}, cookie)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("create post failed: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Id int64 `json:"id"`
	}
	decodeData(t, env, &created)
	return created.Id
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	w, env := ts.request(t, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK || !env.Success {
		t.Errorf("health check: %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")

	w, env := ts.request(t, http.MethodGet, "/users/me", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("/users/me: %d %s", w.Code, w.Body.String())
	}
	var me model.User
	decodeData(t, env, &me)
	if me.Username != "student" || me.IsAdmin {
		t.Errorf("me = %+v", me)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "student")

	w, env := ts.request(t, http.MethodPut, "/users", gin.H{
		"username": "student",
		"password": "other",
	}, "")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d", w.Code)
	}
	if env.Message != "that username is already taken" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "student")

	for _, body := range []gin.H{
		{"username": "student", "password": "wrong"},
		{"username": "nobody", "password": "password123"},
	} {
		w, env := ts.request(t, http.MethodPost, "/sessions", body, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d for %v", w.Code, body)
		}
		if env.Message != "incorrect username or password" {
			t.Errorf("message = %q", env.Message)
		}
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")

	if w, _ := ts.request(t, http.MethodDelete, "/sessions", nil, cookie); w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	if w, _ := ts.request(t, http.MethodGet, "/users/me", nil, cookie); w.Code != http.StatusUnauthorized {
		t.Errorf("stale session accepted: %d", w.Code)
	}
}

func TestExpiredSessionRejectedAndReaped(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "student")
	user, err := ts.db.GetUserByUsername(context.Background(), "student")
	if err != nil || user == nil {
		t.Fatalf("get user: %v", err)
	}

	stale := &model.Session{
		Token:     "stale-token",
		UserId:    user.Id,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := ts.db.CreateSession(context.Background(), stale); err != nil {
		t.Fatalf("create session: %v", err)
	}

	w, env := ts.request(t, http.MethodGet, "/users/me", nil, stale.Token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if env.Message != "session expired" {
		t.Errorf("message = %q", env.Message)
	}

	// the expired row is deleted on sight
	got, err := ts.db.GetSession(context.Background(), stale.Token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Errorf("expired session still stored: %+v", got)
	}
}

func TestTimelineRequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	w, env := ts.request(t, http.MethodGet, "/posts", nil, "")
	if w.Code != http.StatusUnauthorized || env.Success {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestChannelsArePublic(t *testing.T) {
	ts := newTestServer(t)
	w, env := ts.request(t, http.MethodGet, "/channels", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("/channels: %d", w.Code)
	}
	var channels []*model.Channel
	decodeData(t, env, &channels)
	if len(channels) != 4 {
		t.Errorf("got %d channels", len(channels))
	}
}

func TestCreatePostValidation(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")

	w, _ := ts.request(t, http.MethodPut, "/posts", gin.H{"content": "   "}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank content: %d", w.Code)
	}

	w, env := ts.request(t, http.MethodPut, "/posts", gin.H{
		"content": strings.Repeat("a", 141),
	}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized content: %d", w.Code)
	}
	if env.Message != "posts are limited to 140 characters" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestCreatePostAliasAndChannelFallback(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")

	w, env := ts.request(t, http.MethodPut, "/posts", gin.H{
		"content": "the wifi in the library is unusable",
		"channel": "does-not-exist",
	}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("create post: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Id      int64          `json:"id"`
		Alias   string         `json:"alias"`
		Channel *model.Channel `json:"channel"`
	}
	decodeData(t, env, &created)
	if !strings.HasPrefix(created.Alias, "Post-") || len(created.Alias) != len("Post-")+8 {
		t.Errorf("alias = %q", created.Alias)
	}
	if created.Channel == nil || created.Channel.Code != model.DefaultChannelCode {
		t.Errorf("channel = %+v, want the default", created.Channel)
	}
}

func TestTimelineAnonymizesOtherAuthors(t *testing.T) {
	ts := newTestServer(t)
	authorCookie := ts.registerAndLogin(t, "author")
	readerCookie := ts.registerAndLogin(t, "reader")
	ts.createPost(t, authorCookie, "someone keeps stealing my umbrella", "general")

	_, env := ts.request(t, http.MethodGet, "/posts", nil, readerCookie)
	var page struct {
		Posts []*model.Post `json:"posts"`
	}
	decodeData(t, env, &page)
	if len(page.Posts) != 1 {
		t.Fatalf("got %d posts", len(page.Posts))
	}
	post := page.Posts[0]
	if post.CreatorId != 0 {
		t.Errorf("creator id leaked to a stranger: %d", post.CreatorId)
	}
	if post.IsMine {
		t.Error("isMine true for a stranger")
	}
	if !strings.HasPrefix(post.Alias, "Post-") {
		t.Errorf("alias = %q", post.Alias)
	}

	// the author sees their own id
	_, env = ts.request(t, http.MethodGet, "/posts", nil, authorCookie)
	decodeData(t, env, &page)
	if page.Posts[0].CreatorId == 0 || !page.Posts[0].IsMine {
		t.Errorf("author view = %+v", page.Posts[0])
	}
}

func TestTimelineChannelFilter(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")
	ts.createPost(t, cookie, "general gripe", "general")
	jobId := ts.createPost(t, cookie, "career fair was a scam", "job")

	_, env := ts.request(t, http.MethodGet, "/posts?channel=job", nil, cookie)
	var page struct {
		Posts []*model.Post `json:"posts"`
	}
	decodeData(t, env, &page)
	if len(page.Posts) != 1 || page.Posts[0].Id != jobId {
		t.Errorf("job channel page = %+v", page.Posts)
	}
}

func TestLikeToggleEndpoint(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")
	postId := ts.createPost(t, cookie, "like this", "general")

	path := "/posts/" + formatId(postId) + "/likes"
	_, env := ts.request(t, http.MethodPost, path, nil, cookie)
	var result struct {
		Liked    bool `json:"liked"`
		NumLikes int  `json:"numLikes"`
	}
	decodeData(t, env, &result)
	if !result.Liked || result.NumLikes != 1 {
		t.Errorf("first toggle = %+v", result)
	}

	_, env = ts.request(t, http.MethodPost, path, nil, cookie)
	decodeData(t, env, &result)
	if result.Liked || result.NumLikes != 0 {
		t.Errorf("second toggle = %+v", result)
	}
}

func TestCommentFlow(t *testing.T) {
	ts := newTestServer(t)
	authorCookie := ts.registerAndLogin(t, "author")
	readerCookie := ts.registerAndLogin(t, "reader")
	postId := ts.createPost(t, authorCookie, "comment below", "general")
	path := "/posts/" + formatId(postId) + "/comments"

	w, env := ts.request(t, http.MethodPost, path, gin.H{"content": "first!"}, readerCookie)
	if w.Code != http.StatusOK {
		t.Fatalf("create comment: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Alias string `json:"alias"`
	}
	decodeData(t, env, &created)
	if !strings.HasPrefix(created.Alias, "Reply-") {
		t.Errorf("alias = %q", created.Alias)
	}

	_, env = ts.request(t, http.MethodGet, path, nil, authorCookie)
	var comments []*model.Comment
	decodeData(t, env, &comments)
	if len(comments) != 1 || comments[0].Content != "first!" {
		t.Fatalf("comments = %+v", comments)
	}
	if comments[0].CreatorId != 0 || comments[0].IsMine {
		t.Errorf("commenter identity leaked to the post author: %+v", comments[0])
	}
}

func TestDeletePostPermissions(t *testing.T) {
	ts := newTestServer(t)
	authorCookie := ts.registerAndLogin(t, "author")
	otherCookie := ts.registerAndLogin(t, "other")
	postId := ts.createPost(t, authorCookie, "delete me", "general")
	path := "/posts/" + formatId(postId)

	if w, _ := ts.request(t, http.MethodDelete, path, nil, otherCookie); w.Code != http.StatusForbidden {
		t.Errorf("stranger delete: %d", w.Code)
	}
	if w, _ := ts.request(t, http.MethodDelete, path, nil, authorCookie); w.Code != http.StatusOK {
		t.Errorf("author delete: %d", w.Code)
	}

	// gone for strangers, still visible to the author
	if w, _ := ts.request(t, http.MethodGet, path, nil, otherCookie); w.Code != http.StatusNotFound {
		t.Errorf("deleted post visible to a stranger: %d", w.Code)
	}
	_, env := ts.request(t, http.MethodGet, path, nil, authorCookie)
	var post model.Post
	decodeData(t, env, &post)
	if post.Status != model.StatusDeleted {
		t.Errorf("author view status = %q", post.Status)
	}
}

func TestAdminDeleteAnyPost(t *testing.T) {
	ts := newTestServer(t)
	authorCookie := ts.registerAndLogin(t, "author")
	adminCookie := ts.loginAsAdmin(t)
	postId := ts.createPost(t, authorCookie, "rule breaking", "general")

	w, _ := ts.request(t, http.MethodDelete, "/posts/"+formatId(postId), nil, adminCookie)
	if w.Code != http.StatusOK {
		t.Errorf("admin delete: %d", w.Code)
	}

	_, env := ts.request(t, http.MethodGet, "/admin/deleted-posts", nil, adminCookie)
	var deleted []*model.Post
	decodeData(t, env, &deleted)
	if len(deleted) != 1 || deleted[0].Id != postId {
		t.Errorf("deleted posts = %+v", deleted)
	}
	if deleted[0].CreatorId == 0 {
		t.Error("admin review surface should keep the creator id")
	}
}

func TestAdminRoutesForbiddenForRegularUsers(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")

	for _, path := range []string{"/admin/deleted-posts", "/admin/reports"} {
		w, env := ts.request(t, http.MethodGet, path, nil, cookie)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: %d", path, w.Code)
		}
		if env.Message != "admin access required" {
			t.Errorf("%s message = %q", path, env.Message)
		}
	}
}

func TestReportFlow(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")
	adminCookie := ts.loginAsAdmin(t)
	postId := ts.createPost(t, cookie, "borderline", "general")

	w, _ := ts.request(t, http.MethodPost, "/posts/"+formatId(postId)+"/reports",
		gin.H{"reason": "offensive"}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("create report: %d %s", w.Code, w.Body.String())
	}

	_, env := ts.request(t, http.MethodGet, "/admin/reports", nil, adminCookie)
	var reports []*model.Report
	decodeData(t, env, &reports)
	if len(reports) != 1 || reports[0].PostId != postId || reports[0].Reason != "offensive" {
		t.Errorf("reports = %+v", reports)
	}
}

func TestFeedPagination(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")
	for i := 0; i < 25; i++ {
		ts.createPost(t, cookie, "post "+formatId(int64(i)), "general")
	}

	_, env := ts.request(t, http.MethodPost, "/feeds", gin.H{}, cookie)
	var page struct {
		Posts  []*model.Post   `json:"posts"`
		Cursor json.RawMessage `json:"cursor"`
	}
	decodeData(t, env, &page)
	if len(page.Posts) != 20 {
		t.Fatalf("first page has %d posts", len(page.Posts))
	}
	if len(page.Cursor) == 0 || string(page.Cursor) == "null" {
		t.Fatal("first page returned no cursor")
	}

	_, env = ts.request(t, http.MethodPost, "/feeds", gin.H{
		"cursorType": "MOST_RECENT",
		"cursor":     page.Cursor,
	}, cookie)
	decodeData(t, env, &page)
	if len(page.Posts) != 5 {
		t.Errorf("second page has %d posts", len(page.Posts))
	}
	if page.Posts[0].Id == 0 {
		t.Errorf("second page post = %+v", page.Posts[0])
	}
}

func TestFeedMostLiked(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerAndLogin(t, "student")
	first := ts.createPost(t, cookie, "older but liked", "general")
	ts.createPost(t, cookie, "newer, no likes", "general")
	ts.request(t, http.MethodPost, "/posts/"+formatId(first)+"/likes", nil, cookie)

	_, env := ts.request(t, http.MethodPost, "/feeds", gin.H{"cursorType": "MOST_LIKED"}, cookie)
	var page struct {
		Posts []*model.Post `json:"posts"`
	}
	decodeData(t, env, &page)
	if len(page.Posts) != 2 || page.Posts[0].Id != first {
		t.Errorf("most-liked order = %+v", page.Posts)
	}
}

func formatId(id int64) string {
	return strconv.FormatInt(id, 10)
}
