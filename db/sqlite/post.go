package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/upper/db/v4"

	db2 "github.com/univent/univent-be/db"
	"github.com/univent/univent-be/model"
)

type PostDB struct {
	sess db.Session
}

func getPostDB(sess db.Session) *PostDB {
	return &PostDB{sess}
}

type flattenedViewerLike struct {
	LikeId sql.NullInt64 `db:"viewer_like_id"`
}

type flattenedPost struct {
	Id                  int64        `db:"id"`
	AuthorId            int64        `db:"author_id"`
	Content             string       `db:"content"`
	NumLikes            int          `db:"num_likes"`
	Status              model.Status `db:"status"`
	ChannelId           int64        `db:"channel_id"`
	ChannelCode         string       `db:"channel_code"`
	ChannelName         string       `db:"channel_name"`
	flattenedViewerLike `db:",inline"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}

var postColumns = []interface{}{
	"p.id",
	"p.user_id AS author_id",
	"p.content",
	"p.num_likes",
	"p.status",
	"ch.id AS channel_id",
	"ch.code AS channel_code",
	"ch.name AS channel_name",
	"p.created_at",
	"p.updated_at",
	"p.deleted_at",
}

var viewerLikeColumns = []interface{}{
	"l.id AS viewer_like_id",
}

func (pdb *PostDB) CreatePost(ctx context.Context, req *db2.CreatePost) (int64, error) {
	// always bind the timestamps through the driver: the sqlite
	// CURRENT_TIMESTAMP default stores a different text format than bound
	// time.Time values, which breaks cursor comparisons against created_at
	createdAt := time.Now().UTC()
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}
	res, err := pdb.sess.SQL().
		InsertInto("posts").
		Columns("user_id", "channel_id", "content", "created_at", "updated_at").
		Values(req.CreatorId, req.ChannelId, req.Content, createdAt, createdAt).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (pdb *PostDB) GetPostById(ctx context.Context, id int64, opts *db2.PostQueryOpts) (*model.Post, error) {
	var likeHistoryOf int64
	if opts != nil {
		likeHistoryOf = opts.LikeHistoryOf
	}
	var post flattenedPost
	if err := pdb.sess.SQL().
		Select(append(postColumns, viewerLikeColumns...)...).
		From("posts AS p").
		Join("channels AS ch").On("p.channel_id = ch.id").
		LeftJoin("likes AS l").On("l.post_id = p.id AND l.user_id = ?", likeHistoryOf).
		Where("p.id = ?", id).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildPostFromFlattened(&post), nil
}

func (pdb *PostDB) GetPosts(ctx context.Context, query *db2.PostsListQuery) ([]*model.Post, error) {
	var likeHistoryOf int64
	limit := 0
	if query.PostsListQueryOpts != nil {
		likeHistoryOf = query.LikeHistoryOf
		limit = int(query.Limit)
	}
	status := model.StatusPosted
	if query.Status != nil {
		status = *query.Status
	}

	// TODO: skip the likes join when likeHistoryOf is 0
	stmt := pdb.sess.SQL().
		Select(append(postColumns, viewerLikeColumns...)...).
		From("posts AS p").
		Join("channels AS ch").On("p.channel_id = ch.id").
		LeftJoin("likes AS l").On("l.post_id = p.id AND l.user_id = ?", likeHistoryOf).
		Where("p.status = ?", status)

	if len(query.ChannelIds) > 0 {
		stmt = stmt.And("p.channel_id IN ?", query.ChannelIds)
	}
	if query.ByUser != nil {
		stmt = stmt.And("p.user_id = ?", query.ByUser.Id)
	}

	if query.PageByLikes != nil {
		if query.PageByLikes.MaxLikes != nil {
			maxLikes := query.PageByLikes.MaxLikes.Val
			stmt = stmt.And("(p.num_likes < ? OR (p.num_likes = ? AND p.id < ?))",
				maxLikes, maxLikes, query.PageByLikes.LastId)
		}
		stmt = stmt.OrderBy("p.num_likes DESC", "p.id DESC")
	} else {
		if query.From != nil {
			if query.LastId != "" {
				stmt = stmt.And("(p.created_at < ? OR (p.created_at = ? AND p.id < ?))",
					*query.From, *query.From, query.LastId)
			} else {
				stmt = stmt.And("p.created_at < ?", *query.From)
			}
		}
		stmt = stmt.OrderBy("p.created_at DESC", "p.id DESC")
	}

	if limit > 0 {
		stmt = stmt.Limit(limit)
	}

	var flattenedPosts []flattenedPost
	if err := stmt.IteratorContext(ctx).All(&flattenedPosts); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(flattenedPosts))
	for i, flattened := range flattenedPosts {
		flattened := flattened
		posts[i] = buildPostFromFlattened(&flattened)
	}
	return posts, nil
}

func (pdb *PostDB) GetDeletedPosts(ctx context.Context) ([]*model.Post, error) {
	var flattenedPosts []flattenedPost
	if err := pdb.sess.SQL().
		Select(append(postColumns, viewerLikeColumns...)...).
		From("posts AS p").
		Join("channels AS ch").On("p.channel_id = ch.id").
		LeftJoin("likes AS l").On("l.post_id = p.id AND l.user_id = ?", 0).
		Where("p.status = ?", model.StatusDeleted).
		OrderBy("p.deleted_at DESC", "p.id DESC").
		IteratorContext(ctx).
		All(&flattenedPosts); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(flattenedPosts))
	for i, flattened := range flattenedPosts {
		flattened := flattened
		posts[i] = buildPostFromFlattened(&flattened)
	}
	return posts, nil
}

func buildPostFromFlattened(post *flattenedPost) *model.Post {
	return &model.Post{
		Id:        post.Id,
		CreatorId: post.AuthorId,
		Content:   post.Content,
		Channel: &model.Channel{
			Id:   post.ChannelId,
			Code: post.ChannelCode,
			Name: post.ChannelName,
		},
		Status:        post.Status,
		NumLikes:      post.NumLikes,
		LikedByViewer: post.LikeId.Valid,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
		DeletedAt:     post.DeletedAt,
	}
}

// MarkPostAsDeleted soft deletes: the row and its content stay for the admin
// review surface, the post just stops appearing in timelines.
func (pdb *PostDB) MarkPostAsDeleted(ctx context.Context, id int64) error {
	_, err := pdb.sess.SQL().
		Update("posts").
		Set("status = ?, deleted_at = ?", model.StatusDeleted, time.Now().UTC()).
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

func (pdb *PostDB) ToggleLike(ctx context.Context, userId, postId int64) (liked bool, numLikes int, err error) {
	err = pdb.sess.TxContext(ctx, func(sess db.Session) error {
		row, err := sess.SQL().QueryRowContext(ctx,
			`SELECT id FROM likes WHERE post_id = ? AND user_id = ?`, postId, userId)
		if err != nil {
			return err
		}
		var likeId int64
		existing := true
		if err := row.Scan(&likeId); err != nil {
			if err != sql.ErrNoRows {
				return err
			}
			existing = false
		}

		delta := 1
		if existing {
			if _, err := sess.SQL().
				DeleteFrom("likes").
				Where("id = ?", likeId).
				ExecContext(ctx); err != nil {
				return err
			}
			delta = -1
		} else {
			if _, err := sess.SQL().
				InsertInto("likes").
				Columns("user_id", "post_id").
				Values(userId, postId).
				ExecContext(ctx); err != nil {
				return err
			}
		}
		liked = !existing

		if _, err := sess.SQL().
			Update("posts").
			Set("num_likes = num_likes + ?", delta).
			Where("id = ?", postId).
			ExecContext(ctx); err != nil {
			return err
		}

		countRow, err := sess.SQL().QueryRowContext(ctx,
			`SELECT num_likes FROM posts WHERE id = ?`, postId)
		if err != nil {
			return err
		}
		return countRow.Scan(&numLikes)
	}, &sql.TxOptions{})
	return liked, numLikes, err
}

func (pdb *PostDB) CreateComment(ctx context.Context, req *db2.CreateComment) (int64, error) {
	createdAt := time.Now().UTC()
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}
	res, err := pdb.sess.SQL().
		InsertInto("comments").
		Columns("post_id", "user_id", "session_token", "content", "created_at").
		Values(req.PostId, req.CreatorId, req.SessionToken, req.Content, createdAt).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (pdb *PostDB) GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	return comments, pdb.sess.SQL().
		Select("c.id", "c.post_id", "c.user_id AS author_id", "c.content", "c.created_at").
		From("comments AS c").
		Where("c.post_id = ?", postId).
		OrderBy("c.created_at", "c.id").
		IteratorContext(ctx).
		All(&comments)
}

func (pdb *PostDB) CreateReport(ctx context.Context, userId int64, req *db2.CreateReport) (int64, error) {
	res, err := pdb.sess.SQL().
		InsertInto("reports").
		Columns("post_id", "creator_id", "reason").
		Values(req.PostId, userId, req.Reason).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (pdb *PostDB) GetReports(ctx context.Context) ([]*model.Report, error) {
	var reports []*model.Report
	return reports, pdb.sess.SQL().
		Select("*").
		From("reports").
		OrderBy("created_at DESC", "id DESC").
		IteratorContext(ctx).
		All(&reports)
}
