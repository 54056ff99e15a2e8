package routes

import (
	"github.com/univent/univent-be/model"
	"github.com/univent/univent-be/util"
)

// Every post and comment leaving the API goes through here: attach the
// pseudonymous alias and strip authorship for viewers who may not see it.

func displayPost(post *model.Post, viewer *model.User, secret string) *model.Post {
	post.Alias = util.PostAlias(secret, post.Id)
	return post.MakeDisplayableFor(viewer)
}

func displayPosts(posts []*model.Post, viewer *model.User, secret string) []*model.Post {
	for i, post := range posts {
		posts[i] = displayPost(post, viewer, secret)
	}
	return posts
}

func displayComment(comment *model.Comment, viewer *model.User, secret string) *model.Comment {
	comment.Alias = util.CommentAlias(secret, comment.PostId, comment.Id)
	return comment.MakeDisplayableFor(viewer)
}

func displayComments(comments []*model.Comment, viewer *model.User, secret string) []*model.Comment {
	for i, comment := range comments {
		comments[i] = displayComment(comment, viewer, secret)
	}
	return comments
}
