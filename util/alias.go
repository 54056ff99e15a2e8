package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Aliases conceal authorship: each post and each comment gets its own
// identifier derived from its id and the server secret, so two posts by the
// same account are unlinkable to other users while staying stable across
// requests.

const aliasLen = 8

// PostAlias returns the display alias for a post, e.g. "Post-1A2B3C4D".
func PostAlias(secret string, postId int64) string {
	return "Post-" + anonymousId(fmt.Sprintf("post-%d-%s", postId, secret))
}

// CommentAlias returns the display alias for a comment, e.g. "Reply-1A2B3C4D".
// The post id participates so replies are scoped to their thread.
func CommentAlias(secret string, postId, commentId int64) string {
	return "Reply-" + anonymousId(fmt.Sprintf("comment-%d-%d-%s", postId, commentId, secret))
}

func anonymousId(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:aliasLen]
}
