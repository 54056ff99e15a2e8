package app

import (
	"encoding/json"
	"errors"
)

const (
	PostCursorTypeMostRecent PostCursorType = "MOST_RECENT"
	PostCursorTypeMostLiked  PostCursorType = "MOST_LIKED"
)

var UnknownCursorTypeErr = errors.New("unknown cursor type")

// TaggedUnionCursor decodes {"cursorType": ..., "cursor": {...}} request
// bodies into the matching PostCursor implementation. A missing cursorType
// means the first most-recent page.
type TaggedUnionCursor struct {
	PostCursor
	CursorType PostCursorType
}

func (tuc *TaggedUnionCursor) UnmarshalJSON(data []byte) error {
	if tuc == nil {
		return nil
	}
	var rawJsonWithType struct {
		CursorType PostCursorType   `json:"cursorType"`
		Raw        *json.RawMessage `json:"cursor"`
	}
	if err := json.Unmarshal(data, &rawJsonWithType); err != nil {
		return err
	}

	if rawJsonWithType.CursorType == "" {
		rawJsonWithType.CursorType = PostCursorTypeMostRecent
	}
	tuc.CursorType = rawJsonWithType.CursorType

	var cursorRef interface{}
	switch rawJsonWithType.CursorType {
	case PostCursorTypeMostRecent:
		cursorRef = &MostRecentCursor{}
	case PostCursorTypeMostLiked:
		cursorRef = &MostLikedCursor{}
	default:
		return UnknownCursorTypeErr
	}

	if rawJsonWithType.Raw != nil {
		if err := json.Unmarshal(*rawJsonWithType.Raw, cursorRef); err != nil {
			return err
		}
	}

	tuc.PostCursor = cursorRef.(PostCursor)
	return nil
}

func (tuc *TaggedUnionCursor) MarshalJSON() ([]byte, error) {
	panic("should not be marshalled")
}
