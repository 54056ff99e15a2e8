package util

import (
	"net/http"
	"strconv"
)

var MalformedIdHTTPErr = &HTTPError{
	Status:  http.StatusBadRequest,
	Message: "id malformed",
}

func ParseId(raw string) (int64, *HTTPError) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, MalformedIdHTTPErr
	}
	return id, nil
}
