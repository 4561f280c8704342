package v1

import (
	"net/http"
	"strconv"

	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/infrastructure/api/middleware"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// intParam reads an integer query parameter. ok is false when it is absent.
func intParam(req *http.Request, name string) (value int64, ok bool, err error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, middleware.BadRequest(name+" must be an integer", err)
	}
	return v, true, nil
}

// nonNegativeParam reads an integer query parameter that must be >= 0.
// It returns def when the parameter is absent.
func nonNegativeParam(req *http.Request, name string, def int) (int, error) {
	v, ok, err := intParam(req, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	if v < 0 {
		return 0, middleware.BadRequest(name+" must not be negative", nil)
	}
	return int(v), nil
}

// extractionOptions builds record filters from the query string.
func extractionOptions(req *http.Request) ([]chat.ExtractionOption, error) {
	q := req.URL.Query()
	var opts []chat.ExtractionOption

	if name := q.Get("name"); name != "" {
		opts = append(opts, chat.WithNameFilter(name))
	}
	if id := q.Get("composer"); id != "" {
		opts = append(opts, chat.WithComposerID(id))
	}
	if v, ok, err := intParam(req, "since"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, chat.WithMinTimestamp(v))
	}
	if v, ok, err := intParam(req, "until"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, chat.WithMaxTimestamp(v))
	}
	if v, ok, err := intParam(req, "min_length"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, chat.WithCharacterThreshold(int(v)))
	}
	return opts, nil
}
