package azuresearch

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/searchretriever/internal/domain"
)

// Response keys with a leading "@" collide with gjson modifier syntax, so
// objects are walked with ForEach instead of path lookups.
const (
	keyValue         = "value"
	keyAnswers       = "@search.answers"
	keyScore         = "@search.score"
	keyRerankerScore = "@search.rerankerScore"
	keyCaptions      = "@search.captions"
	keyHighlights    = "@search.highlights"
)

var errMalformedResponse = errors.New("malformed search response")

// parseResponse extracts hits and semantic answers from a docs/search body.
func parseResponse(body []byte) (domain.SearchResponse, error) {
	if !gjson.ValidBytes(body) {
		return domain.SearchResponse{}, errMalformedResponse
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return domain.SearchResponse{}, errMalformedResponse
	}

	var resp domain.SearchResponse
	root.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case keyValue:
			value.ForEach(func(_, hit gjson.Result) bool {
				if hit.IsObject() {
					resp.Hits = append(resp.Hits, parseHit(hit))
				}
				return true
			})
		case keyAnswers:
			value.ForEach(func(_, answer gjson.Result) bool {
				if text := answer.Get("text").String(); text != "" {
					resp.Answers = append(resp.Answers, text)
				}
				return true
			})
		}
		return true
	})

	return resp, nil
}

// parseHit renders every non-annotation field as text. String values keep
// their content; objects, arrays and numbers keep their raw JSON; null is dropped.
func parseHit(hit gjson.Result) domain.Hit {
	h := domain.Hit{Fields: make(map[string]string)}
	hit.ForEach(func(key, value gjson.Result) bool {
		switch name := key.String(); name {
		case keyScore:
			h.Score = value.Float()
		case keyRerankerScore:
			h.RerankerScore = value.Float()
		case keyCaptions:
			value.ForEach(func(_, c gjson.Result) bool {
				if text := c.Get("text").String(); text != "" {
					h.Captions = append(h.Captions, text)
				}
				return true
			})
		case keyHighlights:
			// not selected, ignored
		default:
			if value.Type != gjson.Null {
				h.Fields[name] = value.String()
			}
		}
		return true
	})
	return h
}
