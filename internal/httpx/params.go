package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-json-experiment/json"
	"github.com/gorilla/schema"
)

// Params decodes the request parameters of a request into the given struct.
// Query parameters are decoded for GET requests and for POST requests
// without a body type; otherwise the body is decoded based on the
// Content-Type header. It returns an error if the Content-Type is not
// supported.
func Params(r *http.Request, v interface{}) error {
	switch r.Method {
	case "GET", "HEAD":
		return query(r, v)
	case "POST":
		switch MediaType(r) {
		case "application/json":
			if err := json.UnmarshalRead(r.Body, v); err != nil {
				return Error(http.StatusBadRequest, err)
			}
		case "application/octet-stream":
			return query(r, v)
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return Error(http.StatusBadRequest, err)
			}
			if err := decoder().Decode(v, r.Form); err != nil {
				return Error(http.StatusBadRequest, err)
			}
		case "multipart/form-data":
			if err := r.ParseMultipartForm(0); err != nil {
				return Error(http.StatusBadRequest, err)
			}
			if err := decoder().Decode(v, r.PostForm); err != nil {
				return Error(http.StatusBadRequest, err)
			}
		default:
			return Error(http.StatusUnsupportedMediaType, fmt.Errorf("unsupported media type: %q", r.Header.Get("Content-Type")))
		}
	default:
		return Error(http.StatusMethodNotAllowed, errors.New("unsupported method: "+r.Method))
	}
	return nil
}

func query(r *http.Request, v interface{}) error {
	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return Error(http.StatusBadRequest, err)
	}
	if err := decoder().Decode(v, values); err != nil {
		return Error(http.StatusBadRequest, err)
	}
	return nil
}

func decoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}
