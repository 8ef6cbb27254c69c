package lib

import "net/http"

// HttpClient lets tests swap the real http client for a mock.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}
