// Package problem writes RFC 7807 problem details.
package problem

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

const (
	contentType = "application/problem+json"
	baseTypeURL = "https://errors.transfer-simulator.dev/"
	traceHeader = "X-Trace-ID"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Details represents RFC 7807 Problem Details.
type Details struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail"`
	Instance  string `json:"instance"`
	RequestID string `json:"request_id"`
}

func Type(slug string) string {
	return baseTypeURL + slug
}

// Write sends an RFC 7807 error. An empty title defaults to the status text.
func Write(w http.ResponseWriter, r *http.Request, status int, problemType, title, detail string) {
	if title == "" {
		title = http.StatusText(status)
	}
	if problemType == "" {
		problemType = "about:blank"
	}
	var instance, requestID string
	if r != nil {
		instance = r.URL.Path
		requestID = r.Header.Get(traceHeader)
	}
	if requestID == "" {
		requestID = w.Header().Get(traceHeader)
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Details{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    detail,
		Instance:  instance,
		RequestID: requestID,
	})
}
