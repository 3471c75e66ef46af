package runtime

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

type har struct {
	Log harLog `json:"log"`
}

type harLog struct {
	Version string     `json:"version"`
	Creator harCreator `json:"creator"`
	Entries []harEntry `json:"entries"`
}

type harCreator struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type harEntry struct {
	StartedDateTime string      `json:"startedDateTime"`
	Time            float64     `json:"time"`
	Comment         string      `json:"comment,omitempty"`
	Request         harRequest  `json:"request"`
	Response        harResponse `json:"response"`
}

type harRequest struct {
	Method   string         `json:"method"`
	URL      string         `json:"url"`
	Headers  []harNameValue `json:"headers"`
	PostData *harContent    `json:"postData,omitempty"`
}

type harResponse struct {
	Status     int            `json:"status"`
	StatusText string         `json:"statusText"`
	Headers    []harNameValue `json:"headers"`
	Content    harContent     `json:"content"`
}

type harContent struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

type harNameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func newHAR(exchanges []Exchange) *har {
	archive := &har{Log: harLog{Version: "1.2", Creator: harCreator{Name: "bindgen"}}}
	archive.Log.Entries = make([]harEntry, 0, len(exchanges))
	for _, ex := range exchanges {
		entry := harEntry{
			StartedDateTime: ex.Started.UTC().Format(time.RFC3339Nano),
			Time:            float64(ex.Duration) / float64(time.Millisecond),
			Comment:         ex.Endpoint,
			Request: harRequest{
				Method:  ex.Method,
				URL:     ex.URL,
				Headers: headersToNameValues(ex.RequestHeader),
			},
			Response: harResponse{
				Status:     ex.Status,
				StatusText: httpStatusText(ex.Status),
				Headers:    headersToNameValues(ex.ResponseHeader),
				Content:    newContent(ex.ResponseBody, ex.ResponseHeader.Get("Content-Type")),
			},
		}
		if len(ex.RequestBody) > 0 {
			c := newContent(ex.RequestBody, ex.RequestHeader.Get("Content-Type"))
			entry.Request.PostData = &c
		}
		archive.Log.Entries = append(archive.Log.Entries, entry)
	}
	return archive
}

// newContent stores textual bodies as is and anything else base64 encoded.
func newContent(body []byte, contentType string) harContent {
	c := harContent{Size: len(body), MimeType: contentType}
	if len(body) == 0 {
		return c
	}
	if isText(contentType) && utf8.Valid(body) {
		c.Text = string(body)
		return c
	}
	c.Text = base64.StdEncoding.EncodeToString(body)
	c.Encoding = "base64"
	return c
}

func isText(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "text/") || mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func writeHAR(path string, archive *har) error {
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func headersToNameValues(headers http.Header) []harNameValue {
	pairs := make([]harNameValue, 0, len(headers))
	for name, values := range headers {
		for _, v := range values {
			pairs = append(pairs, harNameValue{Name: name, Value: v})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs
}

func httpStatusText(code int) string {
	if code == 0 {
		return ""
	}
	return http.StatusText(code)
}
