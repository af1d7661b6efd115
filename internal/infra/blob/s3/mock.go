package s3

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MockBucket is the bucket name used by NewMock.
const MockBucket = "gostspec-exports"

// NewMock returns a Store wired to an in-process fake of the S3 operations
// the store issues. It never touches the network.
func NewMock() *Store {
	fake := &fakeS3{objects: make(map[string]fakeObject)}
	client := s3.New(s3.Options{
		Region:       defaultRegion,
		Credentials:  credentials.NewStaticCredentialsProvider("AKIDMOCK", "SECRETMOCK", ""),
		HTTPClient:   &http.Client{Transport: fake},
		BaseEndpoint: aws.String("https://s3.mock.local"),
		UsePathStyle: true,
	})
	return newStore(client, MockBucket)
}

type fakeObject struct {
	body        []byte
	contentType string
	metadata    http.Header
	written     time.Time
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	_, key, _ := strings.Cut(strings.TrimPrefix(req.URL.Path, "/"), "/")
	f.mu.Lock()
	defer f.mu.Unlock()

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		return f.list(req), nil
	}
	switch req.Method {
	case http.MethodHead, http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			return respond(req, http.StatusNotFound, nil, nil), nil
		}
		header := obj.metadata.Clone()
		header.Set("Content-Length", strconv.Itoa(len(obj.body)))
		header.Set("Content-Type", obj.contentType)
		header.Set("ETag", fmt.Sprintf("%q", fmt.Sprintf("%x", len(obj.body))))
		header.Set("Last-Modified", obj.written.Format(http.TimeFormat))
		if req.Method == http.MethodHead {
			return respond(req, http.StatusOK, header, nil), nil
		}
		return respond(req, http.StatusOK, header, obj.body), nil
	case http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if isChunked(req) {
			if decoded, ok := decodeChunked(body); ok {
				body = decoded
			}
		}
		meta := http.Header{}
		for name, values := range req.Header {
			if strings.HasPrefix(strings.ToLower(name), "x-amz-meta-") {
				meta[name] = values
			}
		}
		f.objects[key] = fakeObject{
			body:        body,
			contentType: req.Header.Get("Content-Type"),
			metadata:    meta,
			written:     time.Now().UTC(),
		}
		return respond(req, http.StatusOK, http.Header{"Etag": {`"mock"`}}, nil), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(req, http.StatusNoContent, nil, nil), nil
	}
	return respond(req, http.StatusNotImplemented, nil, nil), nil
}

func (f *fakeS3) list(req *http.Request) *http.Response {
	prefix := req.URL.Query().Get("prefix")
	keys := make([]string, 0, len(f.objects))
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
	for _, key := range keys {
		obj := f.objects[key]
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>%s</LastModified></Contents>",
			key, len(obj.body), obj.written.Format(time.RFC3339))
	}
	b.WriteString("</ListBucketResult>")
	return respond(req, http.StatusOK, http.Header{"Content-Type": {"application/xml"}}, []byte(b.String()))
}

func respond(req *http.Request, status int, header http.Header, body []byte) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func isChunked(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") ||
		req.Header.Get("X-Amz-Decoded-Content-Length") != ""
}

// decodeChunked strips aws-chunked framing: "<hex>[;ext]\r\n<data>\r\n"
// repeated until a zero-length chunk, followed by optional trailers.
func decodeChunked(payload []byte) ([]byte, bool) {
	var out []byte
	for {
		line, rest, ok := bytes.Cut(payload, []byte("\r\n"))
		if !ok {
			return nil, false
		}
		sizeText, _, _ := strings.Cut(string(line), ";")
		size, err := strconv.ParseInt(strings.TrimSpace(sizeText), 16, 64)
		if err != nil || size < 0 || int64(len(rest)) < size {
			return nil, false
		}
		if size == 0 {
			return out, true
		}
		out = append(out, rest[:size]...)
		payload = bytes.TrimPrefix(rest[size:], []byte("\r\n"))
	}
}
