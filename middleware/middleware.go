// Package middleware validates JSON request bodies at an HTTP boundary.
package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/decode"
	"github.com/reoring/goshape/source"
)

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, db goshape.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, db)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (goshape.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(goshape.Decoded[T])
	return v, ok
}

// DefaultMaxBody bounds the request body read by Validate.
const DefaultMaxBody = 1 << 20

// CodeBodyTooLarge is reported when the request body exceeds DefaultMaxBody.
const CodeBodyTooLarge = "body_too_large"

// Validate decodes the JSON request body with dec before calling next. The
// decoded value and its presence map are available to next through
// DecodedFromContext[any]. Invalid bodies get a 400 response whose JSON body
// is ErrorPayload; unreadable ones get a 400 with a parse_error issue, and
// bodies over DefaultMaxBody get a 413 with a body_too_large issue.
func Validate(dec *decode.Decoder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxBody+1))
		if err != nil {
			writeIssues(w, http.StatusBadRequest, goshape.Issues{parseIssue(err)})
			return
		}
		if len(body) > DefaultMaxBody {
			msg := fmt.Sprintf("request body exceeds %d bytes", DefaultMaxBody)
			it := goshape.IssueAt(goshape.Root(), CodeBodyTooLarge, msg, map[string]any{"limit": DefaultMaxBody})
			writeIssues(w, http.StatusRequestEntityTooLarge, goshape.Issues{it})
			return
		}
		docs, err := source.Documents(body, source.FormatJSON)
		if err != nil {
			writeIssues(w, http.StatusBadRequest, goshape.Issues{parseIssue(err)})
			return
		}
		decoded, err := dec.DecodeWithMeta(r.Context(), docs[0])
		if err != nil {
			iss, ok := goshape.AsIssues(err)
			if !ok {
				iss = goshape.Issues{parseIssue(err)}
			}
			writeIssues(w, http.StatusBadRequest, iss)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), decoded)))
	})
}

func parseIssue(err error) goshape.Issue {
	it := goshape.IssueAt(goshape.Root(), goshape.CodeParseError, err.Error(), nil)
	it.Cause = err
	return it
}

// IssuePayload is the JSON form of an Issue.
type IssuePayload struct {
	Path     string           `json:"path"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Hint     string           `json:"hint,omitempty"`
	Params   map[string]any   `json:"params,omitempty"`
	Variants [][]IssuePayload `json:"variants,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues goshape.Issues) map[string]any {
	return map[string]any{"issues": payload(issues)}
}

func payload(issues goshape.Issues) []IssuePayload {
	out := make([]IssuePayload, 0, len(issues))
	for _, it := range issues {
		p := IssuePayload{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint, Params: it.Params}
		for _, v := range it.Variants {
			p.Variants = append(p.Variants, payload(v))
		}
		out = append(out, p)
	}
	return out
}

func writeIssues(w http.ResponseWriter, status int, iss goshape.Issues) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorPayload(iss))
}
