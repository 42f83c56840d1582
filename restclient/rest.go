// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

// This file provides generic REST client plumbing: URI template
// expansion and request execution with the strata media types.

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/jtacoma/uritemplates"

	"github.com/diffeo/go-strata/restdata"
)

// do performs one HTTP exchange.  If in is non-nil, it is serialized
// as the request body.  If out is non-nil, the response body is
// deserialized into it; out must be of pointer type.  Failing statuses
// are decoded as strata error responses when possible.
func (c *Client) do(ctx context.Context, method, url string, in, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	req.SetHeader("Accept", restdata.V1JSONMediaType)
	if in != nil {
		var body bytes.Buffer
		if err := restdata.Encode(restdata.V1JSONMediaType, &body, in); err != nil {
			return err
		}
		req.SetHeader("Content-Type", restdata.V1JSONMediaType)
		req.SetBody(body.Bytes())
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		contentType := resp.Header().Get("Content-Type")
		return restdata.Decode(contentType, bytes.NewReader(resp.Body()), out)
	}
	return nil
}

// get retrieves a resource from a URL.
func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	return c.do(ctx, http.MethodGet, url, nil, out)
}

// expand expands a URI template against its variables.  Entry IDs must
// already be in their escaped form (restdata.MaybeEncodeID); other
// values travel as-is and get ordinary URL escaping from the template.
func expand(template string, vars map[string]interface{}) (string, error) {
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return "", err
	}
	return tmpl.Expand(vars)
}

// ErrorHTTP is a catch-all error for non-successes returned from the
// REST endpoint.
type ErrorHTTP struct {
	// Status holds the failing HTTP status line.
	Status string

	// Body holds the contents of the message body, presumed to be
	// text.
	Body string
}

func (e ErrorHTTP) Error() string {
	return e.Status
}

// checkStatus examines an HTTP response and returns an error if it is
// not successful.
func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() >= 200 && resp.StatusCode() < 300 {
		return nil
	}

	// Take a shot at decoding the body as a structured error.
	body := resp.Body()
	var errResp restdata.ErrorResponse
	contentType := resp.Header().Get("Content-Type")
	if err := restdata.Decode(contentType, bytes.NewReader(body), &errResp); err == nil {
		if decoded := errResp.ToError(); decoded != nil {
			return decoded
		}
	}
	return ErrorHTTP{Status: resp.Status(), Body: string(body)}
}
