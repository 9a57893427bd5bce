// Package httpclient performs the fetches a capacity run is made of.
//
// [NewClient] builds a plain HTTP/1.1 client with a per-request timeout and
// a keep-alive pool sized for many concurrent workers. [Fetcher] wraps it:
// each Fetch issues a GET for baseURL + "/" + target, drains the body and
// returns the status code.
//
//	client := httpclient.NewClient(30 * time.Second)
//	f := httpclient.NewFetcher(client, "http://localhost:8080")
//	status, err := f.Fetch(ctx, "index.html")
//
// A non-nil error means no usable response arrived, or its body could not
// be read ([BodyError]). Status codes, 5xx included, are returned as is.
//
// Pass [WithTracer] to record an OpenTelemetry client span per fetch.
package httpclient
