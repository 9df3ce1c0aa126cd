// Package apiclient performs HTTP requests against the admin backend with
// the current access token attached.
//
// # Overview
//
// The client owns an http.Client with a cookie jar so the HTTP-only refresh
// cookie set by the backend travels with every request. Bearer tokens come
// from a TokenSource (the session refresh coordinator); when a protected
// request comes back 401 the client forces exactly one refresh and retries
// once before surfacing the failure.
//
// # Errors
//
// Non-2xx responses become *APIError carrying the backend's error message
// when present, or a generic "request failed" message otherwise. Response
// payloads that fail boundary validation are wrapped in ErrMalformedResponse.
//
// # Usage Example
//
//	client, err := apiclient.New("https://api.example.com/backend")
//	if err != nil {
//		log.Fatal(err)
//	}
//	client.SetTokenSource(coordinator)
//
//	var orders OrderList
//	if err := client.GetJSON(ctx, "/api/v1/orders", &orders); err != nil {
//		var apiErr *apiclient.APIError
//		if errors.As(err, &apiErr) {
//			fmt.Println(apiErr.Message)
//		}
//	}
package apiclient
