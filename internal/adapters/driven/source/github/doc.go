// Package github discovers requirement documents in a GitHub repository.
//
// The source reads a single repository at a ref (the default branch when
// none is given) through the Git Data API: one recursive tree request
// lists every path, then each selected markdown blob is fetched and
// decoded. The repository's ignore file, when present at the tree root,
// filters the selection the same way as for a local checkout.
//
// # Authentication
//
// A personal access token is read from the environment variable named by
// the github.token_env setting (GITHUB_TOKEN by default). Public
// repositories can be read without a token at the lower anonymous quota.
//
// # Rate Limiting
//
// Requests pass through a token bucket (about 1.2 requests per second)
// and the X-RateLimit-* response headers are tracked; when the remaining
// quota drops below a small buffer the client waits for the reset time.
//
// Documents are identified as github://owner/repo/path.
package github
