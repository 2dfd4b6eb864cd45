package fetcher

// Package fetcher adapts media extraction libraries to the two calls the
// downloader needs: a metadata query that transfers nothing, and a blocking
// transfer that reports progress samples.
