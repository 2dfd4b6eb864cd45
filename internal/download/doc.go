package download

// Package download implements the download orchestration on top of a media
// fetcher (yt-dlp via github.com/lrstanley/go-ytdlp by default). It prepares
// the destination, picks the format chain, queries metadata, runs the
// transfer with progress reporting and turns any failure into console output.
