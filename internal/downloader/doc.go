// Package downloader fetches the images found on one project page
// concurrently and writes them to the output directory.
//
// A batch is joined: DownloadBatch returns only after every task has
// finished, whether it succeeded or not. Each task reports its own outcome
// line through a progress.Reporter.
package downloader
