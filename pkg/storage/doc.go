// Package storage writes downloaded images into the output directory.
//
// Writes are atomic: data lands in a uniquely named temporary file in the
// same directory and is renamed into place, so concurrent downloads that map
// to the same name never interleave bytes. The last rename wins.
//
//	m := storage.NewManager("old")
//	name := storage.FileName(imageURL, config.FileNamingOverwrite)
//	n, err := m.Save(bytes.NewReader(data), name)
package storage
