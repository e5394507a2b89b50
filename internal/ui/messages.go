package ui

import "github.com/leonardomso/postlink/internal/checker"

// FilesFoundMsg is sent when posts have been discovered.
type FilesFoundMsg struct {
	Err   error
	Files []string
}

// LinksExtractedMsg is sent when links have been extracted from posts.
type LinksExtractedMsg struct {
	Err         error
	Links       []checker.Link
	UniqueHrefs int
}

// LinkCheckedMsg is sent when a single link has been resolved.
type LinkCheckedMsg struct {
	Result checker.Result
}

// AllChecksCompleteMsg is sent when every link has been resolved.
type AllChecksCompleteMsg struct{}
