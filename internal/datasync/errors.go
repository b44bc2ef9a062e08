package datasync

import "errors"

var (
	// ErrLinkBusy means a sync pass is already running on the link.
	ErrLinkBusy = errors.New("sync already in progress on link")
	// ErrLinkUnusable means the link cannot carry sync traffic right now.
	ErrLinkUnusable = errors.New("link not usable for sync")
)
