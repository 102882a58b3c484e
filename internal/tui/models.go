package tui

type View int

const (
	ViewFeed View = iota
	ViewWatch
	ViewSearch
	ViewWatchHistory
	ViewChannel
	ViewAddChannel
	ViewClearConfirm
)
