package port

import "context"

//go:generate mockgen -source=tabs.go -destination=mocks/mock_tabs.go -package=mocks

// Tab is a browser tab addressable by a TabController.
type Tab struct {
	ID    string
	URL   string
	Title string
}

// TabController navigates and opens browser tabs.
type TabController interface {
	// ActiveTab returns the active tab of the current window.
	// Returns nil, nil when there is none or the controller cannot tell.
	ActiveTab(ctx context.Context) (*Tab, error)

	// Navigate loads url in the tab identified by tabID.
	Navigate(ctx context.Context, tabID, url string) error

	// OpenTab opens url in a new foreground tab.
	OpenTab(ctx context.Context, url string) error
}
