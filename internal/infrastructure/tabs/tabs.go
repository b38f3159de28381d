// Package tabs implements port.TabController for the browsers comet drives.
package tabs

import (
	"fmt"
	"time"

	"github.com/bnema/comet/internal/application/port"
)

// Driver names accepted in the tabs.driver configuration key.
const (
	DriverDesktop = "desktop"
	DriverCDP     = "cdp"
)

// Options selects and configures a tab controller.
type Options struct {
	Driver  string
	Opener  string
	CDPURL  string
	Timeout time.Duration
}

// New returns the tab controller named by opts.Driver.
func New(opts Options) (port.TabController, error) {
	switch opts.Driver {
	case "", DriverDesktop:
		return NewDesktopController(opts.Opener), nil
	case DriverCDP:
		return NewCDPController(CDPOptions{Endpoint: opts.CDPURL, Timeout: opts.Timeout})
	default:
		return nil, fmt.Errorf("unknown tabs driver %q", opts.Driver)
	}
}
