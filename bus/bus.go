package bus

import "github.com/sxlabs/sxinfra/infra/logging"

// UnifiedBus combines the control and data planes behind one handle.
// Grounded on the original UnifiedBus, which owns both the ZeroMQ
// control sockets and the in-process stream topic table.
type UnifiedBus struct {
	Control *ControlBus
	Data    *DataBus
}

// NewUnifiedBus returns a bus with empty control and data planes.
func NewUnifiedBus() *UnifiedBus {
	return &UnifiedBus{
		Control: NewControlBus(),
		Data:    NewDataBus(),
	}
}

// SetLogger attaches l to both planes.
func (u *UnifiedBus) SetLogger(l logging.Logger) {
	u.Control.SetLogger(l)
	u.Data.SetLogger(l)
}

// Shutdown tears the bus down in two phases: first it stops and joins
// every control-plane receive worker and closes their backend
// connections, then it drops every data-plane topic. Splitting it this
// way means no control callback can fire after Shutdown begins returning
// data-plane handles that immediately start resolving to a cleared topic
// table.
func (u *UnifiedBus) Shutdown() {
	u.Control.Shutdown()
	u.Data.clear()
}
