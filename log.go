package uritemplate

import "github.com/elgopher/yala/logger"

var log logger.Global

// SetLoggerAdapter enables logging of template compilation and codec
// diagnostics. Nothing is logged until an adapter is installed.
func SetLoggerAdapter(adapter logger.Adapter) {
	log.SetAdapter(adapter)
}
