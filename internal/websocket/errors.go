package websocket

import "errors"

var ErrHubStopped = errors.New("hub stopped")
