package router

import "errors"

var ErrNoRoutingSettings = errors.New("routing settings are not set")
