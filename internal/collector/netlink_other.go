//go:build !linux

package collector

import (
	"context"
	"errors"

	"netscope/internal/domain"
)

var errNetlinkUnsupported = errors.New("netlink is only available on linux")

func netlinkInterfaces(context.Context) ([]domain.NetworkInterface, error) {
	return nil, errNetlinkUnsupported
}

func netlinkRoutes(context.Context) ([]domain.Route, error) {
	return nil, errNetlinkUnsupported
}

func netlinkAvailable() bool {
	return false
}
