package notify

import (
	"context"

	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/model"
)

// Platform is the host notification capability and its consent record.
type Platform interface {
	Supported() bool
	Permission(ctx context.Context) model.PermissionStatus
	RequestPermission(ctx context.Context) (model.PermissionStatus, error)
}

// Gateway exposes the tri-state permission lifecycle of a Platform.
type Gateway struct {
	platform Platform
	log      *logger.Logger
}

func NewGateway(platform Platform, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{platform: platform, log: log.WithComponent("permission")}
}

// Status reports the current permission. Unsupported platforms report denied.
func (g *Gateway) Status(ctx context.Context) model.PermissionStatus {
	if g.platform == nil || !g.platform.Supported() {
		return model.PermissionDenied
	}
	status := g.platform.Permission(ctx)
	if !status.IsValid() {
		return model.PermissionDefault
	}
	return status
}

func (g *Gateway) Supported() bool {
	return g.platform != nil && g.platform.Supported()
}

// Request prompts the user only while the permission is undecided and reports
// whether notifications may be shown.
func (g *Gateway) Request(ctx context.Context) bool {
	if !g.Supported() {
		g.log.Warnw("notifications are not supported on this platform")
		return false
	}
	switch g.platform.Permission(ctx) {
	case model.PermissionGranted:
		return true
	case model.PermissionDenied:
		return false
	}
	status, err := g.platform.RequestPermission(ctx)
	if err != nil {
		g.log.WithError(err).Warnw("permission request failed")
		return false
	}
	g.log.Infow("permission decided", "status", status)
	return status == model.PermissionGranted
}
