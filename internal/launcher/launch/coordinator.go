package launch

import (
	"context"

	"github.com/craftlaunch/craftlaunch/internal/launcher/domain"
	"github.com/craftlaunch/craftlaunch/pkg/errors"
	"github.com/craftlaunch/craftlaunch/pkg/logger"
)

// IdentityProvider exposes the signed-in identity, if any
type IdentityProvider interface {
	Current() *domain.Identity
}

// VersionSelector exposes the currently selected version id
type VersionSelector interface {
	SelectedVersion() string
}

// Starter issues the actual game start and returns a human-readable
// status message.
type Starter interface {
	Start(ctx context.Context, identity domain.Identity, versionID string) (string, error)
}

// Coordinator gates launches behind ordered preconditions and issues
// exactly one start request when they pass. The starter's textual
// response, success or failure, is surfaced verbatim; nothing retries
// automatically.
type Coordinator struct {
	identity IdentityProvider
	selector VersionSelector
	starter  Starter
	logger   *logger.Logger
}

// NewCoordinator wires a launch coordinator
func NewCoordinator(identity IdentityProvider, selector VersionSelector, starter Starter) *Coordinator {
	return &Coordinator{
		identity: identity,
		selector: selector,
		starter:  starter,
		logger:   logger.New().WithField("component", "launch"),
	}
}

// Launch checks preconditions in order, each a distinct hard stop: first
// that an identity is present, then that a version is selected. Only
// when both pass is a single start request issued. Precondition failures
// never reach the starter.
func (c *Coordinator) Launch(ctx context.Context) (string, error) {
	identity := c.identity.Current()
	if !identity.Valid() {
		c.logger.Warn("launch blocked: not signed in")
		return "", errors.ErrNoIdentity
	}

	versionID := c.selector.SelectedVersion()
	if versionID == "" {
		c.logger.Warn("launch blocked: no version selected")
		return "", errors.ErrNoVersionSelected
	}

	c.logger.Info("launching", "version", versionID, "player", identity.Name)
	status, err := c.starter.Start(ctx, *identity, versionID)
	if err != nil {
		return "", errors.WrapLaunchError(versionID, "start", err)
	}
	return status, nil
}
