package mirror

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	interrors "github.com/devstrap/devstrap/internal/errors"
)

var _ ServiceManager = (*SystemdManager)(nil)

// ServiceManager restarts background services after their configuration changes.
type ServiceManager interface {
	Restart(ctx context.Context, name string) error
}

// SystemdManager restarts services via systemctl.
type SystemdManager struct {
	logger hclog.Logger
}

// NewSystemdManager returns a ServiceManager backed by systemctl.
func NewSystemdManager(logger hclog.Logger) *SystemdManager {
	return &SystemdManager{
		logger: logger.Named("systemd"),
	}
}

func (m *SystemdManager) Restart(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("service name cannot be empty")
	}

	m.logger.Info("Restarting service", "name", name)

	cmd := exec.CommandContext(ctx, "systemctl", "restart", name)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf(
			"%w: 'systemctl restart %s': %w: %s",
			interrors.ErrServiceRestart, name, err, strings.TrimSpace(string(output)),
		)
	}

	return nil
}
