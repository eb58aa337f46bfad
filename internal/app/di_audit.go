package app

import (
	"context"
	"fmt"

	"github.com/allisson/sixseal/internal/audit"
	auditRepository "github.com/allisson/sixseal/internal/audit/repository"
)

// AuditRepository returns the audit trail repository backed by the configured
// database driver.
func (c *Container) AuditRepository() (auditRepository.Repository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditUseCase builds the audit use case, signing entries with the loaded
// master key. Not memoized: it is only reached from short-lived CLI commands.
func (c *Container) AuditUseCase(ctx context.Context) (*audit.UseCase, error) {
	repo, err := c.AuditRepository()
	if err != nil {
		return nil, err
	}

	kp, err := c.MasterKeypair(ctx)
	if err != nil {
		return nil, err
	}

	masterKey, err := kp.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive master key: %w", err)
	}

	return audit.NewUseCase(masterKey, repo), nil
}

// initAuditRepository creates the audit repository for the configured driver.
func (c *Container) initAuditRepository() (auditRepository.Repository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
