// Package spanner provides Cloud Spanner client initialization.
package spanner

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
)

// Config holds Spanner connection configuration.
type Config struct {
	ProjectID  string
	InstanceID string
	DatabaseID string
}

// Validate reports missing identifiers.
func (c Config) Validate() error {
	var errs []error
	if c.ProjectID == "" {
		errs = append(errs, errors.New("spanner project id is required"))
	}
	if c.InstanceID == "" {
		errs = append(errs, errors.New("spanner instance id is required"))
	}
	if c.DatabaseID == "" {
		errs = append(errs, errors.New("spanner database id is required"))
	}
	return errors.Join(errs...)
}

// DSN returns the Spanner database connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s",
		c.ProjectID, c.InstanceID, c.DatabaseID)
}

// NewClient creates a new Spanner client from config.
// The caller is responsible for closing the client when done.
func NewClient(ctx context.Context, cfg Config) (*spanner.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := spanner.NewClient(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create spanner client: %w", err)
	}
	return client, nil
}
