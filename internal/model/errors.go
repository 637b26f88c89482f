package model

import "errors"

var (
	ErrMissingOrganization = errors.New("organization_name is required")
	ErrMissingProject      = errors.New("project_name is required")
	ErrNoArtifacts         = errors.New("at least one of configs or implementation_details must be non-empty")
)
