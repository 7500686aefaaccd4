package usecases_port

import "context"

// ReadinessReport is the result of probing each dependency.
type ReadinessReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type ReadinessUseCasePort interface {
	Execute(ctx context.Context) ReadinessReport
}
