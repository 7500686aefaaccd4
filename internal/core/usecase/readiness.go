package usecase

import (
	"context"
	"time"

	"search-service/internal/contextkeys"
	"search-service/internal/core/port"
	"search-service/internal/core/port/usecases_port"
)

const probeTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessUseCase probes Redis and PostgreSQL independently.
type ReadinessUseCase struct {
	probes map[string]pinger
}

func NewReadinessUseCase(cache port.CacheStorePort, repo port.PropertyRepositoryPort) *ReadinessUseCase {
	return &ReadinessUseCase{probes: map[string]pinger{
		"redis":    cache,
		"database": repo,
	}}
}

func (uc *ReadinessUseCase) Execute(ctx context.Context) usecases_port.ReadinessReport {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "Readiness"})

	report := usecases_port.ReadinessReport{Status: "ok", Checks: make(map[string]string, len(uc.probes))}
	for name, p := range uc.probes {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := p.Ping(probeCtx)
		cancel()

		if err != nil {
			logger.Warn("Dependency probe failed", port.Fields{"dependency": name, "error": err.Error()})
			report.Status = "degraded"
			report.Checks[name] = "fail: " + err.Error()
			continue
		}
		report.Checks[name] = "ok"
	}
	return report
}
