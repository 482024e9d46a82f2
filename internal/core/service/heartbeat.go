package service

import (
	"context"
	"encoding/json"

	"github.com/rl1809/crm-ops/internal/core/domain"
)

const helloDocument = `query { hello }`

// Heartbeat appends one liveness line, then best-effort checks the gateway.
// The primary line is written before the check so a dead gateway can never
// hide a live scheduler.
func (j *Jobs) Heartbeat(ctx context.Context) domain.JobResult {
	now := j.now()

	if err := j.heartbeatLog.Append(now, "CRM is alive"); err != nil {
		j.logger.WithError(err).Error("heartbeat append failed")
		return domain.Failed("heartbeat append failed: " + err.Error())
	}

	data, err := j.gateway.Execute(ctx, helloDocument, nil)
	if err != nil {
		j.log(j.heartbeatLog, now, "GraphQL endpoint error: "+err.Error())
		return domain.Succeeded("CRM is alive", "GraphQL endpoint error: "+err.Error())
	}

	hello := "No response"
	if raw, ok := data["hello"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			hello = s
		}
	}
	j.log(j.heartbeatLog, now, "GraphQL endpoint responsive: "+hello)

	return domain.Succeeded("CRM is alive", "GraphQL endpoint responsive: "+hello)
}
