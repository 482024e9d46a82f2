package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rl1809/crm-ops/internal/core/domain"
)

const crmStatsDocument = `query GetCRMStats {
	totalCustomers
	totalOrders
	totalRevenue
}`

// GenerateReport aggregates customer, order and revenue totals into a
// single weekly report line. Revenue is 0.00 when no orders exist.
func (j *Jobs) GenerateReport(ctx context.Context) domain.JobResult {
	now := j.now()

	data, err := j.gateway.Execute(ctx, crmStatsDocument, nil)
	if err != nil {
		j.log(j.reportLog, now, "- Error generating report: "+err.Error())
		return domain.Failed("report generation failed: " + err.Error())
	}

	var (
		customers int
		orders    int
		revenue   float64
	)
	if raw, ok := data["totalCustomers"]; ok {
		json.Unmarshal(raw, &customers)
	}
	if raw, ok := data["totalOrders"]; ok {
		json.Unmarshal(raw, &orders)
	}
	if raw, ok := data["totalRevenue"]; ok {
		json.Unmarshal(raw, &revenue)
	}

	line := fmt.Sprintf("- Report: %d customers, %d orders, $%.2f revenue", customers, orders, revenue)
	j.log(j.reportLog, now, line)

	return domain.Succeeded(fmt.Sprintf("report generated: %d customers, %d orders, $%.2f revenue",
		customers, orders, revenue))
}
