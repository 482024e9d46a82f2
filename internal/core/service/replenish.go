package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rl1809/crm-ops/internal/core/domain"
)

const updateLowStockDocument = `mutation UpdateLowStockProducts($threshold: Int, $restockAmount: Int) {
	updateLowStockProducts(threshold: $threshold, restockAmount: $restockAmount) {
		success
		message
		updatedProducts {
			name
			stock
		}
	}
}`

// ReplenishStock restocks every product below the configured threshold in
// one gateway mutation. The gateway applies the batch in a single store
// transaction; a second run over unchanged state reports zero updates.
func (j *Jobs) ReplenishStock(ctx context.Context) domain.JobResult {
	now := j.now()

	data, err := j.gateway.Execute(ctx, updateLowStockDocument, map[string]any{
		"threshold":     j.threshold,
		"restockAmount": j.restockAmount,
	})
	if err != nil {
		j.log(j.lowStockLog, now, "- Error updating low stock: "+err.Error())
		return domain.Failed("low stock update failed: " + err.Error())
	}

	var payload struct {
		Success         bool   `json:"success"`
		Message         string `json:"message"`
		UpdatedProducts []struct {
			Name  string `json:"name"`
			Stock int    `json:"stock"`
		} `json:"updatedProducts"`
	}
	if err := json.Unmarshal(data["updateLowStockProducts"], &payload); err != nil {
		j.log(j.lowStockLog, now, "- Error updating low stock: unexpected response: "+err.Error())
		return domain.Failed("unexpected low stock response: " + err.Error())
	}

	j.log(j.lowStockLog, now, "- Low Stock Update:")

	if !payload.Success {
		j.log(j.lowStockLog, now, "- Update failed: "+payload.Message)
		return domain.Failed(payload.Message)
	}

	if len(payload.UpdatedProducts) == 0 {
		j.log(j.lowStockLog, now, "- No products needed restocking")
		return domain.Succeeded("no products needed restocking")
	}

	details := make([]string, 0, len(payload.UpdatedProducts))
	for _, p := range payload.UpdatedProducts {
		line := fmt.Sprintf("- Updated: %s, New Stock: %d", p.Name, p.Stock)
		j.log(j.lowStockLog, now, line)
		details = append(details, line)
	}

	return domain.Succeeded(fmt.Sprintf("restocked %d products", len(details)), details...)
}
