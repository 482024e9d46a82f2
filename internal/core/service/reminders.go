package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rl1809/crm-ops/internal/core/domain"
)

const recentOrdersDocument = `query GetRecentOrders($orderDateGte: DateTime!) {
	orders(orderDateGte: $orderDateGte) {
		id
		orderDate
		customer {
			email
		}
	}
}`

// SendOrderReminders queries orders placed within the reminder span and
// appends one reminder line per order. An empty result is a normal outcome,
// not an error.
func (j *Jobs) SendOrderReminders(ctx context.Context) domain.JobResult {
	now := j.now()
	cutoff := now.Add(-j.reminderSpan)

	data, err := j.gateway.Execute(ctx, recentOrdersDocument, map[string]any{
		"orderDateGte": cutoff.Format(time.RFC3339),
	})
	if err != nil {
		j.log(j.remindersLog, now, "- Error processing reminders: "+err.Error())
		j.logger.WithError(err).Error("order reminders failed")
		return domain.Failed("order reminders failed: " + err.Error())
	}

	var orders []struct {
		ID       string `json:"id"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(data["orders"], &orders); err != nil {
		j.log(j.remindersLog, now, "- Error processing reminders: unexpected response: "+err.Error())
		return domain.Failed("unexpected orders response: " + err.Error())
	}

	j.log(j.remindersLog, now, "- Order Reminders Processing:")

	if len(orders) == 0 {
		j.log(j.remindersLog, now, "- No pending orders found")
		j.logger.Info("order reminders processed, no pending orders")
		return domain.Succeeded("no pending orders found")
	}

	details := make([]string, 0, len(orders))
	for _, o := range orders {
		line := fmt.Sprintf("- Order ID: %s, Customer: %s", o.ID, o.Customer.Email)
		j.log(j.remindersLog, now, line)
		details = append(details, line)
	}

	j.logger.WithField("orders", len(orders)).Info("order reminders processed")
	return domain.Succeeded(fmt.Sprintf("processed %d order reminders", len(orders)), details...)
}
