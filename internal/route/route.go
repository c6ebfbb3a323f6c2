// Package route turns orders into the driver's ordered stop list.
package route

import (
	"fmt"
	"slices"

	"github.com/diewo77/slatko-ops/internal/models"
)

// StopStatus is the driver-facing state of a stop.
type StopStatus string

const (
	StopPending   StopStatus = "PENDING"
	StopCompleted StopStatus = "COMPLETED"
)

// Placeholders used when an order's client cannot be resolved.
const (
	UnknownClientName    = "Unknown client"
	UnknownClientAddress = "Address unavailable"
)

// Stop is one scheduled client visit derived from an active order.
type Stop struct {
	ID         string     `json:"id"`
	OrderID    uint       `json:"order_id"`
	ClientID   uint       `json:"client_id"`
	ClientName string     `json:"client_name"`
	Address    string     `json:"address"`
	Phone      string     `json:"phone,omitempty"`
	Status     StopStatus `json:"status"`
}

// StopStatusFor maps an active order status to a stop status. A prepared
// order is ready to load and is the driver's pending work; every other active
// order is shown as completed.
//
// TODO: a PENDING order is not yet prepared, so reporting it as COMPLETED is
// misleading on the route screen; give it its own stop status once drivers
// agree on how unprepared stops should appear.
func StopStatusFor(s models.OrderStatus) StopStatus {
	if s == models.OrderPrepared {
		return StopPending
	}
	return StopCompleted
}

// Derive keeps PENDING and PREPARED orders, resolves their clients and sorts
// pending stops first. The sort is stable so ties keep the order of orders.
func Derive(orders []models.Order, clients []models.Client) []Stop {
	byID := make(map[uint]*models.Client, len(clients))
	for i := range clients {
		byID[clients[i].ID] = &clients[i]
	}

	stops := make([]Stop, 0, len(orders))
	for _, o := range orders {
		if !o.Status.Active() {
			continue
		}
		stop := Stop{
			ID:         fmt.Sprintf("stop-%d", o.ID),
			OrderID:    o.ID,
			ClientID:   o.ClientID,
			ClientName: UnknownClientName,
			Address:    UnknownClientAddress,
			Status:     StopStatusFor(o.Status),
		}
		if c, ok := byID[o.ClientID]; ok {
			stop.ClientName = c.Name
			stop.Address = c.Address
			stop.Phone = c.Phone
		}
		stops = append(stops, stop)
	}

	slices.SortStableFunc(stops, func(a, b Stop) int {
		return rank(a.Status) - rank(b.Status)
	})
	return stops
}

func rank(s StopStatus) int {
	if s == StopPending {
		return 0
	}
	return 1
}

// Summary counts stops by status.
type Summary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// Summarize counts the stops.
func Summarize(stops []Stop) Summary {
	s := Summary{Total: len(stops)}
	for _, st := range stops {
		switch st.Status {
		case StopPending:
			s.Pending++
		case StopCompleted:
			s.Completed++
		}
	}
	return s
}
