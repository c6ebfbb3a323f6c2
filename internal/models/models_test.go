package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOrderStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderPrepared, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderDelivered, false},
		{OrderPrepared, OrderDelivered, true},
		{OrderPrepared, OrderCancelled, true},
		{OrderPrepared, OrderPending, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderStatus_Active(t *testing.T) {
	for status, want := range map[OrderStatus]bool{
		OrderPending:   true,
		OrderPrepared:  true,
		OrderDelivered: false,
		OrderCancelled: false,
	} {
		if got := status.Active(); got != want {
			t.Errorf("%s.Active() = %v, want %v", status, got, want)
		}
	}
}

func TestOrder_ComputeTotal(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{Quantity: 10, Price: decimal.RequireFromString("15.50")},
		{Quantity: 1000, Price: decimal.RequireFromString("0.10")},
	}}
	if got := o.ComputeTotal(); !got.Equal(decimal.RequireFromString("255")) {
		t.Errorf("ComputeTotal() = %s, want 255", got)
	}
}

func TestProduct(t *testing.T) {
	p := &Product{Price: decimal.RequireFromString("8.00"), Stock: 45, Category: "Syrup"}
	if p.IsRawMaterial() {
		t.Error("syrup is not a raw material")
	}
	if !p.Value().Equal(decimal.NewFromInt(360)) {
		t.Errorf("Value() = %s, want 360", p.Value())
	}
	if p.LowStock(20) || !p.LowStock(50) {
		t.Error("LowStock thresholds wrong for stock 45")
	}
	raw := &Product{Category: CategoryRawMaterial}
	if !raw.IsRawMaterial() {
		t.Error("expected raw material")
	}
}

func TestClient_Owes(t *testing.T) {
	if !(&Client{Balance: decimal.RequireFromString("150")}).Owes() {
		t.Error("positive balance should owe")
	}
	if (&Client{Balance: decimal.RequireFromString("-50")}).Owes() {
		t.Error("credit should not owe")
	}
}

func TestUser_Role(t *testing.T) {
	u := User{Profile: &Profile{Name: "delivery"}}
	if got := u.Role(); got != RoleDelivery {
		t.Errorf("Role() = %q, want %q", got, RoleDelivery)
	}
	if got := (User{}).Role(); got != "" {
		t.Errorf("Role() without profile = %q", got)
	}
	if RoleWorker.ProfileName() != "worker" {
		t.Error("ProfileName mismatch")
	}
}

func TestSession_Live(t *testing.T) {
	now := time.Now()
	revoked := now.Add(-time.Minute)
	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{"live", Session{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", Session{ExpiresAt: now.Add(-time.Second)}, false},
		{"revoked", Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Live(now); got != tt.want {
				t.Errorf("Live() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompanySettings_Header(t *testing.T) {
	c := &CompanySettings{Name: "Slatko", City: "Springfield", Phone: " "}
	got := c.Header()
	if len(got) != 2 || got[0] != "Slatko" || got[1] != "Springfield" {
		t.Errorf("Header() = %v", got)
	}
}

func TestProfile_Codes(t *testing.T) {
	p := &Profile{Permissions: []Permission{{ResourceType: "order", Action: "prepare"}, {ResourceType: "*", Action: "*"}}}
	got := p.Codes()
	if len(got) != 2 || got[0] != "order:prepare" || got[1] != "*:*" {
		t.Errorf("Codes() = %v", got)
	}
}
