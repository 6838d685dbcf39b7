package models

import "testing"

func TestRoleHasBlanketAccess(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleViewer, false},
		{RoleUser, false},
		{RoleEditor, false},
		{RoleAdmin, true},
		{RoleSuperAdmin, true},
		{Role(""), false},
		{Role("manager"), false},
	}

	for _, tt := range tests {
		if got := tt.role.HasBlanketAccess(); got != tt.want {
			t.Errorf("Role(%q).HasBlanketAccess() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRoleCanEditContent(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleViewer, false},
		{RoleUser, false},
		{RoleEditor, true},
		{RoleAdmin, true},
		{RoleSuperAdmin, true},
	}

	for _, tt := range tests {
		if got := tt.role.CanEditContent(); got != tt.want {
			t.Errorf("Role(%q).CanEditContent() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestEffectivePriceCents(t *testing.T) {
	offer := int64(999)

	tests := []struct {
		name    string
		content ContentItem
		want    int64
	}{
		{
			name:    "list price",
			content: ContentItem{PriceCents: 1499},
			want:    1499,
		},
		{
			name:    "active offer",
			content: ContentItem{PriceCents: 1499, SpecialOfferCents: &offer, SpecialOfferActive: true},
			want:    999,
		},
		{
			name:    "inactive offer keeps list price",
			content: ContentItem{PriceCents: 1499, SpecialOfferCents: &offer, SpecialOfferActive: false},
			want:    1499,
		},
		{
			name:    "active flag without offer price",
			content: ContentItem{PriceCents: 1499, SpecialOfferActive: true},
			want:    1499,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.content.EffectivePriceCents(); got != tt.want {
				t.Errorf("EffectivePriceCents() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSubscriptionGrantsAccess(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{SubscriptionStatusActive, true},
		{SubscriptionStatusTrialing, true},
		{SubscriptionStatusPastDue, false},
		{SubscriptionStatusCanceled, false},
		{SubscriptionStatusIncomplete, false},
		{SubscriptionStatusExpired, false},
		{"", false},
	}

	for _, tt := range tests {
		sub := Subscription{Status: tt.status}
		if got := sub.GrantsAccess(); got != tt.want {
			t.Errorf("Subscription{Status: %q}.GrantsAccess() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
