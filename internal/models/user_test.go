package models

import (
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"manager role", RoleManager, true},
		{"tenant role", RoleTenant, true},
		{"vendor role", RoleVendor, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	manager := &User{Role: RoleManager}
	tenant := &User{Role: RoleTenant}
	vendor := &User{Role: RoleVendor}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		// Admin permissions - should have all permissions
		{"admin can delete user", admin, "delete_user", true},
		{"admin can manage users", admin, "manage_users", true},
		{"admin can assign vendor", admin, "assign_vendor", true},
		{"admin can view analytics", admin, "view_analytics", true},

		// Manager permissions - everything except user management
		{"manager cannot delete user", manager, "delete_user", false},
		{"manager cannot manage users", manager, "manage_users", false},
		{"manager can assign vendor", manager, "assign_vendor", true},
		{"manager can view analytics", manager, "view_analytics", true},

		// Tenant permissions - their own requests only
		{"tenant can create request", tenant, "create_request", true},
		{"tenant can view requests", tenant, "view_requests", true},
		{"tenant can rate request", tenant, "rate_request", true},
		{"tenant can view notifications", tenant, "view_notifications", true},
		{"tenant cannot assign vendor", tenant, "assign_vendor", false},
		{"tenant cannot view analytics", tenant, "view_analytics", false},

		// Vendor permissions - work their assigned requests
		{"vendor can view requests", vendor, "view_requests", true},
		{"vendor can update request", vendor, "update_request", true},
		{"vendor cannot create request", vendor, "create_request", false},
		{"vendor cannot assign vendor", vendor, "assign_vendor", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("User with role %s HasPermission(%s) = %v, want %v",
					tt.user.Role, tt.action, result, tt.expected)
			}
		})
	}
}

func TestRequestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   RequestStatus
		expected bool
	}{
		{StatusSubmitted, false},
		{StatusAssigned, false},
		{StatusInProgress, false},
		{StatusPendingParts, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("IsTerminal(%s) = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestMaintenanceRequest_Clone(t *testing.T) {
	cost := 150.0
	rating := 4
	req := &MaintenanceRequest{
		ID:         "req-1",
		Status:     StatusCompleted,
		Timeline:   []TimelineEntry{{Description: "Request submitted", Actor: "Tenant"}},
		Photos:     []string{"photo-1.jpg"},
		ActualCost: &cost,
		Rating:     &rating,
		Analysis:   &Analysis{LikelyIssue: "Pipe leak or connection issue", Steps: []string{"Shut off water"}},
	}

	clone := req.Clone()

	clone.Timeline[0].Actor = "System"
	clone.Photos[0] = "other.jpg"
	*clone.ActualCost = 999
	*clone.Rating = 1
	clone.Analysis.Steps[0] = "changed"

	if req.Timeline[0].Actor != "Tenant" {
		t.Errorf("clone timeline mutation leaked into original")
	}
	if req.Photos[0] != "photo-1.jpg" {
		t.Errorf("clone photos mutation leaked into original")
	}
	if *req.ActualCost != 150.0 {
		t.Errorf("clone actual cost mutation leaked into original")
	}
	if *req.Rating != 4 {
		t.Errorf("clone rating mutation leaked into original")
	}
	if req.Analysis.Steps[0] != "Shut off water" {
		t.Errorf("clone analysis mutation leaked into original")
	}
}
