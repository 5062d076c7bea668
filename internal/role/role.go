// Package role resolves an authenticated user's single effective role from
// their current group memberships.
package role

import (
	"context"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

type Role string

const (
	Manager      Role = "manager"
	DeliveryCrew Role = "delivery_crew"
	Customer     Role = "customer"
)

func (r Role) String() string { return string(r) }

// Group returns the stored group name backing r, empty for Customer.
func (r Role) Group() string {
	switch r {
	case Manager:
		return models.GroupManager
	case DeliveryCrew:
		return models.GroupDeliveryCrew
	default:
		return ""
	}
}

// Resolve applies the fixed priority Manager > Delivery Crew > Customer.
// Every membership set maps to exactly one role.
func Resolve(groups []string) Role {
	var crew bool
	for _, g := range groups {
		switch g {
		case models.GroupManager:
			return Manager
		case models.GroupDeliveryCrew:
			crew = true
		}
	}
	if crew {
		return DeliveryCrew
	}
	return Customer
}

type MembershipSource interface {
	GroupsOf(ctx context.Context, userID uint) ([]string, error)
}

// Resolver reads memberships on every call; nothing is cached between requests.
type Resolver struct {
	Groups MembershipSource
}

func (r *Resolver) RoleOf(ctx context.Context, userID uint) (Role, error) {
	groups, err := r.Groups.GroupsOf(ctx, userID)
	if err != nil {
		return "", err
	}
	return Resolve(groups), nil
}
