package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/role"
)

// Viewer is the authenticated caller together with the role resolved for
// the current request.
type Viewer struct {
	ID   uint
	Role role.Role
}

// OrderPatch lists the order fields a caller wants to change. CrewSet
// distinguishes an explicit null (clear the assignment) from absence.
type OrderPatch struct {
	CrewSet bool
	Crew    *uint
	Status  *bool
}

func (p OrderPatch) empty() bool { return !p.CrewSet && p.Status == nil }

type OrderService struct {
	Repo   *repo.GormRepo
	Roles  *role.Resolver
	Events events.Publisher
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func scopeFor(v Viewer) repo.OrderScope {
	switch v.Role {
	case role.Manager:
		return repo.OrderScope{}
	case role.DeliveryCrew:
		return repo.OrderScope{CrewID: v.ID}
	default:
		return repo.OrderScope{CustomerID: v.ID}
	}
}

func (s *OrderService) Place(ctx context.Context, v Viewer) (*models.Order, error) {
	order, err := s.Repo.PlaceOrder(ctx, v.ID, s.now())
	if err != nil {
		if errors.Is(err, repo.ErrEmptyCart) {
			return nil, fmt.Errorf("%w: cart is empty", ErrConflict)
		}
		return nil, err
	}

	logging.FromContext(ctx).Info("order_placed", "svc", "orders", "order_id", order.ID, "lines", len(order.Lines), "total", order.Total.StringFixed(2))
	publish(ctx, s.Events, events.OrderPlaced, order.ID, map[string]any{
		"id":    order.ID,
		"user":  order.UserID,
		"total": order.Total.StringFixed(2),
		"lines": len(order.Lines),
	})
	return order, nil
}

// List is newest first. Managers see everything, delivery crew see what is
// assigned to them and everyone else sees their own orders.
func (s *OrderService) List(ctx context.Context, v Viewer, offset, limit int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, scopeFor(v), offset, limit)
}

// Get reports ErrNotFound both for unknown ids and for orders the viewer
// may not see.
func (s *OrderService) Get(ctx context.Context, v Viewer, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id, scopeFor(v))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Update(ctx context.Context, v Viewer, id uint, p OrderPatch) (*models.Order, error) {
	switch v.Role {
	case role.Manager:
	case role.DeliveryCrew:
		if p.CrewSet {
			return nil, fmt.Errorf("%w: delivery crew may only update status", ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: customers may not modify orders", ErrForbidden)
	}

	if p.empty() {
		return nil, invalid("non_field_errors", "provide delivery_crew or status")
	}

	order, err := s.Get(ctx, v, id)
	if err != nil {
		return nil, err
	}

	if p.CrewSet && p.Crew != nil {
		if err := s.checkCrew(ctx, *p.Crew); err != nil {
			return nil, err
		}
	}

	fields := map[string]any{}
	assigned := p.CrewSet && !sameCrew(order.DeliveryCrewID, p.Crew)
	if assigned {
		if p.Crew == nil {
			fields["delivery_crew_id"] = nil
		} else {
			fields["delivery_crew_id"] = *p.Crew
		}
	}
	statusChanged := p.Status != nil && *p.Status != order.Status
	if statusChanged {
		fields["status"] = *p.Status
	}

	if len(fields) == 0 {
		return order, nil
	}

	if err := s.Repo.UpdateOrder(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	updated, err := s.Repo.GetOrder(ctx, id, repo.OrderScope{})
	if err != nil {
		return nil, err
	}

	l := logging.FromContext(ctx).With("svc", "orders", "order_id", id)
	if assigned {
		l.Info("order_assigned", "delivery_crew", updated.DeliveryCrewID)
		publish(ctx, s.Events, events.OrderAssigned, id, map[string]any{
			"id":            id,
			"delivery_crew": updated.DeliveryCrewID,
		})
	}
	if statusChanged {
		l.Info("order_status_changed", "status", updated.Status)
		publish(ctx, s.Events, events.OrderStatusChanged, id, map[string]any{
			"id":     id,
			"status": updated.Status,
			"by":     v.ID,
		})
	}
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, v Viewer, id uint) error {
	if v.Role != role.Manager {
		return fmt.Errorf("%w: only managers may delete orders", ErrForbidden)
	}

	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return err
	}

	logging.FromContext(ctx).Info("order_deleted", "svc", "orders", "order_id", id)
	publish(ctx, s.Events, events.OrderDeleted, id, map[string]any{"id": id})
	return nil
}

// checkCrew requires the target to currently resolve to the delivery crew
// role. A manager who is also in the crew group resolves to Manager.
func (s *OrderService) checkCrew(ctx context.Context, userID uint) error {
	if _, err := s.Repo.UserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("delivery_crew", fmt.Sprintf("invalid pk %d, object does not exist", userID))
		}
		return err
	}

	r, err := s.Roles.RoleOf(ctx, userID)
	if err != nil {
		return err
	}
	if r != role.DeliveryCrew {
		return invalid("delivery_crew", "user is not a member of the delivery crew")
	}
	return nil
}

func sameCrew(current, next *uint) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	return *current == *next
}
