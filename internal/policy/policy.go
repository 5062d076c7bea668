// Package policy holds the per-operation role allowlists consulted before
// any handler runs. It is plain data plus one evaluation function so it can
// be tested without HTTP.
package policy

import (
	"slices"

	"github.com/Skotchmaster/little_lemon/internal/role"
)

type Operation string

const (
	GroupsList   Operation = "groups.list"
	GroupsAdd    Operation = "groups.add"
	GroupsRemove Operation = "groups.remove"

	CategoriesList   Operation = "categories.list"
	CategoriesCreate Operation = "categories.create"

	MenuList   Operation = "menu.list"
	MenuGet    Operation = "menu.get"
	MenuCreate Operation = "menu.create"
	MenuUpdate Operation = "menu.update"
	MenuDelete Operation = "menu.delete"

	CartList  Operation = "cart.list"
	CartAdd   Operation = "cart.add"
	CartClear Operation = "cart.clear"

	OrdersList   Operation = "orders.list"
	OrdersGet    Operation = "orders.get"
	OrdersPlace  Operation = "orders.place"
	OrdersUpdate Operation = "orders.update"
	OrdersDelete Operation = "orders.delete"
)

var everyone = []role.Role{role.Manager, role.DeliveryCrew, role.Customer}

type Policy map[Operation][]role.Role

func Default() Policy {
	return Policy{
		GroupsList:   {role.Manager},
		GroupsAdd:    {role.Manager},
		GroupsRemove: {role.Manager},

		CategoriesList:   everyone,
		CategoriesCreate: {role.Manager},

		MenuList:   everyone,
		MenuGet:    everyone,
		MenuCreate: {role.Manager},
		MenuUpdate: {role.Manager},
		MenuDelete: {role.Manager},

		CartList:  {role.Customer},
		CartAdd:   {role.Customer},
		CartClear: {role.Customer},

		OrdersList:   everyone,
		OrdersGet:    everyone,
		OrdersPlace:  {role.Customer},
		OrdersUpdate: {role.Manager, role.DeliveryCrew},
		OrdersDelete: {role.Manager},
	}
}

// Permits evaluates in resolver priority order. Once the Customer clause is
// reached it admits any caller, so operations listing Customer must still
// scope rows by owner in the handler. Unknown operations admit nobody.
func (p Policy) Permits(op Operation, r role.Role) bool {
	allowed, ok := p[op]
	if !ok {
		return false
	}
	if r == role.Manager && slices.Contains(allowed, role.Manager) {
		return true
	}
	if r == role.DeliveryCrew && slices.Contains(allowed, role.DeliveryCrew) {
		return true
	}
	return slices.Contains(allowed, role.Customer)
}
