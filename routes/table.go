package routes

import (
	"github.com/alexvillacis/instituciones-app/services"
)

// ProtectedRoutes is the static table of protected operations the permission
// bootstrap seeds from. Kept next to the route registrations below so a new
// endpoint and its permission row are added in the same file review. Routes
// added here after the first boot only become permissions when the bootstrap
// is re-run through /permisos/init.
func ProtectedRoutes() []services.RouteEntry {
	return []services.RouteEntry{
		{Path: "/permisos", Methods: []string{"GET", "POST"}},
		{Path: "/permisos/:id", Methods: []string{"GET", "PUT", "DELETE"}},
		{Path: "/permisos/batch", Methods: []string{"POST", "PUT"}},
		{Path: "/roles", Methods: []string{"GET", "POST"}},
		{Path: "/roles/:id", Methods: []string{"GET", "PUT", "DELETE"}},
		{Path: "/roles/batch", Methods: []string{"POST", "PUT"}},
		{Path: "/users", Methods: []string{"GET", "POST"}},
		{Path: "/users/:id", Methods: []string{"GET", "PUT", "DELETE"}},
		{Path: "/users/batch", Methods: []string{"POST", "PUT"}},
	}
}
