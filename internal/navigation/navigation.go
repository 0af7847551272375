// Package navigation defines the role-gated sidebar menu.
package navigation

import "openeyes/internal/models"

// Item is a single sidebar entry. Icon names the client-side icon to render.
type Item struct {
	Name  string        `json:"name"`
	Href  string        `json:"href"`
	Icon  string        `json:"icon"`
	Roles []models.Role `json:"-"`
}

var everyone = []models.Role{
	models.RoleAdmin,
	models.RoleModerator,
	models.RoleReporter,
	models.RoleUser,
	models.RoleGuest,
}

// Items is the full menu in display order.
var Items = []Item{
	{Name: "Dashboard", Href: "/", Icon: "layout-dashboard", Roles: everyone},
	{Name: "Conflicts", Href: "/conflicts", Icon: "swords", Roles: everyone},
	{Name: "Natural Disasters", Href: "/natural-disasters", Icon: "cloud-lightning", Roles: everyone},
	{Name: "Violations", Href: "/violations", Icon: "shield-alert", Roles: everyone},
	{Name: "UN Declarations", Href: "/un-declarations", Icon: "landmark", Roles: everyone},
	{Name: "Countries", Href: "/countries", Icon: "globe", Roles: everyone},
	{Name: "Forum", Href: "/forum", Icon: "message-square-text", Roles: everyone},
	{Name: "Admin Panel", Href: "/admin", Icon: "users", Roles: []models.Role{models.RoleAdmin, models.RoleModerator}},
	{Name: "Data Importer", Href: "/data-import", Icon: "book-open", Roles: []models.Role{models.RoleAdmin}},
}

// MenuFor returns the menu entries visible to the given role, preserving
// display order. Unknown roles see nothing rather than the guest menu so a
// bad token cannot widen visibility.
func MenuFor(role models.Role) []Item {
	if !role.Valid() && role != models.RoleGuest {
		return []Item{}
	}

	out := make([]Item, 0, len(Items))
	for _, item := range Items {
		for _, r := range item.Roles {
			if r == role {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
