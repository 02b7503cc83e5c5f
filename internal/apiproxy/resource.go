// Package apiproxy implements the scoped third-party API: bearer
// authentication, wedding scoping, and generic CRUD dispatch over the
// allow-listed resource tables.
package apiproxy

// Resource describes one allow-listed entity type exposed by the proxy.
// Name doubles as the path segment and the grant resource name.
// TenantColumn is the column every predicate is scoped by; for the wedding
// table itself that is the primary key.
type Resource struct {
	Name         string
	Table        string
	TenantColumn string
}

// resources is the closed allow-list shared by router, authorizer and
// executor. Adding a resource is a single-point change here.
var resources = []Resource{
	{Name: "invitati", Table: "invitati", TenantColumn: "wedding_id"},
	{Name: "famiglie", Table: "famiglie", TenantColumn: "wedding_id"},
	{Name: "gruppi", Table: "gruppi", TenantColumn: "wedding_id"},
	{Name: "intolleranze", Table: "intolleranze", TenantColumn: "wedding_id"},
	{Name: "tavoli", Table: "tavoli", TenantColumn: "wedding_id"},
	{Name: "matrimoni", Table: "matrimoni", TenantColumn: "id"},
}

// ResourceByName resolves a path segment against the allow-list.
func ResourceByName(name string) (Resource, bool) {
	for _, res := range resources {
		if res.Name == name {
			return res, true
		}
	}
	return Resource{}, false
}

// Resources returns a copy of the allow-list.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}
