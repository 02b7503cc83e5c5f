package grants

import "net/http"

// Operation is the access class a grant covers. Write does not imply read.
type Operation string

const (
	OperationRead  Operation = "read"
	OperationWrite Operation = "write"
)

// Grant authorizes one operation on one resource for a token.
type Grant struct {
	Resource  string    `json:"resource"`
	Operation Operation `json:"operation"`
}

// GrantSet is the full authorization state of a token: the weddings it is
// linked to and its (resource, operation) permissions. The two are
// orthogonal and both required. Duplicate grants are redundant, never
// conflicting.
type GrantSet struct {
	WeddingIDs  []string `json:"wedding_ids"`
	Permissions []Grant  `json:"permissions"`
}

// LinkedTo reports whether the token is linked to the given wedding.
func (g GrantSet) LinkedTo(weddingID string) bool {
	for _, id := range g.WeddingIDs {
		if id == weddingID {
			return true
		}
	}
	return false
}

// Allows reports whether the token holds the (resource, operation) grant.
func (g GrantSet) Allows(resource string, op Operation) bool {
	for _, grant := range g.Permissions {
		if grant.Resource == resource && grant.Operation == op {
			return true
		}
	}
	return false
}

// OperationForMethod derives the required operation from the HTTP verb:
// read-only verbs need read, everything else needs write.
func OperationForMethod(method string) Operation {
	switch method {
	case http.MethodGet, http.MethodHead:
		return OperationRead
	default:
		return OperationWrite
	}
}
