package apiproxy

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nozze-app/nozze/internal/grants"
	"github.com/nozze-app/nozze/internal/shared"
)

// Action is the closed set of CRUD operations, resolved once at the routing
// stage and carried as a tagged value through authorization and execution.
type Action int

const (
	ActionList Action = iota
	ActionGet
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionList:
		return "list"
	case ActionGet:
		return "get"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Operation returns the grant class the action requires.
func (a Action) Operation() grants.Operation {
	switch a {
	case ActionList, ActionGet:
		return grants.OperationRead
	default:
		return grants.OperationWrite
	}
}

// ResolveAction maps the HTTP verb and id presence onto an Action.
func ResolveAction(method string, hasID bool) (Action, error) {
	switch method {
	case http.MethodGet:
		if hasID {
			return ActionGet, nil
		}
		return ActionList, nil
	case http.MethodPost:
		if hasID {
			return 0, fmt.Errorf("%w: POST does not accept a resource id", shared.ErrBadRequest)
		}
		return ActionCreate, nil
	case http.MethodPut:
		if !hasID {
			return 0, fmt.Errorf("%w: missing resource id", shared.ErrBadRequest)
		}
		return ActionUpdate, nil
	case http.MethodDelete:
		if !hasID {
			return 0, fmt.Errorf("%w: missing resource id", shared.ErrBadRequest)
		}
		return ActionDelete, nil
	default:
		return 0, shared.ErrMethodNotAllowed
	}
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// Page holds list pagination bounds.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit/offset query parameters, clamping to sane bounds.
func ParsePage(query url.Values) Page {
	page := Page{Limit: defaultPageLimit}
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			page.Limit = limit
		}
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}
	if raw := query.Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			page.Offset = offset
		}
	}
	return page
}
