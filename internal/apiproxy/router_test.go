package apiproxy

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nozze-app/nozze/internal/grants"
	"github.com/nozze-app/nozze/internal/shared"
)

func TestResolveAction(t *testing.T) {
	cases := []struct {
		method string
		hasID  bool
		want   Action
	}{
		{http.MethodGet, false, ActionList},
		{http.MethodGet, true, ActionGet},
		{http.MethodPost, false, ActionCreate},
		{http.MethodPut, true, ActionUpdate},
		{http.MethodDelete, true, ActionDelete},
	}
	for _, tc := range cases {
		action, err := ResolveAction(tc.method, tc.hasID)
		require.NoError(t, err, "%s hasID=%v", tc.method, tc.hasID)
		require.Equal(t, tc.want, action)
	}
}

func TestResolveActionMissingID(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		_, err := ResolveAction(method, false)
		require.ErrorIs(t, err, shared.ErrBadRequest, method)
	}
}

func TestResolveActionPostWithID(t *testing.T) {
	_, err := ResolveAction(http.MethodPost, true)
	require.ErrorIs(t, err, shared.ErrBadRequest)
}

func TestResolveActionUnsupportedVerb(t *testing.T) {
	for _, method := range []string{http.MethodPatch, http.MethodHead, "PURGE"} {
		_, err := ResolveAction(method, true)
		require.ErrorIs(t, err, shared.ErrMethodNotAllowed, method)
	}
}

func TestActionOperation(t *testing.T) {
	require.Equal(t, grants.OperationRead, ActionList.Operation())
	require.Equal(t, grants.OperationRead, ActionGet.Operation())
	require.Equal(t, grants.OperationWrite, ActionCreate.Operation())
	require.Equal(t, grants.OperationWrite, ActionUpdate.Operation())
	require.Equal(t, grants.OperationWrite, ActionDelete.Operation())
}

func TestResourceAllowList(t *testing.T) {
	for _, name := range []string{"invitati", "famiglie", "gruppi", "intolleranze", "tavoli", "matrimoni"} {
		_, ok := ResourceByName(name)
		require.True(t, ok, name)
	}
	_, ok := ResourceByName("users")
	require.False(t, ok)
}

func TestParsePageDefaultsAndClamp(t *testing.T) {
	page := ParsePage(url.Values{})
	require.Equal(t, Page{Limit: 50, Offset: 0}, page)

	page = ParsePage(url.Values{"limit": {"20"}, "offset": {"40"}})
	require.Equal(t, Page{Limit: 20, Offset: 40}, page)

	page = ParsePage(url.Values{"limit": {"100000"}, "offset": {"-3"}})
	require.Equal(t, Page{Limit: 200, Offset: 0}, page)

	page = ParsePage(url.Values{"limit": {"abc"}})
	require.Equal(t, 50, page.Limit)
}
