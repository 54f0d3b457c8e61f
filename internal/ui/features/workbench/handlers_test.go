package workbench

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqldeck/internal/runner"
	"github.com/leapstack-labs/sqldeck/internal/testutil"
	"github.com/leapstack-labs/sqldeck/internal/ui/features"
)

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)

	handlers := NewHandlers(
		fixture.Bench,
		fixture.SessionStore,
		fixture.Notifier,
		testutil.NewTestLogger(t),
		true, // isDev
	)

	return handlers, fixture
}

func TestWorkbenchPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.WorkbenchPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Query 1", "seed tab should render in the strip")
	assert.Contains(t, body, "@get('/updates')")
	assert.Contains(t, body, "sql-input")
	assert.Contains(t, body, "public.users", "catalog should render in the explorer")
}

func TestAddTabPatchesNewTab(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tabs/add", nil)
	rec := httptest.NewRecorder()

	h.AddTab(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Query 2")
	assert.Len(t, fixture.Bench.Tabs(), 2)
	assert.Equal(t, "Query 2", fixture.Bench.Active().Name)
}

func TestCloseLastTabKeepsOne(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	id := fixture.Bench.ActiveID()

	req := httptest.NewRequest(http.MethodPost, "/api/tabs/"+id+"/close", nil)
	req = features.RequestWithPathParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.CloseTab(rec, req)

	tabs := fixture.Bench.Tabs()
	require.Len(t, tabs, 1)
	assert.NotEqual(t, id, tabs[0].ID)
}

func runMock(t *testing.T, h *Handlers, fixture *features.TestFixture) string {
	t.Helper()

	id := fixture.Bench.ActiveID()
	body := strings.NewReader(`{"sql":"` + runner.MockQuery + `","selStart":0,"selEnd":0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tabs/"+id+"/run", body)
	req.Header.Set("Content-Type", "application/json")
	req = features.RequestWithPathParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.RunQuery(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	fixture.Bench.Wait()
	return id
}

func TestRunQueryRendersResult(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	runMock(t, h, fixture)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.WorkbenchPage(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "15 rows")
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "Niklaus Wirth")
}

func TestRunQueryUnknownStatement(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	id := fixture.Bench.ActiveID()
	body := strings.NewReader(`{"sql":"SELECT 1;","selStart":0,"selEnd":0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tabs/"+id+"/run", body)
	req.Header.Set("Content-Type", "application/json")
	req = features.RequestWithPathParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.RunQuery(rec, req)
	fixture.Bench.Wait()

	tab := fixture.Bench.Tab(id)
	require.NotNil(t, tab)
	assert.Equal(t, "only default mock query supported", tab.Error)
}

func TestFilterAndSortRender(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	id := runMock(t, h, fixture)

	// Filter the role column down to admins.
	form := strings.NewReader("value=admin")
	req := httptest.NewRequest(http.MethodPost, "/api/tabs/"+id+"/filter/3", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = features.RequestWithPathParam(req, "id", id)
	req = features.RequestWithPathParam(req, "col", "3")
	rec := httptest.NewRecorder()
	h.SetFilter(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "4 rows")
	assert.Contains(t, body, "Ada Lovelace")
	assert.NotContains(t, body, "Alan Turing")

	// First header click sorts ascending and selects the column.
	req = httptest.NewRequest(http.MethodPost, "/api/tabs/"+id+"/sort/1", nil)
	req = features.RequestWithPathParam(req, "id", id)
	req = features.RequestWithPathParam(req, "col", "1")
	rec = httptest.NewRecorder()
	h.CycleSort(rec, req)

	body = rec.Body.String()
	assert.Contains(t, body, "▲")
	st, ok := fixture.Bench.GridState(id)
	require.True(t, ok)
	require.NotNil(t, st.Sort)
	assert.Equal(t, 1, st.Sort.Column)
}

func TestSelectCellsAndCopy(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	id := runMock(t, h, fixture)

	req := httptest.NewRequest(http.MethodPost,
		"/api/tabs/"+id+"/select-cells?anchor=0,0&focus=1,1", nil)
	req = features.RequestWithPathParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.SelectCells(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/tabs/"+id+"/copy", nil)
	req = features.RequestWithPathParam(req, "id", id)
	rec = httptest.NewRecorder()
	h.CopySelection(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "navigator.clipboard.writeText")
	assert.Contains(t, body, `id\tname`, "copied text should carry the touched headers")
	assert.Contains(t, body, "Copied to clipboard")
}

func TestExportCSVDownload(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	id := runMock(t, h, fixture)

	req := httptest.NewRequest(http.MethodGet, "/api/tabs/"+id+"/export", nil)
	req = features.RequestWithPathParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.ExportCSV(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	disp := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disp, "attachment")
	assert.Contains(t, disp, "Query_1_")
	assert.Contains(t, disp, ".csv")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "id,name,email,role,active,score\r\n"))
	assert.Contains(t, body, "Ada Lovelace")
}

func TestExportCSVEmptyProjection(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	id := fixture.Bench.ActiveID()

	req := httptest.NewRequest(http.MethodGet, "/api/tabs/"+id+"/export", nil)
	req = features.RequestWithPathParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.ExportCSV(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTogglePinRoundTrip(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/explorer/pin?table=public.users", nil)
	rec := httptest.NewRecorder()
	h.TogglePin(rec, req)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "pin should persist in the cookie session")

	// Replay the cookie: the page render should show the table pinned.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.WorkbenchPage(rec, req)

	assert.Contains(t, rec.Body.String(), `class="table pinned"`)
}

func TestInsertTextPatchesSignals(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	id := fixture.Bench.ActiveID()

	body := strings.NewReader(`{"sql":"SELECT  FROM users;","selStart":7,"selEnd":7}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tabs/"+id+"/insert?text=id", body)
	req.Header.Set("Content-Type", "application/json")
	req = features.RequestWithPathParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.InsertText(rec, req)

	tab := fixture.Bench.Tab(id)
	require.NotNil(t, tab)
	assert.Equal(t, "SELECT id FROM users;", tab.SQL)
	assert.Contains(t, rec.Body.String(), "datastar-patch-signals")
}

func TestFormatQueryPatchesSignals(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	id := fixture.Bench.ActiveID()

	body := strings.NewReader(`{"sql":"select id from users","selStart":0,"selEnd":0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tabs/"+id+"/format", body)
	req.Header.Set("Content-Type", "application/json")
	req = features.RequestWithPathParam(req, "id", id)
	rec := httptest.NewRecorder()

	h.FormatQuery(rec, req)

	tab := fixture.Bench.Tab(id)
	require.NotNil(t, tab)
	assert.Equal(t, "SELECT id \nFROM users;", tab.SQL)
}
