package ui

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pwinty/internal/config"
	"github.com/five82/pwinty/internal/prefs"
	"github.com/five82/pwinty/internal/pwinty"
	"github.com/five82/pwinty/internal/state"
)

type fakeSource struct {
	filters []pwinty.OrderStatus
	kicks   int
}

func (f *fakeSource) SetFilter(status pwinty.OrderStatus) { f.filters = append(f.filters, status) }
func (f *fakeSource) Kick()                               { f.kicks++ }

// recordingAPI answers every request with a canned body keyed by path suffix
// and remembers what was dispatched.
type recordingAPI struct {
	mu       sync.Mutex
	requests []pwinty.Request
	bodies   map[string]string
}

func (r *recordingAPI) client() *pwinty.Client {
	transport := pwinty.TransportFunc(func(_ context.Context, req pwinty.Request) (*pwinty.Response, error) {
		r.mu.Lock()
		r.requests = append(r.requests, req)
		r.mu.Unlock()
		for suffix, body := range r.bodies {
			if strings.HasSuffix(req.URL, suffix) {
				return &pwinty.Response{StatusCode: 200, Body: json.RawMessage(body)}, nil
			}
		}
		return &pwinty.Response{StatusCode: 404}, nil
	})
	return pwinty.NewClient("m", "k", "https://example.test/v2.3/", pwinty.WithTransport(transport))
}

func (r *recordingAPI) dispatched() []pwinty.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pwinty.Request(nil), r.requests...)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, api *recordingAPI, src *fakeSource, orders []pwinty.Order) Model {
	t.Helper()
	store := &state.Store{}
	store.Update("", orders, []pwinty.Country{{CountryCode: "GB", Name: "United Kingdom"}}, nil)

	opts := Options{
		Context:   context.Background(),
		Store:     store,
		Source:    src,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	}
	if api != nil {
		opts.Client = api.client()
	}
	m := New(opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	return update(t, m, snapshotMsg(store.Snapshot()))
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func sampleOrders() []pwinty.Order {
	return []pwinty.Order{
		{ID: 7, MerchantOrderID: "ref-7", RecipientName: "Ada", DestinationCountryCode: "GB", Status: pwinty.StatusSubmitted},
		{ID: 9, MerchantOrderID: "ref-9", RecipientName: "Grace", CountryCode: "GB", Status: pwinty.StatusNotYetSubmitted},
	}
}

func TestModel_TableListsNewestFirst(t *testing.T) {
	m := newTestModel(t, nil, &fakeSource{}, sampleOrders())

	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != "9" || rows[1][0] != "7" {
		t.Fatalf("row order = %s,%s, want 9,7", rows[0][0], rows[1][0])
	}
	if rows[0][3] != "United Kingdom" {
		t.Fatalf("destination = %q, want country name", rows[0][3])
	}
}

func TestModel_CycleFilterUpdatesSourceAndPrefs(t *testing.T) {
	src := &fakeSource{}
	m := newTestModel(t, nil, src, sampleOrders())

	m = update(t, m, runes("f"))
	if m.filter != pwinty.StatusNotYetSubmitted {
		t.Fatalf("filter = %q, want %q", m.filter, pwinty.StatusNotYetSubmitted)
	}
	if len(src.filters) != 1 || src.filters[0] != pwinty.StatusNotYetSubmitted {
		t.Fatalf("source filters = %v", src.filters)
	}
	if rows := m.table.Rows(); len(rows) != 1 || rows[0][0] != "9" {
		t.Fatalf("filtered rows = %v, want only order 9", rows)
	}
	if got := prefs.Load(m.prefsPath); got.StatusFilter != pwinty.StatusNotYetSubmitted {
		t.Fatalf("saved prefs = %+v", got)
	}
}

func TestModel_CancelRequiresConfirmation(t *testing.T) {
	api := &recordingAPI{bodies: map[string]string{"/Status": `{}`}}
	src := &fakeSource{}
	m := newTestModel(t, api, src, sampleOrders())
	// cursor on order 9
	m = update(t, m, runes("c"))
	if m.pending == nil || m.pending.status != pwinty.StatusCancelled {
		t.Fatalf("pending = %+v, want cancel prompt", m.pending)
	}
	if !strings.Contains(m.renderFooter(), "Cancel order #9?") {
		t.Fatalf("footer = %q, want cancel prompt", m.renderFooter())
	}

	m, cmd := updateCmd(t, m, runes("y"))
	if m.pending != nil {
		t.Fatalf("pending not cleared after confirm")
	}
	if cmd == nil {
		t.Fatalf("confirm returned no command")
	}
	msg, ok := cmd().(actionMsg)
	if !ok {
		t.Fatalf("command produced %T, want actionMsg", msg)
	}
	if msg.err != nil {
		t.Fatalf("status change failed: %v", msg.err)
	}

	reqs := api.dispatched()
	if len(reqs) != 1 {
		t.Fatalf("dispatched %d requests, want 1", len(reqs))
	}
	if reqs[0].Method != "POST" || reqs[0].URL != "https://example.test/v2.3/Orders/9/Status" {
		t.Fatalf("request = %s %s", reqs[0].Method, reqs[0].URL)
	}
	body, ok := reqs[0].Body.(pwinty.StatusParams)
	if !ok || body.Status != pwinty.StatusCancelled || body.ID != "9" {
		t.Fatalf("body = %#v", reqs[0].Body)
	}

	m = update(t, m, msg)
	if src.kicks != 1 {
		t.Fatalf("kicks = %d, want 1", src.kicks)
	}
	if !strings.Contains(m.flash.text, "Cancelled") || m.flash.isError {
		t.Fatalf("flash = %+v", m.flash)
	}
}

func TestModel_DenyAbortsStatusChange(t *testing.T) {
	api := &recordingAPI{}
	m := newTestModel(t, api, &fakeSource{}, sampleOrders())

	m = update(t, m, runes("s"))
	if m.pending == nil {
		t.Fatalf("expected submit prompt")
	}
	m, cmd := updateCmd(t, m, runes("n"))
	if m.pending != nil || cmd != nil {
		t.Fatalf("deny left pending=%v cmd=%t", m.pending, cmd != nil)
	}
	if n := len(api.dispatched()); n != 0 {
		t.Fatalf("dispatched %d requests after deny", n)
	}
}

func TestModel_SameStatusDoesNotPrompt(t *testing.T) {
	m := newTestModel(t, nil, &fakeSource{}, []pwinty.Order{{ID: 3, Status: pwinty.StatusCancelled}})

	m = update(t, m, runes("c"))
	if m.pending != nil {
		t.Fatalf("prompted for an order already cancelled")
	}
	if !strings.Contains(m.flash.text, "already") {
		t.Fatalf("flash = %q", m.flash.text)
	}
}

func TestModel_ActionErrorShowsFlash(t *testing.T) {
	src := &fakeSource{}
	m := newTestModel(t, nil, src, sampleOrders())

	err := &pwinty.StatusError{Code: 403, Message: "Forbidden"}
	m = update(t, m, actionMsg{orderID: 9, status: pwinty.StatusSubmitted, err: err})
	if !m.flash.isError || !strings.Contains(m.flash.text, "HTTP Code 403") {
		t.Fatalf("flash = %+v", m.flash)
	}
	if src.kicks != 0 {
		t.Fatalf("kicked after failed action")
	}
}

func TestModel_EnterLoadsDetail(t *testing.T) {
	api := &recordingAPI{bodies: map[string]string{
		"/Orders/9":                  `{"id":9,"status":"NotYetSubmitted","recipientName":"Grace"}`,
		"/Orders/9/Photos":           `[{"id":1,"type":"4x6","copies":2,"url":"https://example.com/a.jpg"},{"id":2,"type":"5x7","copies":1}]`,
		"/Orders/9/SubmissionStatus": `{"id":9,"isValid":false,"generalErrors":["NoPhotos"]}`,
	}}
	m := newTestModel(t, api, &fakeSource{}, sampleOrders())

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detail.loading || cmd == nil {
		t.Fatalf("enter did not start loading")
	}
	m = update(t, m, cmd())

	if m.detail.err != nil {
		t.Fatalf("detail error: %v", m.detail.err)
	}
	if !m.detail.loaded || len(m.detail.photos) != 2 {
		t.Fatalf("detail = %+v, want 2 photos", m.detail)
	}
	content := m.detailContent()
	for _, want := range []string{"Order #9", "Not ready to submit", "NoPhotos", "Photos (2)"} {
		if !strings.Contains(content, want) {
			t.Fatalf("detail content missing %q:\n%s", want, content)
		}
	}
	if n := len(api.dispatched()); n != 3 {
		t.Fatalf("dispatched %d requests, want 3", n)
	}
}

func TestModel_StaleDetailIgnored(t *testing.T) {
	m := newTestModel(t, nil, &fakeSource{}, sampleOrders())

	m = update(t, m, detailMsg{orderID: 7, order: pwinty.Order{ID: 7}})
	if m.detail.loaded {
		t.Fatalf("applied detail for an order that is not selected")
	}
}

func TestModel_LogsViewFiltersWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwinty.log")
	data := "time=x level=INFO msg=\"order poll ok\"\ntime=x level=WARN msg=\"order poll failed\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	store := &state.Store{}
	m := New(Options{Store: store, Config: &config.Config{LogFile: path}, PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	m, cmd := updateCmd(t, m, runes("l"))
	if m.currentView != ViewLogs || cmd == nil {
		t.Fatalf("l did not open logs")
	}
	m = update(t, m, cmd())
	if view := m.logViewport.View(); !strings.Contains(view, "order poll ok") {
		t.Fatalf("log view missing info line:\n%s", view)
	}

	m, cmd = updateCmd(t, m, runes("w"))
	m = update(t, m, cmd())
	view := m.logViewport.View()
	if strings.Contains(view, "order poll ok") || !strings.Contains(view, "order poll failed") {
		t.Fatalf("warnings-only view wrong:\n%s", view)
	}
}

func TestModel_QuitAndHelp(t *testing.T) {
	m := newTestModel(t, nil, &fakeSource{}, nil)

	m = update(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m = update(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}

	_, cmd := updateCmd(t, m, runes("e"))
	if cmd == nil {
		t.Fatalf("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit command did not produce QuitMsg")
	}
}

func TestRun_RequiresStore(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Fatalf("Run without store should fail")
	}
}

func TestFlashExpires(t *testing.T) {
	f := flashMessage{text: "x", until: time.Now().Add(-time.Second)}
	if !f.expired() {
		t.Fatalf("flash should be expired")
	}
	if (flashMessage{}).expired() {
		t.Fatalf("empty flash reported expired")
	}
}

func TestModel_TickReadsStoreAndRearms(t *testing.T) {
	m := newTestModel(t, nil, &fakeSource{}, sampleOrders())
	m.store.Update("", []pwinty.Order{{ID: 11, Status: pwinty.StatusComplete}}, nil, nil)

	_, cmd := updateCmd(t, m, tickMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("tick returned no command")
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("tick command = %T, want a batch", msg)
	}

	var rearmed bool
	var snap *state.Snapshot
	for _, c := range batch {
		switch msg := c().(type) {
		case tickMsg:
			rearmed = true
		case snapshotMsg:
			s := state.Snapshot(msg)
			snap = &s
		}
	}
	if !rearmed {
		t.Fatalf("tick did not schedule the next tick")
	}
	if snap == nil || len(snap.Orders) != 1 || snap.Orders[0].ID != 11 {
		t.Fatalf("snapshot = %+v, want the updated orders", snap)
	}
}
