package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, 12, 11)
	l.OnLayoutComplete(ctx, LayoutStats{Nodes: 12, Edges: 11, Restarts: 40, Duration: time.Second})
	l.OnExpired(ctx, 3)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnOperation(ctx, "redis", "save", time.Millisecond, nil)
	s.OnSnapshot(ctx, "mongo", 42)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "example.com", "/zones.json")
	h.OnResponse(ctx, "GET", "example.com", "/zones.json", 200, time.Second)
	h.OnError(ctx, "GET", "example.com", "/zones.json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}
}

func TestRegisterInstallsEveryCategory(t *testing.T) {
	Reset()
	defer Reset()

	all := &testAllHooks{}
	Register(all)

	if Layout() != all {
		t.Error("Register should install layout hooks")
	}
	if Store() != all {
		t.Error("Register should install store hooks")
	}
	if HTTP() != all {
		t.Error("Register should install HTTP hooks")
	}
}

func TestRegisterPartial(t *testing.T) {
	Reset()
	defer Reset()

	Register(&testStoreHooks{})

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Register with store-only hooks should leave layout hooks alone")
	}
	if _, ok := Store().(*testStoreHooks); !ok {
		t.Error("Register should install store hooks")
	}
}

type testLayoutHooks struct{ NoopLayoutHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

type testAllHooks struct {
	NoopLayoutHooks
	NoopStoreHooks
	NoopHTTPHooks
}
