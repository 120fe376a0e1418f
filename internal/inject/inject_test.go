package inject

import (
	"errors"
	"reflect"
	"testing"
)

type fakeBackend struct {
	clipboard string
	typed     []string
	pasted    []string
	writeErr  error
	calls     []string
}

func (f *fakeBackend) Type(text string) {
	f.calls = append(f.calls, "type")
	f.typed = append(f.typed, text)
}

func (f *fakeBackend) ReadClipboard() (string, error) {
	f.calls = append(f.calls, "read")
	return f.clipboard, nil
}

func (f *fakeBackend) WriteClipboard(text string) error {
	f.calls = append(f.calls, "write")
	if f.writeErr != nil {
		return f.writeErr
	}
	f.clipboard = text
	return nil
}

func (f *fakeBackend) Paste() error {
	f.calls = append(f.calls, "paste")
	f.pasted = append(f.pasted, f.clipboard)
	return nil
}

func TestInjectNone(t *testing.T) {
	fb := &fakeBackend{}
	inj := &Injector{method: "none", out: fb}

	if inj.Enabled() {
		t.Error("Enabled() should be false for method none")
	}
	if err := inj.Inject("hello"); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if len(fb.calls) != 0 {
		t.Errorf("backend calls = %v, want none", fb.calls)
	}
}

func TestInjectType(t *testing.T) {
	fb := &fakeBackend{}
	inj := &Injector{method: "type", out: fb}

	if err := inj.Inject("hello"); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if !reflect.DeepEqual(fb.typed, []string{"hello"}) {
		t.Errorf("typed = %v, want [hello]", fb.typed)
	}
}

func TestInjectPasteRestoresClipboard(t *testing.T) {
	fb := &fakeBackend{clipboard: "previous"}
	inj := &Injector{method: "paste", out: fb}

	if err := inj.Inject("hello"); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if !reflect.DeepEqual(fb.pasted, []string{"hello"}) {
		t.Errorf("pasted = %v, want [hello]", fb.pasted)
	}
	if fb.clipboard != "previous" {
		t.Errorf("clipboard = %q, want restored %q", fb.clipboard, "previous")
	}
	want := []string{"read", "write", "paste", "write"}
	if !reflect.DeepEqual(fb.calls, want) {
		t.Errorf("calls = %v, want %v", fb.calls, want)
	}
}

func TestInjectClipboardOnly(t *testing.T) {
	fb := &fakeBackend{clipboard: "previous"}
	inj := &Injector{method: "clipboard", out: fb}

	if err := inj.Inject("hello"); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if fb.clipboard != "hello" {
		t.Errorf("clipboard = %q, want %q", fb.clipboard, "hello")
	}
	if len(fb.pasted) != 0 {
		t.Error("clipboard method should not paste")
	}
}

func TestInjectClipboardError(t *testing.T) {
	fb := &fakeBackend{writeErr: errors.New("no display")}
	inj := &Injector{method: "paste", out: fb}

	if err := inj.Inject("hello"); err == nil {
		t.Error("Inject() should fail when the clipboard cannot be written")
	}
	if len(fb.pasted) != 0 {
		t.Error("nothing should be pasted after a clipboard failure")
	}
}

func TestInjectEmptyText(t *testing.T) {
	fb := &fakeBackend{}
	inj := &Injector{method: "type", out: fb}

	if err := inj.Inject(""); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if len(fb.calls) != 0 {
		t.Error("empty text should not reach the backend")
	}
}
