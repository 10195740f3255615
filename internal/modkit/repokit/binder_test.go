package repokit

import (
	"context"
	"testing"

	"bandwatch/internal/platform/store"

	kit "bandwatch/internal/platform/testkit"
)

type fakeQ struct{}

func (f *fakeQ) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	var z store.CommandTag
	return z, nil
}

func (f *fakeQ) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	return nil, nil
}

func (f *fakeQ) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	return nil
}

var _ Queryer = (*fakeQ)(nil)

func TestBindFuncCallsFunc(t *testing.T) {
	t.Parallel()

	b := BindFunc[string](func(_ Queryer) string { return "ok" })
	if got := b.Bind(&fakeQ{}); got != "ok" {
		t.Fatalf("BindFunc.Bind = %q, want %q", got, "ok")
	}
}

func TestRequireQueryerPanicsOnNil(t *testing.T) {
	var q Queryer
	kit.MustPanic(t, func() { _ = RequireQueryer(q) })
}

func TestRequireQueryerReturnsSame(t *testing.T) {
	t.Parallel()

	var in Queryer = &fakeQ{}
	if out := RequireQueryer(in); out != in {
		t.Fatalf("RequireQueryer returned a different Queryer")
	}
}

func TestMustBindPanicsOnNilQueryer(t *testing.T) {
	b := BindFunc[int](func(_ Queryer) int { return 42 })
	kit.MustPanic(t, func() { _ = MustBind[int](b, nil) })
}

func TestMustBindBinds(t *testing.T) {
	t.Parallel()

	b := BindFunc[int](func(_ Queryer) int { return 42 })
	if got := MustBind[int](b, &fakeQ{}); got != 42 {
		t.Fatalf("MustBind = %d, want 42", got)
	}
}
