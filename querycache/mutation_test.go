package querycache

import (
	"context"
	"errors"
	"testing"
)

// TestMutation_Success verifies result recording and the success hook.
func TestMutation_Success(t *testing.T) {
	c := testClient()
	hookRuns := 0
	var hooked string

	m := NewMutation(c, func(_ context.Context, arg string) (string, error) {
		return "echo:" + arg, nil
	}, MutationOptions[string]{
		OnSuccess: func(_ context.Context, result string) {
			hookRuns++
			hooked = result
		},
	})

	if m.Status() != MutationIdle {
		t.Errorf("initial Status = %v, want idle", m.Status())
	}

	got, err := m.Run(context.Background(), "value")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got != "echo:value" {
		t.Errorf("Run() = %q, want echo:value", got)
	}
	if m.Status() != MutationSuccess {
		t.Errorf("Status = %v, want success", m.Status())
	}
	if m.Data() != "echo:value" {
		t.Errorf("Data() = %q, want echo:value", m.Data())
	}
	if hookRuns != 1 || hooked != "echo:value" {
		t.Errorf("OnSuccess runs = %d with %q, want 1 with echo:value", hookRuns, hooked)
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v, want nil", m.Err())
	}
}

// TestMutation_Failure verifies failures stay on the handle and skip the hook.
func TestMutation_Failure(t *testing.T) {
	boom := errors.New("rejected")
	hookRuns := 0

	m := NewMutation(nil, func(context.Context, int) (int, error) {
		return 0, boom
	}, MutationOptions[int]{
		OnSuccess: func(context.Context, int) { hookRuns++ },
	})

	_, err := m.Run(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if m.Status() != MutationError {
		t.Errorf("Status = %v, want error", m.Status())
	}
	if !errors.Is(m.Err(), boom) {
		t.Errorf("Err() = %v, want boom", m.Err())
	}
	if hookRuns != 0 {
		t.Error("OnSuccess ran on failure")
	}
}

// TestMutation_RecoversAfterFailure verifies a later run clears the error.
func TestMutation_RecoversAfterFailure(t *testing.T) {
	fail := true
	m := NewMutation(nil, func(context.Context, int) (int, error) {
		if fail {
			return 0, errors.New("boom")
		}
		return 42, nil
	}, MutationOptions[int]{})

	if _, err := m.Run(context.Background(), 0); err == nil {
		t.Fatal("expected first run to fail")
	}

	fail = false
	got, err := m.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got != 42 {
		t.Errorf("Run() = %d, want 42", got)
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v after success, want nil", m.Err())
	}
}

// TestMutation_ID verifies handles get distinct identifiers.
func TestMutation_ID(t *testing.T) {
	fn := func(context.Context, int) (int, error) { return 0, nil }
	a := NewMutation(nil, fn, MutationOptions[int]{})
	b := NewMutation(nil, fn, MutationOptions[int]{})

	if a.ID() == "" {
		t.Error("empty mutation ID")
	}
	if a.ID() == b.ID() {
		t.Error("mutation IDs collide")
	}
}
