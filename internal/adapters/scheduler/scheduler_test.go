package scheduler

import (
	"context"
	"testing"

	"search-service/internal/contextkeys"
)

type countingClear struct{ calls int }

func (c *countingClear) Execute(context.Context) (int64, error) {
	c.calls++
	return 2, nil
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New("every tuesday", &countingClear{}, contextkeys.LoggerFromContext(context.Background()))
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected an error for an invalid cron spec")
	}
}

func TestStartWithoutSpecIsNoop(t *testing.T) {
	s := New("", &countingClear{}, contextkeys.LoggerFromContext(context.Background()))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}

func TestRunOnceCallsUseCase(t *testing.T) {
	uc := &countingClear{}
	s := New("0 3 * * *", uc, contextkeys.LoggerFromContext(context.Background()))
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	s.runOnce(context.Background())
	if uc.calls != 1 {
		t.Fatalf("calls = %d, want 1", uc.calls)
	}
}
