package errors

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// ScriptError Tests
// -----------------------------------------------------------------------------

func TestScriptError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ScriptError
		want string
	}{
		{
			name: "message only",
			err:  NewScriptError("unknown command", nil),
			want: "unknown command",
		},
		{
			name: "with file and line",
			err:  NewScriptError("unknown command", nil).WithLocation("jobs.txt", 4),
			want: "jobs.txt:4: unknown command",
		},
		{
			name: "line without file",
			err:  NewScriptError("bad urgency", nil).WithLocation("", 2),
			want: "line 2: bad urgency",
		},
		{
			name: "with command and cause",
			err: NewScriptError("bad urgency", ErrInvalidCommand).
				WithLocation("jobs.txt", 7).
				WithCommand("add a x"),
			want: `jobs.txt:7: bad urgency ("add a x"): invalid command`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScriptError_Unwrap(t *testing.T) {
	err := NewScriptError("bad", ErrInvalidCommand)
	if !Is(err, ErrInvalidCommand) {
		t.Error("Is(ErrInvalidCommand) = false, want true")
	}

	var target *ScriptError
	wrapped := fmt.Errorf("run: %w", err)
	if !As(wrapped, &target) {
		t.Fatal("As(*ScriptError) = false, want true")
	}
	if target.Message != "bad" {
		t.Errorf("Message = %q, want %q", target.Message, "bad")
	}
}

// -----------------------------------------------------------------------------
// PlanError Tests
// -----------------------------------------------------------------------------

func TestPlanError(t *testing.T) {
	cause := errors.New("yaml: line 3: did not find expected key")
	err := NewPlanError("decode plan", cause).WithFile("plan.yaml").WithTask("build")

	want := "plan.yaml: decode plan [task=build]: yaml: line 3: did not find expected key"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidPlan) {
		t.Error("Is(ErrInvalidPlan) = false, want true")
	}
	if !Is(err, cause) {
		t.Error("Is(cause) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("task", "deploy")
	if got, want := err.Error(), "task not found: deploy"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrTaskNotFound) {
		t.Error("Is(ErrTaskNotFound) = false, want true")
	}
	if Is(NewNotFoundError("file", "x"), ErrTaskNotFound) {
		t.Error("file NotFoundError should not match ErrTaskNotFound")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("must not be empty").WithField("id").WithValue("")
	if got, want := err.Error(), "validation error [field=id]: must not be empty (got: )"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"script", NewScriptError("bad", nil), true},
		{"wrapped plan", Wrap(NewPlanError("bad", nil), "load"), true},
		{"validation", NewValidationError("bad"), true},
		{"not found", NewNotFoundError("task", "a"), true},
		{"unsupported format", Wrapf(ErrUnsupportedFormat, "open %s", "x.toml"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrInvalidCommand, "line %d", 3)
	if got, want := err.Error(), "line 3: invalid command"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidCommand) {
		t.Error("wrapped error should match sentinel")
	}
}
