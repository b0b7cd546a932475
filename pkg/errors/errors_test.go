package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeParse, cause, "parse failed")

	if err.Code != ErrCodeParse {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeParse)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeParse,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeParse, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeParse,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidRecipe, "test"),
			expected: ErrCodeInvalidRecipe,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppend(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")

	if got := Append(nil, nil); got != nil {
		t.Errorf("Append(nil, nil) = %v, want nil", got)
	}
	if got := Append(nil, a); got != a {
		t.Errorf("Append(nil, a) = %v, want a", got)
	}
	if got := Append(a, nil); got != a {
		t.Errorf("Append(a, nil) = %v, want a", got)
	}

	both := Append(Append(nil, a), b)
	parts := List(both)
	if len(parts) != 2 || parts[0] != a || parts[1] != b {
		t.Errorf("List(Append(a, b)) = %v, want [a b]", parts)
	}
	if !errors.Is(both, b) {
		t.Error("errors.Is(both, b) = false, want true")
	}
}

func TestJoin(t *testing.T) {
	err := Join(ErrCodeInvalidRecipe, []error{errors.New("no sink"), errors.New("a cycle")}, "recipe %q has %d problems", "soup", 2)

	if !Is(err, ErrCodeInvalidRecipe) {
		t.Errorf("Join() code = %v, want %v", GetCode(err), ErrCodeInvalidRecipe)
	}
	if got := UserMessage(err); got != `recipe "soup" has 2 problems` {
		t.Errorf("UserMessage() = %q", got)
	}
	want := `INVALID_RECIPE: recipe "soup" has 2 problems: no sink; a cycle`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if parts := List(err); len(parts) != 2 {
		t.Errorf("List() = %v, want 2 parts", parts)
	}

	single := Join(ErrCodeInvalidRecipe, []error{errors.New("only")}, "bad")
	if parts := List(single); len(parts) != 1 || parts[0].Error() != "only" {
		t.Errorf("List(single) = %v", parts)
	}
}
