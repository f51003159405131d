// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		code    ExitCode
		wantErr bool
	}{
		{name: "success", code: 0},
		{name: "generic failure", code: 1},
		{name: "max valid", code: 255},
		{name: "negative", code: -1, wantErr: true},
		{name: "too large", code: 256, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.code.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("Validate() = %v, want ErrInvalidExitCode", err)
			}
		})
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	if !ExitCode(0).IsSuccess() {
		t.Error("ExitCode(0).IsSuccess() = false")
	}
	if ExitCode(3).IsSuccess() {
		t.Error("ExitCode(3).IsSuccess() = true")
	}
}

func TestExitCodeString(t *testing.T) {
	if got := ExitCode(42).String(); got != "42" {
		t.Errorf("String() = %q, want 42", got)
	}
}
