// SPDX-License-Identifier: MPL-2.0

package fspath

import (
	"path/filepath"
	"testing"

	"foldrun-cli/pkg/types"
)

func TestJoin(t *testing.T) {
	got := Join("a", "b", "c.yaml")
	want := types.FilesystemPath(filepath.Join("a", "b", "c.yaml"))
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}

func TestJoinStr(t *testing.T) {
	got := JoinStr("/out", "boltz_error.log")
	want := types.FilesystemPath(filepath.Join("/out", "boltz_error.log"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestDirAndBase(t *testing.T) {
	p := types.FilesystemPath(filepath.Join("data", "run.yaml"))
	if got := Dir(p); got != types.FilesystemPath("data") {
		t.Errorf("Dir() = %q, want data", got)
	}
	if got := Base(p); got != "run.yaml" {
		t.Errorf("Base() = %q, want run.yaml", got)
	}
}

func TestAbs(t *testing.T) {
	got, err := Abs("run.yaml")
	if err != nil {
		t.Fatalf("Abs() error: %v", err)
	}
	if !IsAbs(got) {
		t.Errorf("Abs() = %q, want an absolute path", got)
	}
}

func TestClean(t *testing.T) {
	p := types.FilesystemPath("a" + string(filepath.Separator) + ".." + string(filepath.Separator) + "b")
	if got := Clean(p); got != types.FilesystemPath("b") {
		t.Errorf("Clean() = %q, want b", got)
	}
}
