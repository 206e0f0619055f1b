// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/avfs/avfs/idm/memidm"
	"github.com/avfs/avfs/vfs/memfs"
	"github.com/matt-FFFFFF/pushd/dirswitch"
	"github.com/matt-FFFFFF/pushd/internal/ctxlog"
	"github.com/matt-FFFFFF/pushd/internal/plan"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const goodPlan = `name: home
steps:
  - name: list code
    dir: a_user/code
    list: true
  - name: build
    dir: a_user/code
    command: [make]
`

const failingPlan = `steps:
  - name: broken
    dir: a_user
    shell: exit 1
  - name: after
    dir: a_user/code
    shell: "true"
`

var errExit = errors.New("exit 1")

// stubAll points the plan file system, the environment and the executor at
// in-memory fakes and returns the working directories the fake executor saw.
func stubAll(t *testing.T, files map[string]string) (*dirswitch.VFSEnv, *[]string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	vfs := memfs.NewWithOptions(&memfs.Options{Idm: memidm.New()})
	require.NoError(t, vfs.MkdirAll("/home/a_user/code", 0o755))
	require.NoError(t, vfs.WriteFile("/home/a_user/code/main.go", nil, 0o644))
	require.NoError(t, vfs.Chdir("/home"))

	env := dirswitch.NewVFSEnv(vfs)
	wds := new([]string)

	stubs := gostub.Stub(&plan.FsFactory, func() afero.Fs {
		return fs
	})
	stubs.Stub(&EnvFactory, func() dirswitch.Env {
		return env
	})
	stubs.Stub(&Exec, plan.ExecFunc(func(_ context.Context, step plan.Step, _, _ io.Writer) (int, error) {
		wd, err := env.Getwd()
		if err != nil {
			return -1, err
		}

		*wds = append(*wds, wd)

		if step.Shell == "exit 1" {
			return 1, errExit
		}

		return 0, nil
	}))
	t.Cleanup(stubs.Reset)

	return env, wds
}

func runRun(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newCmd()
	cmd.Writer = &out
	cmd.ErrWriter = io.Discard

	ctx := ctxlog.NewForWriter(context.Background(), io.Discard)
	err := cmd.Run(ctx, append([]string{"run"}, args...))

	return out.String(), err
}

func TestRunPlan(t *testing.T) {
	defer goleak.VerifyNone(t)

	env, wds := stubAll(t, map[string]string{"plans/good.yaml": goodPlan})

	out, err := runRun(t, "-f", "plans/good.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "main.go\n")
	assert.Contains(t, out, "home\n")
	assert.Contains(t, out, "build (/home/a_user/code)")
	assert.Equal(t, []string{"/home/a_user/code"}, *wds)

	wd, err := env.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/home", wd)
}

func TestRunFailingPlan(t *testing.T) {
	env, wds := stubAll(t, map[string]string{
		"plans/good.yaml":    goodPlan,
		"plans/failing.yaml": failingPlan,
	})

	out, err := runRun(t, "-f", "plans/failing.yaml", "-f", "plans/good.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlanFailed)
	assert.ErrorIs(t, err, errExit)

	// The failing plan stops after its first step; the next plan still runs.
	assert.Equal(t, []string{"/home/a_user", "/home/a_user/code"}, *wds)
	assert.Contains(t, out, "plans/failing.yaml\n")
	assert.Contains(t, out, "after (a_user/code)")

	wd, err := env.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/home", wd)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "no file",
			args:    nil,
			wantErr: ErrNoPlanFile,
		},
		{
			name:    "invalid plan",
			args:    []string{"-f", "plans/invalid.yaml"},
			wantErr: plan.ErrInvalidStep,
		},
		{
			name:    "unknown getter url",
			args:    []string{"-f", "git::http://notexist//plans/"},
			wantErr: plan.ErrGetPlanFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, wds := stubAll(t, map[string]string{
				"plans/invalid.yaml": "steps:\n  - dir: a_user\n",
			})

			_, err := runRun(t, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, *wds)
		})
	}
}
