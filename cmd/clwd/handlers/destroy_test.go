package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTTY(t *testing.T, tty bool) {
	t.Helper()
	orig := stdoutIsTTY
	stdoutIsTTY = func() bool { return tty }
	t.Cleanup(func() { stdoutIsTTY = orig })
}

func setConfirm(t *testing.T, answer bool) *int {
	t.Helper()
	calls := new(int)
	orig := confirmDestroy
	confirmDestroy = func(name string) (bool, error) {
		*calls++
		return answer, nil
	}
	t.Cleanup(func() { confirmDestroy = orig })
	return calls
}

func TestDestroy_ForceSkipsConfirmation(t *testing.T) {
	fake := &fakeLifecycle{}
	installLifecycle(t, fake)
	setTTY(t, false)
	calls := setConfirm(t, false)

	require.NoError(t, Destroy(context.Background(), "demo", true))
	assert.Equal(t, []string{"demo"}, fake.destroyNames)
	assert.Equal(t, 0, *calls)
}

func TestDestroy_ConfirmationDeclined(t *testing.T) {
	fake := &fakeLifecycle{}
	installLifecycle(t, fake)
	setTTY(t, true)
	calls := setConfirm(t, false)

	require.NoError(t, Destroy(context.Background(), "demo", false))
	assert.Empty(t, fake.destroyNames)
	assert.Equal(t, 1, *calls)
}

func TestDestroy_ConfirmationAccepted(t *testing.T) {
	fake := &fakeLifecycle{}
	installLifecycle(t, fake)
	setTTY(t, true)
	setConfirm(t, true)

	require.NoError(t, Destroy(context.Background(), "demo", false))
	assert.Equal(t, []string{"demo"}, fake.destroyNames)
}

func TestDestroy_NonInteractiveRequiresForce(t *testing.T) {
	fake := &fakeLifecycle{}
	installLifecycle(t, fake)
	setTTY(t, false)

	err := Destroy(context.Background(), "demo", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Empty(t, fake.destroyNames)
}
