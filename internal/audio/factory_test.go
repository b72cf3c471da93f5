package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryInterface(t *testing.T) {
	var _ BackendFactory = NewBackendFactory()
}

func TestFactoryIsValidBackendType(t *testing.T) {
	factory := NewBackendFactory()

	testCases := []struct {
		backendType string
		expected    bool
	}{
		{"", true},
		{"auto", true},
		{"malgo", true},
		{"oto", true},
		{"system_command", true},
		{"pulseaudio", false},
		{"MALGO", false},
	}

	for _, tc := range testCases {
		result := factory.IsValidBackendType(tc.backendType)
		if result != tc.expected {
			t.Errorf("IsValidBackendType(%q) = %v, expected %v", tc.backendType, result, tc.expected)
		}
	}
}

func TestFactoryGetSupportedBackends(t *testing.T) {
	factory := NewBackendFactory()

	assert.Equal(t, []string{"auto", "system_command", "malgo", "oto"}, factory.GetSupportedBackends())
}

func TestFactoryCreateBackendInvalidType(t *testing.T) {
	factory := NewBackendFactory()

	backend, err := factory.CreateBackend("bogus")

	assert.Nil(t, backend)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBackendType))
}

func TestFactoryCreateMalgoBackend(t *testing.T) {
	factory := NewBackendFactory()

	backend, err := factory.CreateBackend("malgo")
	require.NoError(t, err)
	require.NotNil(t, backend)

	if _, ok := backend.(*MalgoBackend); !ok {
		t.Errorf("expected *MalgoBackend, got %T", backend)
	}
}

func TestFactoryCreateOtoBackend(t *testing.T) {
	factory := NewBackendFactory()

	backend, err := factory.CreateBackend("oto")
	require.NoError(t, err)
	require.NotNil(t, backend)

	if _, ok := backend.(*OtoBackend); !ok {
		t.Errorf("expected *OtoBackend, got %T", backend)
	}
}

func TestFactoryCreateSystemCommandBackend(t *testing.T) {
	t.Run("with available command", func(t *testing.T) {
		factory := NewBackendFactoryWithDependencies(
			func() bool { return false },
			func(cmd string) bool { return cmd == "paplay" },
		)

		backend, err := factory.CreateBackend("system_command")
		require.NoError(t, err)

		scb, ok := backend.(*SystemCommandBackend)
		require.True(t, ok, "expected *SystemCommandBackend, got %T", backend)
		assert.Equal(t, "paplay", scb.command)
	})

	t.Run("without available commands", func(t *testing.T) {
		factory := NewBackendFactoryWithDependencies(
			func() bool { return false },
			func(string) bool { return false },
		)

		backend, err := factory.CreateBackend("system_command")

		assert.Nil(t, backend)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBackendNotAvailable))
	})
}

func TestFactoryAutoSelection(t *testing.T) {
	t.Run("wsl prefers system command", func(t *testing.T) {
		factory := NewBackendFactoryWithDependencies(
			func() bool { return true },
			func(cmd string) bool { return cmd == "aplay" },
		)

		backend, err := factory.CreateBackend("auto")
		require.NoError(t, err)

		if _, ok := backend.(*SystemCommandBackend); !ok {
			t.Errorf("expected *SystemCommandBackend, got %T", backend)
		}
	})

	t.Run("native prefers malgo", func(t *testing.T) {
		factory := NewBackendFactoryWithDependencies(
			func() bool { return false },
			func(string) bool { return true },
		)

		backend, err := factory.CreateBackend("auto")
		require.NoError(t, err)

		if _, ok := backend.(*MalgoBackend); !ok {
			t.Errorf("expected *MalgoBackend, got %T", backend)
		}
	})

	t.Run("empty type defaults to auto", func(t *testing.T) {
		factory := NewBackendFactoryWithDependencies(
			func() bool { return false },
			func(string) bool { return true },
		)

		backend, err := factory.CreateBackend("")
		require.NoError(t, err)
		require.NotNil(t, backend)
	})
}
