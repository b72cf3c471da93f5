package fs

import (
	"testing"

	"github.com/spf13/afero"
)

func TestDefaultFactory(t *testing.T) {
	factory := NewDefaultFactory()

	t.Run("production filesystem", func(t *testing.T) {
		prod := factory.Production()
		if prod == nil {
			t.Fatal("expected a production filesystem")
		}
		if _, ok := prod.(*afero.OsFs); !ok {
			t.Errorf("expected *afero.OsFs, got %T", prod)
		}
	})

	t.Run("memory filesystem is writable", func(t *testing.T) {
		mem := factory.Memory()

		err := afero.WriteFile(mem, "/test.txt", []byte("data"), 0o644)
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}

		content, err := afero.ReadFile(mem, "/test.txt")
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if string(content) != "data" {
			t.Errorf("expected 'data', got %q", content)
		}
	})

	t.Run("memory filesystems are independent", func(t *testing.T) {
		first := factory.Memory()
		second := factory.Memory()

		if err := afero.WriteFile(first, "/only-here.txt", []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		if exists, _ := afero.Exists(second, "/only-here.txt"); exists {
			t.Error("expected independent in-memory filesystems")
		}
	})
}
