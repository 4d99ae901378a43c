package file_test

import (
	"context"
	"reflect"

	"github.com/DMarby/quick-pic/internal/library"
	"github.com/DMarby/quick-pic/internal/library/file"

	"testing"
)

var sample = library.Image{
	ID:     "1",
	Author: "Jane Doe",
	URL:    "https://example.com/photos/1",
	Width:  64,
	Height: 64,
}

var secondSample = library.Image{
	ID:     "2",
	Author: "John Doe",
	URL:    "https://example.com/photos/2",
	Width:  32,
	Height: 32,
}

func TestFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := file.New("../../../test/fixtures/library/metadata_multiple.json")
	if err != nil {
		t.Fatal(err)
	}
	defer provider.Shutdown()

	t.Run("Get a sample by id", func(t *testing.T) {
		buf, err := provider.Get(ctx, "1")
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(buf, &sample) {
			t.Error("sample metadata doesn't match")
		}
	})

	t.Run("Returns error on a nonexistant sample", func(t *testing.T) {
		_, err := provider.Get(ctx, "nonexistant")
		if err == nil || err.Error() != library.ErrNotFound.Error() {
			t.FailNow()
		}
	})

	t.Run("Returns a random sample", func(t *testing.T) {
		sample, err := provider.GetRandom(ctx)
		if err != nil {
			t.Fatal(err)
		}

		if sample.ID != "1" && sample.ID != "2" {
			t.Error("wrong sample")
		}
	})

	t.Run("Returns a list of all the samples", func(t *testing.T) {
		samples, err := provider.ListAll(ctx)
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(samples, []library.Image{sample, secondSample}) {
			t.Error("sample list doesn't match")
		}
	})

	t.Run("Returns a list of samples with an offset/limit", func(t *testing.T) {
		samples, err := provider.List(ctx, 1, 1)
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(samples, []library.Image{secondSample}) {
			t.Error("sample list doesn't match")
		}
	})

	t.Run("Clamps the offset/limit to the list", func(t *testing.T) {
		samples, err := provider.List(ctx, 5, 30)
		if err != nil {
			t.Fatal(err)
		}

		if len(samples) != 0 {
			t.Error("sample list doesn't match")
		}
	})

	t.Run("Returns error on a nonexistant path", func(t *testing.T) {
		_, err := file.New("")
		if err == nil {
			t.FailNow()
		}
	})
}
