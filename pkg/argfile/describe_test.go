package argfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MarvinJWendt/testza"
	"github.com/argfile/argfile/pkg/argfile"
)

func TestDescribe_ReportsArgumentSurface(t *testing.T) {
	t.Parallel()

	doc, err := argfile.Describe(greetArgs{Greeting: "Hello"})
	testza.AssertNil(t, err)
	testza.AssertEqual(t, 2, len(doc.Args))

	name := doc.Args[0]
	testza.AssertEqual(t, "name", name.Name)
	testza.AssertEqual(t, "string", name.Type)
	testza.AssertFalse(t, name.Optional)
	testza.AssertEqual(t, "", name.Default)

	greeting := doc.Args[1]
	testza.AssertEqual(t, "greeting", greeting.Name)
	testza.AssertTrue(t, greeting.Optional)
	testza.AssertEqual(t, "Hello", greeting.Default)
}

func TestDescribe_RecursesIntoNestedRecords(t *testing.T) {
	t.Parallel()

	doc, err := argfile.Describe(jobArgs{})
	testza.AssertNil(t, err)
	testza.AssertEqual(t, 2, len(doc.Args))

	retry := doc.Args[1]
	testza.AssertEqual(t, "retry", retry.Name)
	testza.AssertEqual(t, "object", retry.Type)
	testza.AssertEqual(t, 2, len(retry.Args))
	testza.AssertEqual(t, "count", retry.Args[0].Name)
	testza.AssertEqual(t, "number", retry.Args[0].Type)
	testza.AssertEqual(t, "wait", retry.Args[1].Name)
	testza.AssertEqual(t, "duration", retry.Args[1].Type)
}

func TestDescribe_SkipsExcludedFields(t *testing.T) {
	t.Parallel()

	doc, err := argfile.Describe(secretArgs{})
	testza.AssertNil(t, err)
	testza.AssertEqual(t, 1, len(doc.Args))
	testza.AssertEqual(t, "name", doc.Args[0].Name)
}

func TestDescribe_RejectsNonStructTypes(t *testing.T) {
	t.Parallel()

	_, err := argfile.Describe(42)
	testza.AssertNotNil(t, err)
}

func TestSkeleton_RoundTripsThroughLoad(t *testing.T) {
	t.Parallel()

	skeleton, err := argfile.Skeleton(point{})
	testza.AssertNil(t, err)

	path := filepath.Join(t.TempDir(), "skeleton.json")
	testza.AssertNil(t, os.WriteFile(path, skeleton, 0o644))

	p, err := argfile.Load[point](path)
	testza.AssertNil(t, err)
	testza.AssertEqual(t, point{}, *p)
}

func TestSkeleton_CarriesPrototypeDefaults(t *testing.T) {
	t.Parallel()

	skeleton, err := argfile.Skeleton(jobArgs{
		Name:  "sync",
		Retry: retryArgs{Count: 3, Wait: 90 * time.Second},
	})
	testza.AssertNil(t, err)
	testza.AssertContains(t, string(skeleton), `"name": "sync"`)
	testza.AssertContains(t, string(skeleton), `"count": 3`)
	testza.AssertContains(t, string(skeleton), `"wait": "1m30s"`)

	path := filepath.Join(t.TempDir(), "skeleton.json")
	testza.AssertNil(t, os.WriteFile(path, skeleton, 0o644))

	args, err := argfile.Load[jobArgs](path)
	testza.AssertNil(t, err)
	testza.AssertEqual(t, "sync", args.Name)
	testza.AssertEqual(t, 3, args.Retry.Count)
	testza.AssertEqual(t, 90*time.Second, args.Retry.Wait)
}

func TestSkeleton_RendersZeroDurationsAsStrings(t *testing.T) {
	t.Parallel()

	skeleton, err := argfile.Skeleton(retryArgs{})
	testza.AssertNil(t, err)
	testza.AssertContains(t, string(skeleton), `"wait": "0s"`)
}
