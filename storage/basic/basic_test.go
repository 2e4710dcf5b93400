package basic_test

import (
	"testing"

	"github.com/woojinnn/gluesql/storage/basic"
	"github.com/woojinnn/gluesql/storage/test"
)

func TestBasic(t *testing.T) {
	test.RunStoreTest(t, basic.NewStore())
	test.RunSnapshotTest(t, basic.NewStore())
}
