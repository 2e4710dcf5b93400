package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
)

var (
	logLevel  = flag.String("log-level", "info", "log level for stores under test")
	logStderr = flag.Bool("log-stderr", false, "log stores under test to standard error")
)

// Logger returns a logger for the stores of one test. It appends to dir/name.log, or
// writes to standard error with -log-stderr.
func Logger(t testing.TB, dir, name string) *log.Logger {
	t.Helper()

	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		t.Fatal(err)
	}

	lgr := log.New()
	lgr.SetLevel(lvl)
	if !*logStderr {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			t.Fatal(err)
		}
		f, err := os.OpenFile(filepath.Join(dir, name+".log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			f.Close()
		})
		lgr.SetOutput(f)
	}

	lgr.WithField("test", t.Name()).Info("test starting")
	return lgr
}
