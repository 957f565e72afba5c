package pprofserver

import (
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
)

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	return mux
}

// Launch a standard pprof server at the given loopback address, e.g. "localhost:6060".
// It is kept off the public listener so that profiling is not open to the world.
func Launch(addr string, logger *slog.Logger) {
	go func() {
		logger.Info("starting pprof server", "addr", addr)
		server := &http.Server{ //nolint:gosec // no timeouts needed for a loopback-only profiler
			Addr:    addr,
			Handler: newServeMux(),
		}
		err := server.ListenAndServe()
		logger.Error(err.Error())
		os.Exit(1)
	}()
}
