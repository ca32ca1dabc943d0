package pprof

import "github.com/google/wire"

var ProviderSet = wire.NewSet(ProvidePprofServer)

func ProvidePprofServer(config PprofConfig) *Server {
	return NewServer(config)
}
