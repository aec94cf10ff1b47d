//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"slotmath/internal/conf"
	"slotmath/internal/data"
	"slotmath/internal/service"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init report application.
func wireApp(*conf.Data, *zap.Logger) (*service.ReportService, func(), error) {
	panic(wire.Build(data.ProviderSet, service.ProviderSet))
}
