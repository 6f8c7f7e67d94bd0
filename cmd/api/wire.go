//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/xiebiao/postboard/internal/app"
)

// InitializeApp Wire注入器
// 生成：cd cmd/api && wire
func InitializeApp() (*App, func(), error) {
	wire.Build(
		app.InfrastructureSet,
		app.PostSet,
		newApp,
	)
	return nil, nil, nil
}
