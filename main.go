package main

import (
	"embed"

	"github.com/chazu/scatter/pkg/logger"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if err := logger.Init("info", ""); err != nil {
		panic(err)
	}
	defer logger.Sync()

	app := NewApp()

	err := wails.Run(&options.App{
		Title:  "scatter",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logger.Log.Error("wails run failed: " + err.Error())
	}
}
