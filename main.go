package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/fpsrig/pkg/app"
)

var (
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
	tuningFlag  = flag.String("tuning", "", "Path to a tuning config YAML file (watched for changes)")
)

func main() {
	flag.Parse()

	// 创建应用实例
	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		TuningPath: *tuningFlag,
	})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer gameApp.Close()

	// 设置窗口属性
	ebiten.SetWindowSize(app.GameWindowWidth, app.GameWindowHeight)
	ebiten.SetWindowTitle("FPS Rig Demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// 启动游戏主循环
	// 反复调用 Update() 和 Draw()，直到窗口关闭
	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
